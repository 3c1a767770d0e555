package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumopedidos/sumo-backend/pkg/config"
	"github.com/sumopedidos/sumo-backend/pkg/security"
)

func testPinHash(t *testing.T, pin string) string {
	t.Helper()
	hash, err := security.HashPIN(pin, config.AdminConfig{
		ArgonMemoryKB:    64,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)
	return hash
}

func TestAdminPIN(t *testing.T) {
	hash := testPinHash(t, "4321")

	var seenActor string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenActor = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		hash   string
		pin    string
		status int
	}{
		{"valid pin", hash, "4321", http.StatusOK},
		{"pin with whitespace", hash, " 4321 ", http.StatusOK},
		{"wrong pin", hash, "1234", http.StatusUnauthorized},
		{"missing pin", hash, "", http.StatusUnauthorized},
		{"not configured", "", "4321", http.StatusForbidden},
		{"malformed hash", "plain-text", "4321", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenActor = ""
			req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/group-orders", nil)
			if tt.pin != "" {
				req.Header.Set(AdminPinHeader, tt.pin)
			}
			rec := httptest.NewRecorder()
			AdminPIN(tt.hash, nil)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, ActorAdmin, seenActor)
			} else {
				assert.Empty(t, seenActor)
			}
		})
	}
}

func TestActorDefaultsToPublic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, ActorPublic, ActorFromContext(req.Context()))
}
