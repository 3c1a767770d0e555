package middleware

import (
	"net/http"
	"strings"

	"github.com/sumopedidos/sumo-backend/api/responses"
	pkgerrors "github.com/sumopedidos/sumo-backend/pkg/errors"
	"github.com/sumopedidos/sumo-backend/pkg/logger"
	"github.com/sumopedidos/sumo-backend/pkg/security"
)

// AdminPinHeader carries the shared administrator PIN.
const AdminPinHeader = "X-Admin-Pin"

// AdminPIN admits requests whose X-Admin-Pin matches the configured argon2id
// hash and marks them as ActorAdmin. With no hash configured every admin
// request is refused.
func AdminPIN(pinHash string, logg *logger.Logger) func(http.Handler) http.Handler {
	pinHash = strings.TrimSpace(pinHash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if pinHash == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access disabled"))
				return
			}

			pin := strings.TrimSpace(r.Header.Get(AdminPinHeader))
			if pin == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing admin pin"))
				return
			}

			ok, err := security.VerifyPIN(pin, pinHash)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify admin pin"))
				return
			}
			if !ok {
				if logg != nil {
					logg.Warn(ctx, "admin.pin.rejected")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid admin pin"))
				return
			}

			ctx = WithActor(ctx, ActorAdmin)
			if logg != nil {
				ctx = logg.WithField(ctx, "actor", ActorAdmin)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
