package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/sumopedidos/sumo-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// inbound headers checked in order; the first trusted value wins
var inboundRequestIDHeaders = []string{requestIDHeader, "X-Correlation-Id", "X-Amzn-Trace-Id"}

// ids end up in logs and error bodies, so only short tokens are trusted
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._=;-]{1,64}$`)

// RequestID tags each request with an id, reusing a well-formed one from the
// caller or proxy and minting a uuid otherwise. The id is echoed as
// X-Request-Id and carried on the logging context.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := inboundRequestID(r)
			w.Header().Set(requestIDHeader, id)
			if logg != nil {
				r = r.WithContext(logg.WithRequestID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func inboundRequestID(r *http.Request) string {
	for _, h := range inboundRequestIDHeaders {
		if v := r.Header.Get(h); requestIDPattern.MatchString(v) {
			return v
		}
	}
	return uuid.NewString()
}
