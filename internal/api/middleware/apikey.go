package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/dcamoon/trading-backend/internal/api/response"
)

// NewAPIKeyMiddleware guards mutating routes with a shared API key carried in
// the X-API-Key header. An empty configured key disables the check, which is
// the local-development default; production sets INTERNAL_API_KEY.
func NewAPIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
