package middleware

import (
	"context"
	"net/http"

	"github.com/immobiligb/immobili-api/internal/handlers/authctx"
	"github.com/immobiligb/immobili-api/internal/handlers/render"
)

type authService interface {
	// Validate the request bearer token and return its subject
	Auth(ctx context.Context, r *http.Request) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token.
// The response never says why the token failed: expired, tampered and
// absent all look the same to the caller.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := as.Auth(r.Context(), r)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				render.ServiceError(w, "Could not validate credentials", http.StatusUnauthorized)
				return
			}

			ctx := authctx.NewContext(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
