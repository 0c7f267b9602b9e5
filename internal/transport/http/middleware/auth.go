package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, header string) (owner.Identity, error)
}

// Auth binds the caller identity to the request context. Requests that
// cannot be resolved are answered with 401.
func Auth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				logger.Warn(r.Context(), "unauthorized request",
					logger.String("path", r.URL.Path),
					logger.ErrorF(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"code":    http.StatusUnauthorized,
					"message": "unauthorized",
				})
				return
			}

			ctx := owner.WithIdentity(r.Context(), id)
			ctx = logger.ContextWith(ctx, logger.Int64("owner_id", id.OwnerID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
