package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireAdmin guards the catalog editor and order administration routes.
// It runs after AuthMiddleware, so a missing role means an unauthenticated
// request slipped past routing and is still refused.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(r.Context()) {
				role, _ := GetUserRole(r.Context())
				logger.Warn("Admin route refused",
					zap.String("role", role),
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
