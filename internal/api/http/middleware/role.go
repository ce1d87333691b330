package middleware

import (
	"net/http"

	apiErrors "github.com/axionhelmets/storefront-server/internal/api/errors"
	"github.com/axionhelmets/storefront-server/internal/api/http/response"
	"github.com/axionhelmets/storefront-server/internal/model"
)

// RequireRole admits only users holding role. It must run after
// Authenticate; a request without a user is treated as unauthenticated.
func RequireRole(role model.Role, contextManager model.ContextManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := contextManager.GetUserFromContext(r.Context())
			if !ok {
				response.Error(w, r, apiErrors.NewErrInvalidAuthorizationToken())
				return
			}

			if user.Role != role {
				if role == model.RoleAdmin {
					response.Error(w, r, apiErrors.NewErrAdminOnly())
				} else {
					response.Error(w, r, apiErrors.NewErrForbidden())
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
