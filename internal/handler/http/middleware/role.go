package middleware

import (
	"fmt"
	"net/http"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
)

// RequirePermission checks if the caller's role grants permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := auth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !user.HasPermission(identity.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
