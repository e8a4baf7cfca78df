package middleware

import (
	"net/http"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
)

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireAdmin(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
