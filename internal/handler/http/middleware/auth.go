package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/jwt"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Authenticate must run after jwtauth.Verifier. It turns the verified token into
// an auth.Identity on the request context.
func Authenticate(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrUnauthenticated)
			return
		}

		identity, err := jwt.IdentityFromClaims(claims)
		if err != nil {
			response.HandleError(w, auth.ErrUnauthenticated)
			return
		}

		httplog.SetAttrs(r.Context(),
			slog.String("user_id", strconv.FormatInt(identity.UserID, 10)),
			slog.String("role", string(identity.Role)),
		)

		ctx := auth.WithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "user_id", identity.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hfn)
}
