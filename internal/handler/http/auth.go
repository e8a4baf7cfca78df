package http

import (
	"net/http"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/handler/http/response"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if err := decodeJSON(w, r, &loginReq); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	loginResp, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		logger.From(r.Context()).Info("login rejected", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", loginResp)
}
