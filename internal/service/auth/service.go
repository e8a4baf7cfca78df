package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/jwt"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	userData, err := a.UserRepository.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrUserNotFound
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	// Inactive accounts are rejected before the password is looked at.
	if !userData.IsActive() {
		return auth.LoginResponse{}, auth.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(userData)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	logger.From(ctx).Info("user logged in", "user_id", userData.ID, "role", userData.Role)

	return auth.LoginResponse{
		UserID:    userData.ID,
		Name:      userData.FullName(),
		Role:      userData.Role,
		Email:     userData.Email,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
