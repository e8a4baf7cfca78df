package jwt

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(u user.User) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	if expiration <= 0 {
		return nil, errors.New("access token expiration must be positive")
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(u user.User) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	claims := map[string]interface{}{
		"sub":   strconv.FormatInt(u.ID, 10),
		"email": u.Email,
		"name":  u.FullName(),
		"role":  strings.ToLower(string(u.Role)),
		"type":  tokenTypeAccess,
		"exp":   expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// IdentityFromClaims validates the claims of a token already verified by
// jwtauth.Verifier. A missing role falls back to employee; an unknown role is rejected.
func IdentityFromClaims(claims map[string]interface{}) (auth.Identity, error) {
	if tokenType, ok := claims["type"].(string); !ok || tokenType != tokenTypeAccess {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	role := user.RoleEmployee
	if raw, present := claims["role"]; present {
		roleStr, ok := raw.(string)
		if !ok {
			return auth.Identity{}, auth.ErrInvalidToken
		}
		parsed, ok := user.ParseRole(roleStr)
		if !ok {
			return auth.Identity{}, auth.ErrInvalidToken
		}
		role = parsed
	}

	identity := auth.Identity{UserID: userID, Role: role}
	identity.Name, _ = claims["name"].(string)
	identity.Email, _ = claims["email"].(string)
	return identity, nil
}
