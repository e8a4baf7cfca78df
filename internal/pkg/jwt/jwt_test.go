package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func newTestService(t *testing.T, exp string) Service {
	t.Helper()
	svc, err := NewJWTService(testSecret, exp)
	require.NoError(t, err)
	return svc
}

// verify mirrors the request path: jwtauth verification, then claim validation.
func verify(svc Service, token string) (auth.Identity, error) {
	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	if err != nil {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	claims, err := parsed.AsMap(context.Background())
	if err != nil {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return IdentityFromClaims(claims)
}

func TestNewJWTService_InvalidExpiration(t *testing.T) {
	_, err := NewJWTService(testSecret, "two hours")
	assert.Error(t, err)

	_, err = NewJWTService(testSecret, "-1m")
	assert.Error(t, err)
}

func TestGenerateAndVerify(t *testing.T) {
	svc := newTestService(t, "120m")
	u := user.User{ID: 42, FirstName: "Ana", LastName: "Ruiz", Email: "ana@demo.local", Role: user.RoleAdmin}

	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(120*time.Minute).Unix(), expiresAt, 5)

	id, err := verify(svc, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, user.RoleAdmin, id.Role)
	assert.Equal(t, "Ana Ruiz", id.Name)
	assert.Equal(t, "ana@demo.local", id.Email)
}

func TestVerify_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := newTestService(t, "1h")

	other, err := NewJWTService("another-secret", "1h")
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken(user.User{ID: 1, Role: user.RoleAdmin})
	require.NoError(t, err)

	_, err = verify(svc, foreign)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, expired, err := svc.JWTAuth().Encode(map[string]interface{}{
		"sub":  "1",
		"type": "access",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = verify(svc, expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = verify(svc, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIdentityFromClaims(t *testing.T) {
	cases := []struct {
		name    string
		claims  map[string]interface{}
		wantErr bool
		role    user.Role
	}{
		{"missing role defaults to employee", map[string]interface{}{"sub": "5", "type": "access"}, false, user.RoleEmployee},
		{"legacy spanish role", map[string]interface{}{"sub": "5", "type": "access", "role": "Empleado"}, false, user.RoleEmployee},
		{"admin role", map[string]interface{}{"sub": "5", "type": "access", "role": "admin"}, false, user.RoleAdmin},
		{"unknown role", map[string]interface{}{"sub": "5", "type": "access", "role": "root"}, true, ""},
		{"non-string role", map[string]interface{}{"sub": "5", "type": "access", "role": 1}, true, ""},
		{"wrong type", map[string]interface{}{"sub": "5", "type": "refresh"}, true, ""},
		{"non-numeric subject", map[string]interface{}{"sub": "abc", "type": "access"}, true, ""},
		{"missing subject", map[string]interface{}{"type": "access"}, true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := IdentityFromClaims(tc.claims)
			if tc.wantErr {
				assert.ErrorIs(t, err, auth.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), id.UserID)
			assert.Equal(t, tc.role, id.Role)
		})
	}
}
