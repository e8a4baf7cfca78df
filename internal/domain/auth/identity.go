package auth

import (
	"context"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
)

// Identity is the decoded session attached to every authenticated request.
type Identity struct {
	UserID int64
	Role   user.Role
	Name   string
	Email  string
}

func (i Identity) IsAdmin() bool {
	return i.Role == user.RoleAdmin
}

// CanAccess reports whether the identity may act on a resource owned by ownerID.
func (i Identity) CanAccess(ownerID int64) bool {
	return i.IsAdmin() || i.UserID == ownerID
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller identity or ErrUnauthenticated.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == 0 {
		return Identity{}, ErrUnauthenticated
	}
	return id, nil
}

// RequireAdmin returns the identity when the caller is an admin.
func RequireAdmin(ctx context.Context) (Identity, error) {
	id, err := FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}
	if !id.IsAdmin() {
		return Identity{}, ErrAdminRequired
	}
	return id, nil
}
