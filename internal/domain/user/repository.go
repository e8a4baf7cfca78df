package user

import (
	"context"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// GetByIdentifier matches first name or email case-insensitively, lowest id first.
	GetByIdentifier(ctx context.Context, identifier string) (User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *int64) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, u User) (User, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}
