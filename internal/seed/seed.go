// Package seed inserts the demo accounts used in development.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
)

type Account struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      user.Role
}

var DemoAccounts = []Account{
	{FirstName: "Admin", LastName: "Demo", Email: "admin@demo.local", Password: "admin123", Role: user.RoleAdmin},
	{FirstName: "Empleado", LastName: "Uno", Email: "empleado1@demo.local", Password: "empleado123", Role: user.RoleEmployee},
}

// Run creates every account whose email is not registered yet and returns how
// many were inserted. Existing accounts are left untouched.
func Run(ctx context.Context, users user.UserRepository, accounts []Account) (int, error) {
	created := 0
	for _, acc := range accounts {
		exists, err := users.ExistsByEmail(ctx, acc.Email, nil)
		if err != nil {
			return created, fmt.Errorf("check %s: %w", acc.Email, err)
		}
		if exists {
			slog.InfoContext(ctx, "seed account already present", "email", acc.Email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", acc.Email, err)
		}

		u, err := users.Create(ctx, user.User{
			FirstName:    acc.FirstName,
			LastName:     acc.LastName,
			Email:        acc.Email,
			PasswordHash: string(hash),
			Role:         acc.Role,
			Status:       user.StatusActive,
		})
		if err != nil {
			return created, fmt.Errorf("create %s: %w", acc.Email, err)
		}
		slog.InfoContext(ctx, "seed account created", "user_id", u.ID, "email", u.Email, "role", u.Role)
		created++
	}
	return created, nil
}
