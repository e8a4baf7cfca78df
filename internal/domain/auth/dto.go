package auth

import (
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
)

// LoginRequest accepts either a first name or an email as identifier.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Identifier) && !validator.IsEmpty(r.Email) {
		r.Identifier = r.Email
	}

	if validator.IsEmpty(r.Identifier) {
		errs.Add("identifier", "identifier is required")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type LoginResponse struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Role      user.Role `json:"role"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt int64     `json:"expires_at"`
}
