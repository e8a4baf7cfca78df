package user

import (
	"strings"
	"time"

	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/validator"
)

const MinPasswordLength = 6

type SortBy string

const (
	SortByName     SortBy = "name"
	SortByLastName SortBy = "lastName"
	SortByEmail    SortBy = "email"
	SortByRole     SortBy = "role"
)

// ParseSortBy maps a sort key (case-insensitive, Spanish aliases accepted) to SortBy.
func ParseSortBy(s string) (SortBy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "nombre":
		return SortByName, true
	case "lastname", "last_name", "apellidos":
		return SortByLastName, true
	case "email":
		return SortByEmail, true
	case "role", "rol":
		return SortByRole, true
	}
	return "", false
}

type ListFilter struct {
	Search *string
	Role   *Role
	Active *bool
	SortBy SortBy
}

// ListUsersQuery carries raw query-string values for GET /usuarios.
type ListUsersQuery struct {
	Search string
	Role   string
	Active string
	SortBy string
}

func (q ListUsersQuery) ToFilter() (ListFilter, error) {
	var errs validator.ValidationErrors
	filter := ListFilter{}

	if s := strings.TrimSpace(q.Search); s != "" {
		filter.Search = &s
	}

	if !validator.IsEmpty(q.Role) {
		role, ok := ParseRole(q.Role)
		if !ok {
			errs.Add("rol", "role must be admin or employee")
		} else {
			filter.Role = &role
		}
	}

	if !validator.IsEmpty(q.Active) {
		switch strings.ToLower(strings.TrimSpace(q.Active)) {
		case "true", "1", "activo", "active":
			active := true
			filter.Active = &active
		case "false", "0", "inactivo", "inactive":
			active := false
			filter.Active = &active
		default:
			errs.Add("activo", "activo must be true or false")
		}
	}

	sortBy, ok := ParseSortBy(q.SortBy)
	if !ok {
		errs.Add("sortBy", "sortBy must be one of name, lastName, email, role")
	}
	filter.SortBy = sortBy

	if err := errs.Err(); err != nil {
		return ListFilter{}, err
	}
	return filter, nil
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Status    Status `json:"status"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		Active:    u.IsActive(),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Active    *bool  `json:"active,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	} else if !validator.MaxLength(r.FirstName, 100) {
		errs.Add("first_name", "first_name must be at most 100 characters")
	}

	if !validator.MaxLength(r.LastName, 150) {
		errs.Add("last_name", "last_name must be at most 150 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(strings.TrimSpace(r.Email)) {
		errs.Add("email", "invalid email format")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < MinPasswordLength {
		errs.Add("password", "password must be at least 6 characters")
	}

	if !validator.IsEmpty(r.Role) {
		if _, ok := ParseRole(r.Role); !ok {
			errs.Add("role", "role must be admin or employee")
		}
	}

	return errs.Err()
}

// UpdateUserRequest represents a partial profile update. Role and Status are admin-only;
// Password resets another account's password and is admin-only too.
type UpdateUserRequest struct {
	ID        int64   `json:"-"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil {
		if validator.IsEmpty(*r.FirstName) {
			errs.Add("first_name", "first_name cannot be empty")
		} else if !validator.MaxLength(*r.FirstName, 100) {
			errs.Add("first_name", "first_name must be at most 100 characters")
		}
	}

	if r.LastName != nil && !validator.MaxLength(*r.LastName, 150) {
		errs.Add("last_name", "last_name must be at most 150 characters")
	}

	if r.Email != nil && !validator.IsValidEmail(strings.TrimSpace(*r.Email)) {
		errs.Add("email", "invalid email format")
	}

	if r.Password != nil && len(*r.Password) < MinPasswordLength {
		errs.Add("password", "password must be at least 6 characters")
	}

	if r.Role != nil {
		if _, ok := ParseRole(*r.Role); !ok {
			errs.Add("role", "role must be admin or employee")
		}
	}

	if r.Status != nil {
		if _, ok := ParseStatus(*r.Status); !ok {
			errs.Add("status", "status must be active or inactive")
		}
	}

	return errs.Err()
}

type SetActiveRequest struct {
	Active *bool `json:"active"`
}

func (r *SetActiveRequest) Validate() error {
	if r.Active == nil {
		return validator.New("active", "active is required")
	}
	return nil
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

func (r *SetRoleRequest) Validate() error {
	if validator.IsEmpty(r.Role) {
		return validator.New("role", "role is required")
	}
	if _, ok := ParseRole(r.Role); !ok {
		return validator.New("role", "role must be admin or employee")
	}
	return nil
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CurrentPassword) {
		errs.Add("current_password", "current_password is required")
	}
	if len(r.NewPassword) < MinPasswordLength {
		errs.Add("new_password", "new_password must be at least 6 characters")
	}
	return errs.Err()
}
