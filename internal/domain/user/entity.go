package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access, reviews requests and manages accounts
	RoleEmployee Role = "employee" // Clocks in/out and files requests for themselves
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseRole normalizes a role label. Legacy Spanish labels are accepted.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "administrador":
		return RoleAdmin, true
	case "employee", "empleado":
		return RoleEmployee, true
	}
	return "", false
}

// ParseStatus normalizes a status label. Legacy Spanish labels are accepted.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "activo":
		return StatusActive, true
	case "inactive", "inactivo":
		return StatusInactive, true
	}
	return "", false
}

func StatusFromBool(active bool) Status {
	if active {
		return StatusActive
	}
	return StatusInactive
}

type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive checks if user may sign in
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Summary is the user profile joined onto attendance and incident listings.
type Summary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (s Summary) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
