package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("you are not allowed to access this resource")
	ErrAdminRequired      = errors.New("admin access required")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")
)
