package user

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrCannotModifySelf = errors.New("administrators cannot deactivate, demote or delete themselves")
	ErrInvalidPassword  = errors.New("current password is incorrect")
)
