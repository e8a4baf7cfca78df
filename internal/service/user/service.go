package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/controlfichajes/fichajes-backend-go/internal/domain/auth"
	"github.com/controlfichajes/fichajes-backend-go/internal/domain/user"
	"github.com/controlfichajes/fichajes-backend-go/internal/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

type UserServiceImpl struct {
	user.UserRepository
	cost int
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		cost:           bcrypt.DefaultCost,
	}
}

func (s *UserServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, query user.ListUsersQuery) ([]user.UserResponse, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	filter, err := query.ToFilter()
	if err != nil {
		return nil, err
	}

	users, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id int64) (user.UserResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !caller.CanAccess(id) {
		return user.UserResponse{}, auth.ErrForbidden
	}

	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context) (user.UserResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, caller.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	email := strings.TrimSpace(req.Email)
	exists, err := s.UserRepository.ExistsByEmail(ctx, email, nil)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return user.UserResponse{}, user.ErrEmailExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	role := user.RoleEmployee
	if r, ok := user.ParseRole(req.Role); ok {
		role = r
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Status:       user.StatusFromBool(active),
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	logger.From(ctx).Info("user created", "target_id", created.ID, "role", created.Role)
	return user.NewUserResponse(created), nil
}

// Update implements user.UserService. Employees may edit their own profile; role and
// status changes and password resets of other accounts are reserved to admins.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !caller.CanAccess(req.ID) {
		return user.UserResponse{}, auth.ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}
	if !caller.IsAdmin() && (req.Role != nil || req.Status != nil) {
		return user.UserResponse{}, auth.ErrForbidden
	}
	// Own password changes go through ChangePassword, which checks the current one.
	if req.Password != nil && (!caller.IsAdmin() || req.ID == caller.UserID) {
		return user.UserResponse{}, auth.ErrForbidden
	}

	current, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.FirstName != nil {
		current.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		current.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.EqualFold(email, current.Email) {
			exists, err := s.UserRepository.ExistsByEmail(ctx, email, &current.ID)
			if err != nil {
				return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
			}
			if exists {
				return user.UserResponse{}, user.ErrEmailExists
			}
		}
		current.Email = email
	}
	if req.Password != nil {
		if current.PasswordHash, err = s.hashPassword(*req.Password); err != nil {
			return user.UserResponse{}, err
		}
	}
	if req.Role != nil {
		role, _ := user.ParseRole(*req.Role)
		if current.ID == caller.UserID && role != user.RoleAdmin {
			return user.UserResponse{}, user.ErrCannotModifySelf
		}
		current.Role = role
	}
	if req.Status != nil {
		status, _ := user.ParseStatus(*req.Status)
		if current.ID == caller.UserID && status != user.StatusActive {
			return user.UserResponse{}, user.ErrCannotModifySelf
		}
		current.Status = status
	}

	updated, err := s.UserRepository.Update(ctx, current)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated), nil
}

// ChangePassword implements user.UserService.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, req user.ChangePasswordRequest) error {
	caller, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.UserRepository.GetByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return user.ErrInvalidPassword
	}

	hash, err := s.hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.UserRepository.UpdatePassword(ctx, u.ID, hash)
}

// SetActive implements user.UserService.
func (s *UserServiceImpl) SetActive(ctx context.Context, id int64, req user.SetActiveRequest) error {
	caller, err := auth.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if id == caller.UserID && !*req.Active {
		return user.ErrCannotModifySelf
	}

	if err := s.UserRepository.UpdateStatus(ctx, id, user.StatusFromBool(*req.Active)); err != nil {
		return err
	}
	logger.From(ctx).Info("user status changed", "target_id", id, "active", *req.Active)
	return nil
}

// SetRole implements user.UserService.
func (s *UserServiceImpl) SetRole(ctx context.Context, id int64, req user.SetRoleRequest) error {
	caller, err := auth.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	role, _ := user.ParseRole(req.Role)
	if id == caller.UserID && role != user.RoleAdmin {
		return user.ErrCannotModifySelf
	}

	if err := s.UserRepository.UpdateRole(ctx, id, role); err != nil {
		return err
	}
	logger.From(ctx).Info("user role changed", "target_id", id, "role", role)
	return nil
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id int64) error {
	caller, err := auth.RequireAdmin(ctx)
	if err != nil {
		return err
	}
	if id == caller.UserID {
		return user.ErrCannotModifySelf
	}
	if err := s.UserRepository.Delete(ctx, id); err != nil {
		return err
	}
	logger.From(ctx).Info("user deleted", "target_id", id)
	return nil
}
