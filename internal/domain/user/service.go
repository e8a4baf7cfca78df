package user

import "context"

type UserService interface {
	List(ctx context.Context, query ListUsersQuery) ([]UserResponse, error)
	Get(ctx context.Context, id int64) (UserResponse, error)
	Me(ctx context.Context) (UserResponse, error)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	SetActive(ctx context.Context, id int64, req SetActiveRequest) error
	SetRole(ctx context.Context, id int64, req SetRoleRequest) error
	Delete(ctx context.Context, id int64) error
}
