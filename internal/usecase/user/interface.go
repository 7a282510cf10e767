package user

import "context"

// UserUsecase defines the user operations exposed to the transport layer.
type UserUsecase interface {
	ListUsers(ctx context.Context) (*ListUsersResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*GetUserResponse, error)
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) error
	DeleteUser(ctx context.Context, in DeleteUserRequest) error
}
