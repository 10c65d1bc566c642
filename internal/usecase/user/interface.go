package user

import "context"

// Service defines the interface for user registration operations.
type Service interface {
	Create(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	GetAll(ctx context.Context) (*ListUsersResponse, error)
}

var _ Service = (*Usecase)(nil)
