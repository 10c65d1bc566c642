package user

import (
	domain "user-registration-service/internal/domain/user"

	"github.com/shopspring/decimal"
)

// CreateUserState is the terminal outcome of a registration attempt.
type CreateUserState int

const (
	StateOk CreateUserState = iota
	StateUserAlreadyRegistered
	StateWrongFormatEmail
)

// outcomeError labels registrations that failed with an infrastructure fault.
const outcomeError = "error"

// String returns the outcome name used in logs and metrics.
func (s CreateUserState) String() string {
	switch s {
	case StateOk:
		return "ok"
	case StateUserAlreadyRegistered:
		return "user_already_registered"
	case StateWrongFormatEmail:
		return "wrong_format_email"
	default:
		return "unknown"
	}
}

// CreateUserRequest represents the request payload for registering a new user.
type CreateUserRequest struct {
	Name    string `validate:"required,notblank,max=200"`
	Email   string
	Phone   string `validate:"required,notblank,max=50"`
	Address string `validate:"required,notblank,max=300"`
	Tier    domain.Tier
	Balance decimal.Decimal
}

// CreateUserResponse represents the outcome of a registration.
type CreateUserResponse struct {
	State CreateUserState
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Tier    domain.Tier
	Balance decimal.Decimal
}
