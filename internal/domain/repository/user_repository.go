package repository

import (
	"context"

	"github.com/rizqidamar/timely/internal/domain/entity"
)

// UserRepository defines the persistence contract for the User aggregate.
// Implementations live in the infrastructure layer; the application layer
// depends only on this interface.
type UserRepository interface {
	// Create persists a new user and returns it with server-assigned
	// timestamps. A committed duplicate email surfaces as a
	// domainerr.DuplicateEntity error regardless of which writer wins.
	Create(ctx context.Context, u *entity.User) (*entity.User, error)

	// GetByEmail returns (nil, nil) when no user has that email.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// GetByID returns a domainerr.NotFound error when the id is unknown.
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// SetVerified marks the user's email address as verified.
	SetVerified(ctx context.Context, id string) error
}
