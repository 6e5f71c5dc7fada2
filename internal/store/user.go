package store

import (
	"context"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user. The caller must have hashed the password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uint) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists changes to an existing user.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the email would collide with another account.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID along with all tasks the user owns.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uint) error
}
