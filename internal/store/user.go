package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// UserStore defines the persistence contract for user accounts.
type UserStore interface {
	// Create saves a new user. Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
