package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

// Sentinel errors for user store operations
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserStore defines the interface for user storage operations. Users are
// global identities: a scoped unit of work can read users who are members of
// the active organization (plus the acting user), while writes require an
// admin unit.
type UserStore interface {
	// Create creates a new user.
	// Returns ErrUserAlreadyExists if the email is already registered.
	Create(ctx context.Context, tx pgx.Tx, user *models.User) error

	// Get retrieves a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist or is not visible
	// from the active scope.
	Get(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if no visible user has that email.
	GetByEmail(ctx context.Context, tx pgx.Tx, email string) (*models.User, error)
}
