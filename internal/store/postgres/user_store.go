package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL. Users carry no
// org_id; visibility under a scoped transaction comes from the member-read
// policy, and writes only succeed on the admin path.
type UserStore struct{}

// NewUserStore creates a new PostgreSQL-backed user store.
func NewUserStore() *UserStore {
	return &UserStore{}
}

// Create creates a new user. Admin path only: the users table has no write
// policy, so a scoped transaction gets a row security rejection here.
func (s *UserStore) Create(ctx context.Context, tx pgx.Tx, user *models.User) error {
	query := `
		INSERT INTO users (
			user_id, email, name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := tx.Exec(ctx, query,
		user.UserID,
		user.Email,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserAlreadyExists
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Str("email", user.Email).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*models.User, error) {
	query := `
		SELECT user_id, email, name, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	err := tx.QueryRow(ctx, query, userID).Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, tx pgx.Tx, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, name, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := tx.QueryRow(ctx, query, email).Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &user, nil
}
