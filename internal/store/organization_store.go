package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

// Sentinel errors for organization store operations
var (
	ErrOrganizationNotFound      = errors.New("organization not found")
	ErrOrganizationAlreadyExists = errors.New("organization already exists")
)

// OrganizationStore defines the interface for organization storage operations.
// All methods run on a transaction handed out by a ScopedRunner or
// AdminRunner; row security decides which rows each call can see. A scoped
// unit of work sees only its own organization's row.
type OrganizationStore interface {
	// Create creates a new organization.
	// Returns ErrOrganizationAlreadyExists if the ID or name is already taken.
	Create(ctx context.Context, tx pgx.Tx, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist or
	// is outside the active scope.
	Get(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) (*models.Organization, error)

	// Update updates an organization's name.
	// Returns ErrOrganizationNotFound if no visible row was updated.
	Update(ctx context.Context, tx pgx.Tx, org *models.Organization) error

	// Suspend marks an organization suspended. Suspended organizations are
	// refused at the request layer. Admin-only in practice: a scoped unit
	// can only reach its own row.
	Suspend(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) error

	// Unsuspend clears an organization's suspension.
	Unsuspend(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) error

	// List returns organizations visible to the transaction ordered by
	// creation time. Under a scoped unit this is at most the active
	// organization; under an admin unit it is every organization.
	List(ctx context.Context, tx pgx.Tx) ([]*models.Organization, error)
}
