package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
)

// Sentinel errors for membership store operations
var (
	ErrMembershipNotFound      = errors.New("membership not found")
	ErrMembershipAlreadyExists = errors.New("membership already exists")
)

// MembershipStore defines the interface for membership storage operations.
// Memberships are owned by their organization. The one sanctioned cross-org
// read is ListMine: a user may see their own membership rows in every
// organization, and nothing else.
type MembershipStore interface {
	// Create adds a user to an organization with a role.
	// Returns ErrMembershipAlreadyExists if the user is already a member.
	Create(ctx context.Context, tx pgx.Tx, m *models.Membership) error

	// Get retrieves the membership of a user in an organization.
	// Returns ErrMembershipNotFound if none is visible.
	Get(ctx context.Context, tx pgx.Tx, orgID, userID uuid.UUID) (*models.Membership, error)

	// UpdateRole changes a member's role.
	// Returns ErrMembershipNotFound if no visible row was updated.
	UpdateRole(ctx context.Context, tx pgx.Tx, orgID, userID uuid.UUID, role string) error

	// Delete removes a user from an organization.
	// Returns ErrMembershipNotFound if no visible row was deleted.
	Delete(ctx context.Context, tx pgx.Tx, orgID, userID uuid.UUID) error

	// ListByOrg returns the memberships of the active organization.
	ListByOrg(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) ([]*models.Membership, error)

	// ListMine returns the acting user's own memberships across all
	// organizations. Visibility comes from the self-read policy keyed on
	// the acting user, so rows from other organizations appear here and
	// nowhere else.
	ListMine(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]*models.Membership, error)
}
