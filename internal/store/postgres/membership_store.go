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

// MembershipStore implements store.MembershipStore using PostgreSQL.
type MembershipStore struct{}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
func NewMembershipStore() *MembershipStore {
	return &MembershipStore{}
}

// Create adds a user to an organization with a role.
func (s *MembershipStore) Create(ctx context.Context, tx pgx.Tx, m *models.Membership) error {
	query := `
		INSERT INTO memberships (
			membership_id, org_id, user_id, role, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
	`

	_, err := tx.Exec(ctx, query,
		m.MembershipID,
		m.OrgID,
		m.UserID,
		m.Role,
		m.CreatedAt,
		m.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrMembershipAlreadyExists
		}
		if isForeignKeyViolation(err) {
			if violatedConstraint(err) == "memberships_org_id_fkey" {
				return store.ErrOrganizationNotFound
			}
			return store.ErrUserNotFound
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", m.OrgID.String()).
		Str("user_id", m.UserID.String()).
		Str("role", m.Role).
		Msg("Created membership")

	return nil
}

// Get retrieves the membership of a user in an organization.
func (s *MembershipStore) Get(ctx context.Context, tx pgx.Tx, orgID, userID uuid.UUID) (*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE org_id = $1 AND user_id = $2
	`

	var m models.Membership
	err := tx.QueryRow(ctx, query, orgID, userID).Scan(
		&m.MembershipID,
		&m.OrgID,
		&m.UserID,
		&m.Role,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &m, nil
}

// UpdateRole changes a member's role.
func (s *MembershipStore) UpdateRole(ctx context.Context, tx pgx.Tx, orgID, userID uuid.UUID, role string) error {
	query := `
		UPDATE memberships SET
			role = $3,
			updated_at = now()
		WHERE org_id = $1 AND user_id = $2
	`

	result, err := tx.Exec(ctx, query, orgID, userID, role)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	log.Debug().
		Str("org_id", orgID.String()).
		Str("user_id", userID.String()).
		Str("role", role).
		Msg("Updated membership role")

	return nil
}

// Delete removes a user from an organization.
func (s *MembershipStore) Delete(ctx context.Context, tx pgx.Tx, orgID, userID uuid.UUID) error {
	query := `DELETE FROM memberships WHERE org_id = $1 AND user_id = $2`

	result, err := tx.Exec(ctx, query, orgID, userID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrMembershipNotFound
	}

	log.Debug().
		Str("org_id", orgID.String()).
		Str("user_id", userID.String()).
		Msg("Deleted membership")

	return nil
}

// ListByOrg returns the memberships of the active organization.
func (s *MembershipStore) ListByOrg(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE org_id = $1
		ORDER BY created_at
	`

	return s.queryMemberships(ctx, tx, query, orgID)
}

// ListMine returns the acting user's own memberships across all
// organizations. The rows from other organizations are visible through the
// self-read policy only; no organization filter appears here.
func (s *MembershipStore) ListMine(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]*models.Membership, error) {
	query := `
		SELECT membership_id, org_id, user_id, role, created_at, updated_at
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at
	`

	return s.queryMemberships(ctx, tx, query, userID)
}

func (s *MembershipStore) queryMemberships(ctx context.Context, tx pgx.Tx, query string, args ...any) ([]*models.Membership, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var memberships []*models.Membership
	for rows.Next() {
		var m models.Membership
		err := rows.Scan(
			&m.MembershipID,
			&m.OrgID,
			&m.UserID,
			&m.Role,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return memberships, nil
}
