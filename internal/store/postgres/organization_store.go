package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
)

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
// Methods run on the transaction handed in by a unit-of-work runner; no
// query below filters by organization, row security does.
type OrganizationStore struct{}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{}
}

// Create creates a new organization.
func (s *OrganizationStore) Create(ctx context.Context, tx pgx.Tx, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			org_id, name, created_at, updated_at, suspended_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := tx.Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.CreatedAt,
		org.UpdatedAt,
		org.SuspendedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return mapPostgresError(err)
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at, suspended_at
		FROM organizations
		WHERE org_id = $1
	`

	var org models.Organization
	err := tx.QueryRow(ctx, query, orgID).Scan(
		&org.OrgID,
		&org.Name,
		&org.CreatedAt,
		&org.UpdatedAt,
		&org.SuspendedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, mapPostgresError(err)
	}

	return &org, nil
}

// Update updates an organization's name.
func (s *OrganizationStore) Update(ctx context.Context, tx pgx.Tx, org *models.Organization) error {
	org.UpdatedAt = time.Now()

	query := `
		UPDATE organizations SET
			name = $2,
			updated_at = $3
		WHERE org_id = $1
	`

	result, err := tx.Exec(ctx, query,
		org.OrgID,
		org.Name,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrOrganizationAlreadyExists
		}
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Msg("Updated organization")

	return nil
}

// Suspend marks an organization suspended. Idempotent: suspending an
// already-suspended organization keeps the original suspension time.
func (s *OrganizationStore) Suspend(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) error {
	query := `
		UPDATE organizations SET
			suspended_at = COALESCE(suspended_at, now()),
			updated_at = now()
		WHERE org_id = $1
	`

	result, err := tx.Exec(ctx, query, orgID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Info().
		Str("org_id", orgID.String()).
		Msg("Suspended organization")

	return nil
}

// Unsuspend clears an organization's suspension.
func (s *OrganizationStore) Unsuspend(ctx context.Context, tx pgx.Tx, orgID uuid.UUID) error {
	query := `
		UPDATE organizations SET
			suspended_at = NULL,
			updated_at = now()
		WHERE org_id = $1
	`

	result, err := tx.Exec(ctx, query, orgID)
	if err != nil {
		return mapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Info().
		Str("org_id", orgID.String()).
		Msg("Unsuspended organization")

	return nil
}

// List returns organizations visible to the transaction ordered by creation time.
func (s *OrganizationStore) List(ctx context.Context, tx pgx.Tx) ([]*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at, suspended_at
		FROM organizations
		ORDER BY created_at
	`

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		var org models.Organization
		err := rows.Scan(
			&org.OrgID,
			&org.Name,
			&org.CreatedAt,
			&org.UpdatedAt,
			&org.SuspendedAt,
		)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		orgs = append(orgs, &org)
	}

	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err)
	}

	return orgs, nil
}
