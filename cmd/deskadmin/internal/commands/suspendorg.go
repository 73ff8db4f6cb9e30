package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/logger"
	postgresstore "github.com/ehsan18t/insight-desk-sub000/internal/store/postgres"
)

type SuspendOrgCmd struct {
	OrgID string `help:"Organization ID" required:""`
	Clear bool   `help:"Clear the suspension instead of setting it" default:"false"`

	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

func (c *SuspendOrgCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	orgID, err := uuid.Parse(c.OrgID)
	if err != nil {
		return fmt.Errorf("invalid organization ID %q: %w", c.OrgID, err)
	}

	pool, err := openPool(ctx, c.Postgres)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	admin := postgresstore.NewAdminDB(pool)
	orgs := postgresstore.NewOrganizationStore()

	err = admin.RunUnscoped(ctx, func(tx pgx.Tx) error {
		if c.Clear {
			return orgs.Unsuspend(ctx, tx, orgID)
		}
		return orgs.Suspend(ctx, tx, orgID)
	})
	if err != nil {
		return fmt.Errorf("failed to update suspension: %w", err)
	}

	if c.Clear {
		log.Info().Str("org_id", orgID.String()).Msg("Organization unsuspended")
	} else {
		log.Info().Str("org_id", orgID.String()).Msg("Organization suspended")
	}
	return nil
}
