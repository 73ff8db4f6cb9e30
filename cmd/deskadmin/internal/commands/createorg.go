package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/logger"
	"github.com/ehsan18t/insight-desk-sub000/internal/models"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	postgresstore "github.com/ehsan18t/insight-desk-sub000/internal/store/postgres"
)

type CreateOrgCmd struct {
	Name       string `help:"Organization name" required:""`
	OwnerEmail string `help:"Email address of the first admin" required:""`
	OwnerName  string `help:"Display name of the first admin" required:""`

	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

// Run bootstraps an organization: the org row, the owning user (reused when
// the email is already registered), and an admin membership, all in a single
// unscoped unit of work.
func (c *CreateOrgCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	pool, err := openPool(ctx, c.Postgres)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	admin := postgresstore.NewAdminDB(pool)
	orgs := postgresstore.NewOrganizationStore()
	users := postgresstore.NewUserStore()
	memberships := postgresstore.NewMembershipStore()

	now := time.Now()
	org := &models.Organization{
		OrgID:     uuid.Must(uuid.NewV7()),
		Name:      c.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var owner *models.User
	err = admin.RunUnscoped(ctx, func(tx pgx.Tx) error {
		if err := orgs.Create(ctx, tx, org); err != nil {
			return err
		}

		owner, err = users.GetByEmail(ctx, tx, c.OwnerEmail)
		if errors.Is(err, store.ErrUserNotFound) {
			owner = &models.User{
				UserID:    uuid.Must(uuid.NewV7()),
				Email:     c.OwnerEmail,
				Name:      c.OwnerName,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := users.Create(ctx, tx, owner); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return memberships.Create(ctx, tx, &models.Membership{
			MembershipID: uuid.Must(uuid.NewV7()),
			OrgID:        org.OrgID,
			UserID:       owner.UserID,
			Role:         models.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	})
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	log.Info().
		Str("org_id", org.OrgID.String()).
		Str("user_id", owner.UserID.String()).
		Msg("Organization created")

	fmt.Printf("org_id:\t%s\nuser_id:\t%s\n", org.OrgID, owner.UserID)
	return nil
}
