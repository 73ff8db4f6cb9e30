package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// applyAdminSQL marks a transaction as administrative. The admin policies
// installed by the migrations key on this setting, and set_config with
// is_local=true makes it transaction-local: it vanishes at COMMIT or
// ROLLBACK, exactly like the tenant settings on the scoped path. A
// transaction without the marker falls back to the isolation policies and
// sees nothing at all, so a missed marker narrows admin work to zero rows
// instead of widening scoped work.
const applyAdminSQL = `SELECT set_config('app.admin', 'on', true)`

// AdminDB runs units of work that deliberately cross tenant boundaries.
// It exists for migrations, organization bootstrap, and cross-tenant
// reporting. Request handling never holds one: the server wiring only ever
// constructs a ScopedDB, and every AdminDB use site is findable by grepping
// for RunUnscoped.
type AdminDB struct {
	pool *pgxpool.Pool
}

// NewAdminDB creates an unscoped unit-of-work runner on the shared pool.
func NewAdminDB(pool *pgxpool.Pool) *AdminDB {
	return &AdminDB{
		pool: pool,
	}
}

// RunUnscoped executes fn inside a transaction with visibility across all
// organizations.
//
// Commit and rollback behave exactly as in ScopedDB.RunScoped, and the
// audit record carries an admin marker instead of an organization.
func (a *AdminDB) RunUnscoped(ctx context.Context, fn store.WorkFunc) error {
	start := time.Now()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return mapPostgresError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	if _, err := tx.Exec(ctx, applyAdminSQL); err != nil {
		auditUnit(ctx, tenant.Context{}, true, outcomeScopeFailed, time.Since(start))
		return fmt.Errorf("%w: %w", store.ErrScopeNotApplied, mapPostgresError(err))
	}

	if err := fn(tx); err != nil {
		auditUnit(ctx, tenant.Context{}, true, outcomeRolledBack, time.Since(start))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		auditUnit(ctx, tenant.Context{}, true, outcomeRolledBack, time.Since(start))
		return mapPostgresError(err)
	}

	auditUnit(ctx, tenant.Context{}, true, outcomeCommitted, time.Since(start))
	return nil
}
