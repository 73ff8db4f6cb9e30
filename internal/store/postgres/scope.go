package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// applyScopeSQL pins a transaction to one organization. set_config with
// is_local=true makes both settings transaction-local: they vanish at COMMIT
// or ROLLBACK, so a pooled connection never carries scope into its next
// transaction. The row security policies installed by the migrations key on
// these settings.
const applyScopeSQL = `SELECT set_config('app.current_org_id', $1, true), set_config('app.current_user_id', $2, true)`

// ScopedDB runs units of work confined to a single organization's rows.
// Every RunScoped call takes a dedicated transaction from the shared pool,
// applies the tenant context as the first statement, and hands the
// transaction to the caller's closure. Stores never filter by organization
// themselves; row security does.
type ScopedDB struct {
	pool *pgxpool.Pool
}

// NewScopedDB creates a scoped unit-of-work runner on the shared pool.
func NewScopedDB(pool *pgxpool.Pool) *ScopedDB {
	return &ScopedDB{
		pool: pool,
	}
}

// RunScoped executes fn inside a transaction scoped to tc's organization.
//
// fn returning nil commits the transaction; any error rolls it back and is
// returned to the caller unchanged. If the tenant settings cannot be applied
// the closure is never invoked, the transaction is rolled back, and the
// returned error wraps store.ErrScopeNotApplied. Exactly one audit record is
// emitted per invocation that reaches the database.
func (d *ScopedDB) RunScoped(ctx context.Context, tc tenant.Context, fn store.WorkFunc) error {
	if !tc.Valid() {
		return fmt.Errorf("%w: zero value", tenant.ErrInvalidContext)
	}

	start := time.Now()

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return mapPostgresError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	// The scope settings must be the first statements on the transaction;
	// nothing may observe the database unscoped. An empty user setting
	// reads back as NULL through app_current_user_id().
	userID := ""
	if tc.HasUser() {
		userID = tc.UserID().String()
	}

	if _, err := tx.Exec(ctx, applyScopeSQL, tc.OrgID().String(), userID); err != nil {
		auditUnit(ctx, tc, false, outcomeScopeFailed, time.Since(start))
		return fmt.Errorf("%w: %w", store.ErrScopeNotApplied, mapPostgresError(err))
	}

	if err := fn(tx); err != nil {
		auditUnit(ctx, tc, false, outcomeRolledBack, time.Since(start))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		auditUnit(ctx, tc, false, outcomeRolledBack, time.Since(start))
		return mapPostgresError(err)
	}

	auditUnit(ctx, tc, false, outcomeCommitted, time.Since(start))
	return nil
}
