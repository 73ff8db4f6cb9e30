package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/tenant"
)

// Sentinel errors for unit-of-work failures
var (
	// ErrScopeNotApplied indicates the tenant settings could not be applied
	// to the transaction. The work closure was never invoked and the
	// transaction was rolled back.
	ErrScopeNotApplied = errors.New("tenant scope not applied")

	// ErrRowSecurityViolation indicates a write was rejected by a row
	// security policy (SQLSTATE 42501), e.g. an INSERT carrying another
	// organization's ID.
	ErrRowSecurityViolation = errors.New("row security policy violation")
)

// WorkFunc is the closure executed inside a unit of work. All statements run
// on the supplied transaction; the closure must not retain tx, commit it, or
// roll it back. Returning nil commits the transaction, returning an error
// rolls it back and the error is handed back to the caller unchanged.
type WorkFunc func(tx pgx.Tx) error

// ScopedRunner executes units of work confined to one organization's rows.
// The tenant context is applied to the transaction before the closure runs;
// row security keyed on that context does the filtering.
type ScopedRunner interface {
	RunScoped(ctx context.Context, tc tenant.Context, fn WorkFunc) error
}

// AdminRunner executes units of work with visibility across all
// organizations for the duration of the transaction. This deliberately
// crosses tenant boundaries: it exists for migrations, bootstrap, and
// cross-tenant reporting, and must never be reachable from request handling.
type AdminRunner interface {
	RunUnscoped(ctx context.Context, fn WorkFunc) error
}
