package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrgSuspended reports whether orgID is suspended, with unknown
// organizations reading as suspended. It calls app_org_suspended, the
// helper installed by the migrations, on a plain pool connection: the
// admin marker it sets is local to the function call, and no column
// beyond the one boolean comes back.
func OrgSuspended(ctx context.Context, pool *pgxpool.Pool, orgID uuid.UUID) (bool, error) {
	var suspended bool
	if err := pool.QueryRow(ctx, `SELECT app_org_suspended($1)`, orgID).Scan(&suspended); err != nil {
		return false, mapPostgresError(err)
	}

	return suspended, nil
}
