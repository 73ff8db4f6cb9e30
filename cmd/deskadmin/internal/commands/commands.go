// Package commands implements the deskadmin CLI. Every data-touching command
// here runs through the admin accessor: these are the cross-tenant
// operations, and this binary is the only place they live.
package commands

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	postgresstore "github.com/ehsan18t/insight-desk-sub000/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Version string
}

type PostgresFlags struct {
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`
}

func (p *PostgresFlags) Validate() error {
	if p.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func openPool(ctx context.Context, flags PostgresFlags) (*pgxpool.Pool, error) {
	return postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
		ConnString: flags.ConnString,
	})
}
