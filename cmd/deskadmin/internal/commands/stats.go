package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ehsan18t/insight-desk-sub000/internal/logger"
	"github.com/ehsan18t/insight-desk-sub000/internal/store"
	postgresstore "github.com/ehsan18t/insight-desk-sub000/internal/store/postgres"
)

type StatsCmd struct {
	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

// Run reports ticket counts for every organization. This is the cross-tenant
// read: it runs unscoped and sees all rows.
func (s *StatsCmd) Run(ctx context.Context, globals *Globals) error {
	logger.Setup(globals.Debug)

	pool, err := openPool(ctx, s.Postgres)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	admin := postgresstore.NewAdminDB(pool)
	tickets := postgresstore.NewTicketStore()

	var counts []*store.OrgTicketCount
	err = admin.RunUnscoped(ctx, func(tx pgx.Tx) error {
		var err error
		counts, err = tickets.CountByOrg(ctx, tx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to count tickets: %w", err)
	}

	if len(counts) == 0 {
		fmt.Println("No organizations found.")
		return nil
	}

	fmt.Printf("%-36s %-30s %s\n", "Org ID", "Name", "Tickets")
	fmt.Println(strings.Repeat("─", 80))

	var total int64
	for _, c := range counts {
		name := c.OrgName
		if len(name) > 30 {
			name = name[:27] + "..."
		}
		fmt.Printf("%-36s %-30s %d\n", c.OrgID, name, c.Count)
		total += c.Count
	}

	fmt.Println(strings.Repeat("─", 80))
	fmt.Printf("%d organizations, %d tickets\n", len(counts), total)
	return nil
}
