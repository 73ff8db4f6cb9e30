package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/ehsan18t/insight-desk-sub000/cmd/deskadmin/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Migrate    commands.MigrateCmd    `cmd:"" help:"Run database migrations"`
		CreateOrg  commands.CreateOrgCmd  `cmd:"" help:"Create an organization with its first admin"`
		Seed       commands.SeedCmd       `cmd:"" help:"Load fixtures from a YAML file"`
		SuspendOrg commands.SuspendOrgCmd `cmd:"" help:"Suspend or unsuspend an organization"`
		Stats      commands.StatsCmd      `cmd:"" help:"Report ticket counts across all organizations"`
		Token      commands.TokenCmd      `cmd:"" help:"Generate a JWT token"`
		Debug      bool                   `help:"Enable debug mode."`
		Version    kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
