// Command dashboard serves the trading dashboard and, for local development,
// a stand-in auth gateway.
//
//	@title			TradePulse Dashboard API
//	@version		1.0
//	@description	Session-backed JSON API of the trading dashboard.
//	@BasePath		/
package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/tradepulse/dashboard/cmd/dashboard/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug      bool                  `help:"Enable debug logging."`
		Version    kong.VersionFlag
		Serve      commands.ServeCmd      `cmd:"" default:"1" help:"Start the dashboard server (pages + API)"`
		Devgateway commands.DevGatewayCmd `cmd:"" help:"Start the development auth gateway"`
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
