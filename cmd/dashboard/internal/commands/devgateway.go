package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/tradepulse/dashboard/internal/core/ports"
	"github.com/tradepulse/dashboard/internal/devgateway"
	"github.com/tradepulse/dashboard/internal/infrastructure/db/memory"
	mongodb "github.com/tradepulse/dashboard/internal/infrastructure/db/mongo"
	"github.com/tradepulse/dashboard/internal/pkg/config"
)

type DevGatewayCmd struct {
	Addr   string `help:"listen address, overrides DEVGATEWAY_ADDR" default:""`
	Shape  string `help:"response shape, overrides DEVGATEWAY_SHAPE" default:""`
	Pretty bool   `help:"human-readable console logs" default:"true"`
}

func (c *DevGatewayCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, log, err := setup(ctx, globals, "devgateway", c.Pretty)
	if err != nil {
		return err
	}
	if cfg.Production() {
		return errors.New("devgateway must not run with ENV=production")
	}

	var users ports.UserRepository
	switch cfg.DevGateway.Store {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
		if err != nil {
			return fmt.Errorf("user store: %w", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		repo := mongodb.NewUserRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("user store: %w", err)
		}
		users = repo
	default:
		users = memory.NewUsers()
	}

	shape := cfg.DevGateway.Shape
	if c.Shape != "" {
		shape = c.Shape
	}
	addr := cfg.DevGateway.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	svc := devgateway.NewService(users, cfg.DevGateway.Secret, cfg.DevGateway.TTL)
	e := devgateway.NewRouter(svc, shape, log)

	log.Info().Str("shape", shape).Str("store", cfg.DevGateway.Store).Msg("dev auth gateway configured")
	return serve(ctx, log, configureHTTPServer(addr, e))
}
