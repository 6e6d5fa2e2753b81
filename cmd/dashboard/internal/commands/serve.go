package commands

import (
	"context"
	"fmt"

	"github.com/tradepulse/dashboard/internal/api"
	"github.com/tradepulse/dashboard/internal/core/ports"
	"github.com/tradepulse/dashboard/internal/core/service"
	"github.com/tradepulse/dashboard/internal/infrastructure/credstore"
	"github.com/tradepulse/dashboard/internal/infrastructure/db/memory"
	mongodb "github.com/tradepulse/dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/tradepulse/dashboard/internal/infrastructure/db/redis"
	"github.com/tradepulse/dashboard/internal/infrastructure/fixtures"
	"github.com/tradepulse/dashboard/internal/infrastructure/gateway"
	"github.com/tradepulse/dashboard/internal/pkg/config"
	"github.com/tradepulse/dashboard/pkg/logger"
)

type ServeCmd struct {
	Addr   string `help:"listen address, overrides PORT" default:"" env:"DASHBOARD_ADDR"`
	Pretty bool   `help:"human-readable console logs" default:"false" env:"LOG_PRETTY"`
}

func (c *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, log, err := setup(ctx, globals, "dashboard", c.Pretty)
	if err != nil {
		return err
	}

	deps := api.Deps{
		SignupRoles:    cfg.Session.SignupRoles,
		PrivilegedRole: cfg.Session.PrivilegedRole,
		CORSOrigins:    cfg.CORSOrigins,
		Cookie: credstore.Options{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Production(),
		},
		Log: log,
	}

	// --- Session records ---
	switch cfg.Session.Store {
	case config.StoreRedis:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		defer rdb.Close()
		deps.Records = redisdb.NewSessionRecords(rdb, nil)
		deps.Redis = rdb
	default:
		deps.Records = memory.NewSessionRecords(nil)
	}
	log.Info().Str("store", cfg.Session.Store).Dur("ttl", cfg.Session.TTL).Msg("session records ready")

	// --- Feed ---
	var feed ports.FeedRepository
	switch cfg.Feed.Source {
	case config.FeedMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout})
		if err != nil {
			return fmt.Errorf("feed source: %w", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		feed = mongodb.NewFeedRepository(db)
		deps.Mongo = db
	default:
		repo, err := fixtures.Load()
		if err != nil {
			return fmt.Errorf("feed source: %w", err)
		}
		feed = repo
	}

	// --- Services ---
	gw := gateway.NewClient(gateway.Config{BaseURL: cfg.Gateway.URL, Timeout: cfg.Gateway.Timeout}, nil, log)
	deps.Auth = service.NewAuthService(gw, cfg.Session.SignupRoles, log)
	deps.Feed = service.NewFeedService(feed, cfg.Session.PrivilegedRole, logger.Component("feed_service"))

	e, err := api.NewRouter(deps)
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.Addr()
	}
	log.Info().Str("gateway", cfg.Gateway.URL).Str("feed", cfg.Feed.Source).Msg("dashboard configured")
	return serve(ctx, log, configureHTTPServer(addr, e))
}
