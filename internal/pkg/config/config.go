package config

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"

	FeedFixtures = "fixtures"
	FeedMongo    = "mongo"

	envProduction = "production"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins lists the origins allowed to call /api with credentials.
	CORSOrigins []string `env:"CORS_ORIGINS"`

	Gateway    GatewayConfig
	Session    SessionConfig
	Feed       FeedConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	DevGateway DevGatewayConfig
}

type GatewayConfig struct {
	URL     string        `env:"AUTH_GATEWAY_URL,     default=https://express-api-black-kappa.vercel.app/api/auth"`
	Timeout time.Duration `env:"AUTH_GATEWAY_TIMEOUT, default=15s"`
}

type SessionConfig struct {
	TTL        time.Duration `env:"SESSION_TTL,    default=3h"`
	CookieName string        `env:"SESSION_COOKIE, default=token"`
	Store      string        `env:"SESSION_STORE,  default=memory"`

	// SignupRoles are offered on the signup form and accepted by validation.
	SignupRoles []string `env:"SIGNUP_ROLES"`
	// PrivilegedRole may publish posts.
	PrivilegedRole string `env:"PRIVILEGED_ROLE, default=mentor"`
}

type FeedConfig struct {
	Source string `env:"FEED_SOURCE, default=fixtures"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=tradepulse"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,    default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,      default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT, default=5s"`
}

// DevGatewayConfig configures the local stand-in for the auth gateway.
type DevGatewayConfig struct {
	Addr   string        `env:"DEVGATEWAY_ADDR,   default=:8081"`
	Secret string        `env:"DEVGATEWAY_SECRET, default=dev-secret"`
	Shape  string        `env:"DEVGATEWAY_SHAPE,  default=flat"`
	Store  string        `env:"DEVGATEWAY_STORE,  default=memory"`
	TTL    time.Duration `env:"DEVGATEWAY_TTL,    default=3h"`
}

var defaultSignupRoles = []string{"user", "admin", "publisher"}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(cfg.Session.SignupRoles) == 0 {
		cfg.Session.SignupRoles = slices.Clone(defaultSignupRoles)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether ENV=production; session cookies are Secure then.
func (c *Config) Production() bool {
	return c.Env == envProduction
}

// Addr is the listen address for the dashboard server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) validate() error {
	if !slices.Contains([]string{StoreMemory, StoreRedis}, c.Session.Store) {
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.Session.Store)
	}
	if !slices.Contains([]string{FeedFixtures, FeedMongo}, c.Feed.Source) {
		return fmt.Errorf("FEED_SOURCE must be %q or %q, got %q", FeedFixtures, FeedMongo, c.Feed.Source)
	}
	if !slices.Contains([]string{StoreMemory, StoreMongo}, c.DevGateway.Store) {
		return fmt.Errorf("DEVGATEWAY_STORE must be %q or %q, got %q", StoreMemory, StoreMongo, c.DevGateway.Store)
	}
	if c.DevGateway.Shape != "flat" && c.DevGateway.Shape != "wrapped" {
		return fmt.Errorf("DEVGATEWAY_SHAPE must be \"flat\" or \"wrapped\", got %q", c.DevGateway.Shape)
	}
	if c.Gateway.URL == "" {
		return fmt.Errorf("AUTH_GATEWAY_URL is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	return nil
}
