package api

import (
	"net/http"
	"strings"

	"filippo.io/csrf"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/tradepulse/dashboard/docs"
	"github.com/tradepulse/dashboard/internal/api/handler"
	"github.com/tradepulse/dashboard/internal/api/middleware"
	"github.com/tradepulse/dashboard/internal/api/views"
	"github.com/tradepulse/dashboard/internal/core/ports"
	"github.com/tradepulse/dashboard/internal/infrastructure/credstore"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Auth           ports.AuthService
	Feed           ports.FeedService
	Records        ports.SessionRecordRepository
	Cookie         credstore.Options
	SignupRoles    []string
	PrivilegedRole string
	CORSOrigins    []string

	// Optional backends probed by /health/ready.
	Mongo *mongo.Database
	Redis *redis.Client

	// Registry receives the HTTP metrics; the default registry when nil.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Pre(originProtection(d.CORSOrigins))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(d.Log))

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer = d.Registry
		gatherer = prometheus.Gatherers{d.Registry, prometheus.DefaultGatherer}
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	sessionMW := middleware.Session(middleware.SessionConfig{
		Records: d.Records,
		Cookie:  d.Cookie,
		Log:     d.Log.With().Str("component", "session").Logger(),
	})
	authHandler := handler.NewAuthHandler(d.Auth, d.SignupRoles, d.Log.With().Str("component", "auth_handler").Logger())
	pageHandler := handler.NewPageHandler(d.Feed)

	// --- Pages ---
	e.GET("/", middleware.Root, sessionMW)

	public := []echo.MiddlewareFunc{sessionMW, middleware.RedirectIfAuthenticated()}
	e.GET("/auth", authHandler.ShowAuth, public...)
	e.POST("/auth/login", authHandler.Login, public...)
	e.POST("/auth/signup", authHandler.Signup, public...)
	e.POST("/auth/logout", authHandler.Logout, sessionMW)

	protected := []echo.MiddlewareFunc{sessionMW, middleware.RequireSession()}
	e.GET("/dashboard", pageHandler.Dashboard, protected...)
	e.GET("/posts", pageHandler.Posts, protected...)

	// --- JSON API ---
	apiGroup := e.Group("/api", sessionMW)
	apiGroup.POST("/auth/signup", authHandler.APISignup)
	apiGroup.POST("/auth/login", authHandler.APILogin)
	apiGroup.POST("/auth/logout", authHandler.APILogout)
	apiGroup.GET("/session", authHandler.APISession)

	requireAPI := middleware.RequireSessionAPI()
	apiGroup.GET("/dashboard", pageHandler.APIDashboard, requireAPI)
	apiGroup.GET("/posts", pageHandler.APIPosts, requireAPI)
	apiGroup.GET("/posts/compose", pageHandler.APICompose, requireAPI, middleware.RBAC(d.PrivilegedRole))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}

// originProtection gives API routes CORS and every other route cross-origin
// request forgery protection.
func originProtection(allowedOrigins []string) echo.MiddlewareFunc {
	withCORS := echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		ExposedHeaders:   []string{echo.HeaderXRequestID},
		AllowCredentials: true, // the session rides in a cookie
	}).Handler)
	withCSRF := echo.WrapMiddleware(csrf.New().Handler)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		api, pages := withCORS(next), withCSRF(next)
		return func(c echo.Context) error {
			if isAPIRoute(c.Request().URL.Path) {
				return api(c)
			}
			return pages(c)
		}
	}
}

func isAPIRoute(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
