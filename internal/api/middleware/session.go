package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tradepulse/dashboard/internal/api/metrics"
	"github.com/tradepulse/dashboard/internal/core/ports"
	"github.com/tradepulse/dashboard/internal/core/session"
	"github.com/tradepulse/dashboard/internal/infrastructure/credstore"
)

const sessionKey = "session"

// SessionConfig wires the per-request credential store.
type SessionConfig struct {
	Records ports.SessionRecordRepository
	Cookie  credstore.Options
	Log     zerolog.Logger
}

// Session gives every request its own container, rehydrated once from the
// request's cookie before any guard or handler runs.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			store := credstore.New(c, cfg.Records, cfg.Cookie)
			sess := session.New(store)

			log := cfg.Log.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			sess.Subscribe(func(transition string, _, next session.State) {
				metrics.SessionTransitionsTotal.WithLabelValues(transition, next.Status().String()).Inc()
				log.Debug().Str("transition", transition).Stringer("status", next.Status()).Msg("session transition")
			})

			if err := sess.Restore(ctx); err != nil {
				// the container is logged out at this point; serve the request as such
				log.Warn().Err(err).Msg("session restore failed")
			}

			c.Set(sessionKey, sess)
			return next(c)
		}
	}
}

// SessionFrom returns the request's container, or nil outside Session.
func SessionFrom(c echo.Context) *session.Container {
	sess, _ := c.Get(sessionKey).(*session.Container)
	return sess
}

// SetSession installs sess on c. Used by tests and non-HTTP entrypoints.
func SetSession(c echo.Context, sess *session.Container) {
	c.Set(sessionKey, sess)
}

func loggedIn(c echo.Context) bool {
	sess := SessionFrom(c)
	return sess != nil && sess.Status() == session.LoggedIn
}
