// Package metrics defines and registers all custom Prometheus metrics for the
// tradepulse dashboard. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry when the package is
// imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts signup and login submissions.
// Labels:
//   - operation: "signup" or "login"
//   - outcome: "ok", "validation_error", "invalid_response", "rejected", "transport_error", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of signup and login submissions, by outcome.",
	},
	[]string{"operation", "outcome"},
)

// GatewayRequestDuration measures calls to the external auth gateway.
// Labels:
//   - operation: "signup" or "login"
//   - outcome: "ok", "invalid_response", "rejected", "transport_error", "error"
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of requests to the external auth gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "outcome"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionTransitionsTotal counts session state machine transitions.
// Labels:
//   - transition: "set_credentials", "logout", "rehydrate"
//   - status: resulting state, "logged_in" or "logged_out"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session transitions, by resulting status.",
	},
	[]string{"transition", "status"},
)

// GuardRedirectsTotal counts redirects issued by the route guards.
// Labels:
//   - guard: "protected", "public" or "root"
//   - target: the redirect location (e.g. "/auth")
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of route guard redirects, by guard and target.",
	},
	[]string{"guard", "target"},
)
