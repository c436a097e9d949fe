// Package metrics defines and registers all custom Prometheus metrics for the
// waste-management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smartwaste"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// RegistrationsTotal counts accounts created.
// Label:
//   - role: "citizen", "driver" or "municipal"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "invalid_credentials", "role_mismatch", "invalid_input" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensRejectedTotal counts requests refused by the auth middleware.
// Label:
//   - reason: "missing", "expired" or "invalid"
var TokensRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_tokens_rejected_total",
		Help:      "Total number of requests rejected for a missing or bad bearer token.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts authenticated requests refused by a role check.
// Label:
//   - role: the caller's role
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_access_denied_total",
		Help:      "Total number of requests rejected by role-based access control.",
	},
	[]string{"role"},
)

// ── Password hashing metrics ──────────────────────────────────────────────────

// HashQueueDepth tracks the number of hashing jobs waiting for a worker.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "password_hash_queue_depth",
		Help:      "Current number of password hash/compare jobs waiting for a worker.",
	},
)

// PasswordHashDuration measures a single bcrypt operation.
// Label:
//   - op: "hash" or "compare"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of bcrypt hash and compare operations.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)

// ── Sensor metrics ────────────────────────────────────────────────────────────

// SensorReadingsTotal counts submitted readings.
// Label:
//   - outcome: "stored" or "duplicate"
var SensorReadingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sensor_readings_total",
		Help:      "Total number of sensor readings received, by outcome.",
	},
	[]string{"outcome"},
)

// SensorFillLevel is the distribution of stored fill levels, in percent.
// Bin locations come from unauthenticated devices, so they are never used
// as labels.
var SensorFillLevel = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "sensor_fill_level_percent",
		Help:      "Fill levels reported by stored sensor readings.",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	},
)

// FlameAlertsTotal counts stored readings that reported a flame.
var FlameAlertsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sensor_flame_alerts_total",
		Help:      "Total number of stored readings with flame detected.",
	},
)
