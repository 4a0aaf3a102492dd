// Package metrics defines and registers all custom Prometheus metrics for
// the Spectra API. It is the single source of truth for metric names,
// labels, and help strings. Metrics auto-register with the default registry
// via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spectra"

// AuthOperationsTotal counts auth state-machine operations.
// Labels:
//   - operation: sign_up, sign_in, sign_out, reset_requested, reset_completed
//   - result: "ok" or "error"
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of auth operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// AuthFailuresTotal counts auth operation failures by error kind.
// Label:
//   - kind: duplicate_account, account_not_found, invalid_credential,
//     reset_not_found, reset_expired, invalid_code, internal
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed auth operations, by error kind.",
	},
	[]string{"kind"},
)

// ResetCodesIssuedTotal counts one-time reset codes handed to callers.
var ResetCodesIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_codes_issued_total",
		Help:      "Total number of password-reset one-time codes issued.",
	},
)

// SessionResolutionsTotal counts session-pointer resolutions.
// Label:
//   - result: "active" (valid session) or "none" (absent or self-healed)
var SessionResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_resolutions_total",
		Help:      "Total number of session resolutions, by outcome.",
	},
	[]string{"result"},
)

// GenerativeRequestsTotal counts pass-through calls to the model API.
// Labels:
//   - operation: chat, vision, image
//   - result: "ok" or "error"
var GenerativeRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generative_requests_total",
		Help:      "Total number of generative API calls, by operation and result.",
	},
	[]string{"operation", "result"},
)

// GenerativeRequestDuration measures end-to-end model call latency.
// Label:
//   - operation: chat, vision, image
var GenerativeRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generative_request_duration_seconds",
		Help:      "Duration of generative API calls.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"operation"},
)

// ActivityQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending per dispatcher worker.",
	},
	[]string{"worker_id"},
)
