// Package metrics defines and registers all custom Prometheus metrics for
// the provenance ledger API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "provenance"

// ── Ledger metrics ────────────────────────────────────────────────────────────

// ProductsCreatedTotal counts product records created (including overwrites
// of an existing key).
var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of product records created.",
	},
)

// VerificationsTotal counts successful verification markings.
// Label:
//   - step: the verification step index that was marked (e.g. "0", "1")
var VerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verifications_total",
		Help:      "Total number of successful product verifications, by step.",
	},
	[]string{"step"},
)

// LedgerErrorsTotal counts rejected mutating operations.
// Labels:
//   - operation: "add_product" or "verify_product"
//   - reason: taxonomy label (e.g. "suspended", "invalid_step", "storage")
var LedgerErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_errors_total",
		Help:      "Total number of ledger operations rejected, by operation and reason.",
	},
	[]string{"operation", "reason"},
)

// EligibilityChecksTotal counts explicit eligibility pre-checks.
// Label:
//   - result: "eligible", "no_identity_credential", or "suspended"
var EligibilityChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "eligibility_checks_total",
		Help:      "Total number of account eligibility checks, by result.",
	},
	[]string{"result"},
)

// ── Registry metrics ──────────────────────────────────────────────────────────

// RoleMutationsTotal counts successful role grants and revokes.
// Labels:
//   - action: "grant" or "revoke"
//   - role: "admin", "producer", or "verifier"
var RoleMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_mutations_total",
		Help:      "Total number of role grants and revokes applied.",
	},
	[]string{"action", "role"},
)

// ── Trace event metrics ───────────────────────────────────────────────────────

// EventsQueueDepth tracks the number of trace events waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of trace events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// EventPublishDuration measures how long one trace event takes to reach the
// audit collection and the stream.
// Label:
//   - type: the event type, or "error" on failure
var EventPublishDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Duration of trace event delivery from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
