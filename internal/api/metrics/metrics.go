// Package metrics defines and registers all custom Prometheus metrics for
// the Elevva client portal API. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// LoginsTotal counts credential verifications.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// GateDecisionsTotal counts access-gate evaluations on protected routes.
// Label:
//   - decision: "suspend", "deny", or "admit"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of access gate decisions, by outcome.",
	},
	[]string{"decision"},
)

// RefreshesTotal counts full role-scoped cache refreshes.
// Label:
//   - result: "success" or "failure"
var RefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_refreshes_total",
		Help:      "Total number of four-collection cache refreshes, by result.",
	},
	[]string{"result"},
)

// RefreshDuration measures how long a full four-collection refresh takes.
var RefreshDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_refresh_duration_seconds",
		Help:      "Duration of full role-scoped cache refreshes.",
		Buckets:   prometheus.DefBuckets, // .005 … 10
	},
)

// MutationsTotal counts portal write operations.
// Labels:
//   - operation: "create_ticket", "post_message", "set_ticket_status", …
//   - result: "success" or "failure"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of portal mutations, by operation and result.",
	},
	[]string{"operation", "result"},
)
