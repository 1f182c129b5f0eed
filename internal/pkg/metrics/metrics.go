// Package metrics defines and registers all custom Prometheus metrics for the
// tracking engine. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics register with the default Prometheus registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// ── Tracking requests ────────────────────────────────────────────────────────

// RequestsTotal counts tracking requests by outcome.
// Labels:
//   - carrier: detected carrier id ("unknown" for invalid numbers)
//   - result: "ok", "degraded", or the error kind (e.g. "NOT_FOUND")
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of tracking requests, by carrier and result.",
	},
	[]string{"carrier", "result"},
)

// FetchAttemptsTotal counts individual carrier fetch attempts.
// Label:
//   - outcome: "ok", "not_found", "network_error", "carrier_unavailable", "timeout"
var FetchAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_attempts_total",
		Help:      "Total number of carrier fetch attempts, retries included.",
	},
	[]string{"carrier", "outcome"},
)

// FetchDuration measures the FETCH step including retries.
var FetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of the carrier fetch step, retries included.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"carrier"},
)

// UnmappedStatusTotal counts carrier codes missing from the status taxonomy.
// Every increment is a code waiting to be triaged into the catalog.
var UnmappedStatusTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unmapped_status_total",
		Help:      "Total number of carrier status codes that had no canonical mapping.",
	},
	[]string{"carrier", "code"},
)

// ── Timeline events ──────────────────────────────────────────────────────────

// EventsAppendedTotal counts events stored on a timeline.
// Label:
//   - source: "webhook" or "fetch"
var EventsAppendedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_appended_total",
		Help:      "Total number of tracking events appended to timelines.",
	},
	[]string{"source"},
)

// EventsRejectedTotal counts events the timeline refused.
// Label:
//   - reason: "duplicate", "stale", "invalid"
var EventsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_rejected_total",
		Help:      "Total number of tracking events rejected by the timeline.",
	},
	[]string{"reason"},
)

// EventsQueueDepth tracks the current number of events waiting in each worker channel.
var EventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Notifications ────────────────────────────────────────────────────────────

// NotificationsTotal counts notifications handed to the sink.
// Labels:
//   - channel: "email", "sms", "push", "webhook"
//   - category: the canonical category that triggered it
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications handed to the sink, by channel, category and result.",
	},
	[]string{"channel", "category", "result"},
)

// ShipmentsRegisteredTotal counts newly registered shipments.
var ShipmentsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_registered_total",
		Help:      "Total number of shipments registered, by carrier.",
	},
	[]string{"carrier"},
)
