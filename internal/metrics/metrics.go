// Package metrics defines and registers all custom Prometheus metrics for the
// query gateway. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// init via promauto; expose them by mounting promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "query_gateway"

// AuthRejectionsTotal counts requests refused by the gatekeeper.
// Label:
//   - kind: "unauthenticated", "invalid_token", "forbidden", or "upstream"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the gatekeeper, by rejection kind.",
	},
	[]string{"kind"},
)

// AuthGrantedTotal counts requests that passed authentication and authorization.
var AuthGrantedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_granted_total",
		Help:      "Total number of requests that passed all authentication and authorization layers.",
	},
)

// QueriesForwardedTotal counts queries forwarded to the upstream resource.
// Label:
//   - result_type: "COUNT", "CROSS_COUNT", or "INFO_COLUMN_LISTING"
var QueriesForwardedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_forwarded_total",
		Help:      "Total number of aggregate queries forwarded upstream, by expected result type.",
	},
	[]string{"result_type"},
)

// QueriesObfuscatedTotal counts COUNT results replaced by the disclosure floor.
var QueriesObfuscatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_obfuscated_total",
		Help:      "Total number of raw counts obfuscated because they fell below the threshold.",
	},
)

// UpstreamRequestDuration measures the latency of the synchronous upstream call.
// Label:
//   - result_type: the expected result type of the forwarded query
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of the outbound /query/sync call to the upstream resource.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result_type"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RateLimitedTotal counts requests refused by the per-user rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the per-user rate limiter.",
	},
)
