package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrarRequests counts requests to the registrar API by account and
	// outcome (ok, not_found, throttled, error).
	RegistrarRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrar_api_requests_total",
			Help: "Total number of registrar API requests",
		},
		[]string{"account", "outcome"},
	)

	// RegistrarRateLimits counts throttle responses that triggered a backoff.
	RegistrarRateLimits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrar_api_rate_limits_total",
			Help: "Total number of registrar rate limit responses",
		},
		[]string{"account"},
	)

	// SyncRuns counts full sync runs by outcome (ok, failed).
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_sync_runs_total",
			Help: "Total number of full domain sync runs",
		},
		[]string{"outcome"},
	)

	// DomainsImported counts domain rows written by sync and import runs.
	DomainsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "domains_imported_total",
			Help: "Total number of domain records created by sync or import",
		},
	)

	// DomainsSkipped counts per-domain skips by reason (invalid, duplicate,
	// not_found, mapping, error).
	DomainsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domains_skipped_total",
			Help: "Total number of domains skipped during sync or import",
		},
		[]string{"reason"},
	)
)
