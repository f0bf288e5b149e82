package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "backoffice_cache_entries",
		Help: "Current number of entities resident in the keyed collection.",
	},
		[]string{"kind"},
	)

	WindowLength = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "backoffice_cache_window_length",
		Help: "Current number of entities in the visible window.",
	},
		[]string{"kind"},
	)

	RealtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_realtime_events_total",
		Help: "Total number of change events dispatched to a store.",
	},
		[]string{"kind", "operation"},
	)

	StaleReferencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_stale_references_total",
		Help: "Total number of change events whose entity was gone on re-fetch.",
	},
		[]string{"kind"},
	)

	FetchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_fetch_errors_total",
		Help: "Total number of failed backend round trips.",
	},
		[]string{"operation"},
	)

	PageLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_page_loads_total",
		Help: "Total number of pages appended to a window.",
	},
		[]string{"kind"},
	)

	SearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_searches_total",
		Help: "Total number of search requests by outcome.",
	},
		[]string{"kind", "outcome"},
	)

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_order_transitions_total",
		Help: "Total number of persisted order status changes.",
	},
		[]string{"from", "to"},
	)

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_notifications_total",
		Help: "Total number of notifications delivered to the sink.",
	},
		[]string{"type"},
	)

	OutboxPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_outbox_published_total",
		Help: "Total number of outbox tasks relayed to the change topic by outcome.",
	},
		[]string{"outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_fetch_duration_seconds",
		Help:    "Latency of backend round trips.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"operation"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_http_requests_total",
		Help: "Total number of HTTP requests by route and status code.",
	},
		[]string{"route", "code"},
	)
)
