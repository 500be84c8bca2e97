package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MenuResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_menu_resolutions_total",
			Help: "Menu lookups by which source answered them",
		},
		[]string{"mess", "source"},
	)

	TokenTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_token_transitions_total",
			Help: "Special-token state transitions",
		},
		[]string{"transition"},
	)

	RosterRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_roster_import_rows_total",
			Help: "Bulk-import rows by outcome",
		},
		[]string{"outcome"},
	)

	CardCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mess_card_cache_lookups_total",
			Help: "Mess-card cache lookups by result",
		},
		[]string{"result"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
