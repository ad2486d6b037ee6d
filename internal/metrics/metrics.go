package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_store_queries_total",
			Help: "Total number of application store queries",
		},
		[]string{"driver", "operation", "outcome"},
	)

	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dashboard_store_query_duration_seconds",
			Help: "Duration of application store queries in seconds",
		},
		[]string{"driver", "operation"},
	)

	BoardLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_board_loads_total",
			Help: "Total number of dashboard loads by final status",
		},
		[]string{"status"},
	)

	BoardRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_board_applications",
			Help: "Number of applications held by the dashboard after the last load",
		},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_websocket_clients",
			Help: "Number of connected dashboard websocket clients",
		},
	)

	CSVExports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_csv_exports_total",
			Help: "Total number of CSV exports served",
		},
	)
)

// Outcome labels a store query result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
