// Package metrics registers the service's prometheus collectors; the values
// are exposed on /metrics via promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wa_dashboard_http_requests_total",
			Help: "HTTP requests by path and status code.",
		},
		[]string{"path", "status"},
	)

	DashboardComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wa_dashboard_computations_total",
			Help: "Completed dashboard aggregations.",
		},
	)

	ContactsSynced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wa_dashboard_contacts_synced_total",
			Help: "Contacts inserted by sync operations.",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, DashboardComputations, ContactsSynced)
}
