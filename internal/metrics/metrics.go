// Package metrics exposes the Prometheus instruments for the API and the
// consumers binary.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bilet_http_requests_total",
		Help: "Total HTTP requests by method, route and status code.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bilet_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bilet_events_created_total",
		Help: "Events created.",
	})

	EventsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bilet_events_cancelled_total",
		Help: "Events cancelled.",
	})

	TicketsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bilet_tickets_sold_total",
		Help: "Ticket units sold.",
	})

	TicketsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bilet_tickets_cancelled_total",
		Help: "Ticket units cancelled by their holder.",
	})

	NotificationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bilet_notifications_created_total",
		Help: "Notification rows written.",
	})

	ConsumedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bilet_consumed_messages_total",
		Help: "Domain events consumed from NATS by subject.",
	}, []string{"subject"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
