package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Active websocket connections",
	})
	EventsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_events_delivered_total",
		Help: "Events pushed to a live connection, by event type",
	}, []string{"type"})
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_events_dropped_total",
		Help: "Events not delivered live (recipient offline or dead channel), by event type",
	}, []string{"type"})
)

func Init() {
	prometheus.MustRegister(ActiveConnections, EventsDelivered, EventsDropped)
}

// Handler returns the http.Handler for Prometheus scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
