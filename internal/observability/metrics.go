package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instruments shared by the HTTP layer, the connection
// registry and the delivery router.
type Metrics struct {
	ActiveConnections prometheus.Gauge
	MessagesDelivered *prometheus.CounterVec
	MessagesDropped   prometheus.Counter
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ActiveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chat_active_connections",
			Help: "Number of live websocket connections.",
		}),
		MessagesDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_delivered_total",
			Help: "Messages pushed to live connections, by kind.",
		}, []string{"kind"}),
		MessagesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_dropped_total",
			Help: "Pushes dropped because a connection queue was full.",
		}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
