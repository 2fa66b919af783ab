// Package metrics exposes Prometheus metrics served at /metrics:
//   - pennypicker_http_requests_total{method,status}
//   - pennypicker_ws_connections          (gauge)
//   - pennypicker_ws_broadcasts_total{type}
//   - pennypicker_orders_submitted_total{side}
//   - pennypicker_signals_ingested_total{signal}
//   - pennypicker_alerts_sent_total{channel,status}
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennypicker_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "status"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pennypicker_ws_connections",
			Help: "Open WebSocket connections",
		},
	)

	WSBroadcasts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennypicker_ws_broadcasts_total",
			Help: "WebSocket messages fanned out, by event type",
		},
		[]string{"type"},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennypicker_orders_submitted_total",
			Help: "Orders submitted to the broker",
		},
		[]string{"side"},
	)

	SignalsIngested = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennypicker_signals_ingested_total",
			Help: "Signals received via webhook, by signal type",
		},
		[]string{"signal"},
	)

	AlertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pennypicker_alerts_sent_total",
			Help: "Alerts dispatched, by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequests,
		WSConnections,
		WSBroadcasts,
		OrdersSubmitted,
		SignalsIngested,
		AlertsSent,
	)
}
