package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hirehub_messages_sent_total", Help: "Total chat messages persisted and broadcast"},
	)
	AutoReplies = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "hirehub_auto_replies_total", Help: "Total synthesized candidate replies delivered"},
	)
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "hirehub_ws_connections", Help: "Currently open websocket connections"},
	)
)

func Register() {
	prometheus.MustRegister(MessagesSent, AutoReplies, ActiveConnections)
}
