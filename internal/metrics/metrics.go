package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedPeers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_connected_peers",
			Help: "Number of currently connected live-update peers (count)",
		},
	)

	WebhookRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Total number of inbound webhook requests by outcome (count)",
		},
		[]string{"status"},
	)

	BroadcastEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_broadcast_events_total",
			Help: "Total number of events broadcast to live-update peers (count)",
		},
	)

	BroadcastDroppedPeersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_broadcast_dropped_peers_total",
			Help: "Total number of peers dropped after a failed delivery (count)",
		},
	)

	OutboundMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whatsapp_outbound_messages_total",
			Help: "Total number of outbound WhatsApp send attempts by outcome (count)",
		},
		[]string{"status"},
	)

	LeadRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_requests_total",
			Help: "Total number of lead capture requests by outcome (count)",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(ConnectedPeers)
	prometheus.MustRegister(WebhookRequestsTotal)
	prometheus.MustRegister(BroadcastEventsTotal)
	prometheus.MustRegister(BroadcastDroppedPeersTotal)
	prometheus.MustRegister(OutboundMessagesTotal)
	prometheus.MustRegister(LeadRequestsTotal)
}
