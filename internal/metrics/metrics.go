package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wabble_active_connections",
			Help: "Currently connected clients",
		},
	)

	PrivateRoomsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wabble_private_rooms_created_total",
			Help: "Private rooms created on demand",
		},
	)

	MessagesBroadcast = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wabble_messages_broadcast_total",
			Help: "Messages fanned out to rooms",
		},
		[]string{"kind"}, // "user" or "system"
	)

	BroadcastLagDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wabble_broadcast_lag_drops_total",
			Help: "Messages dropped from slow subscriber backlogs",
		},
	)

	JoinsDeclined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wabble_joins_declined_total",
			Help: "Join attempts declined because a room was full",
		},
	)
)
