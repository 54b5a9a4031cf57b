// Package metrics holds the Prometheus collectors of the messaging services
// and the relay. They register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devsecrets_messages_sent_total",
		Help: "Messages encrypted and handed to a transport.",
	})

	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devsecrets_messages_received_total",
			Help: "Messages authenticated and decrypted, by sequence classification.",
		},
		[]string{"classification"},
	)

	MessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devsecrets_messages_rejected_total",
			Help: "Deliveries discarded because they were malformed or failed authentication.",
		},
		[]string{"reason"},
	)

	TransportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devsecrets_transport_errors_total",
			Help: "Transport operations that failed.",
		},
		[]string{"op"},
	)

	RelayRequests = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "devsecrets_relay_request_seconds",
			Help:    "Latency of relay HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "code"},
	)

	RelayQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "devsecrets_relay_queue_depth",
			Help: "Messages held by the relay per queue, including leased ones.",
		},
		[]string{"queue"},
	)
)
