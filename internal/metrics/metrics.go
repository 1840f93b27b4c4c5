// Package metrics holds the Prometheus collectors for the donation workflow.
// They are registered on the default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ListingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "savebyte",
		Name:      "listings_created_total",
		Help:      "Food listings created, by waste food type.",
	}, []string{"waste_food_type"})

	TransactionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "savebyte",
		Name:      "transaction_transitions_total",
		Help:      "Transaction state transitions, by resulting status.",
	}, []string{"status"})

	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "savebyte",
		Name:      "otp_verifications_total",
		Help:      "OTP verification attempts, by result.",
	}, []string{"result"})

	NotificationsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "savebyte",
		Name:      "notifications_delivered_total",
		Help:      "Notification deliveries, by channel and result.",
	}, []string{"channel", "result"})

	RealtimeConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "savebyte",
		Name:      "realtime_connections",
		Help:      "Open websocket connections.",
	})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "savebyte",
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent persisting and pushing a batch of events.",
		Buckets:   prometheus.DefBuckets,
	})
)
