package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsCreated The total number of reservations created (counter)
	TicketsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tickets",
			Name:      "created_total",
			Help:      "The total number of reservations created",
		},
	)

	// TicketsRejected The total number of reservation requests rejected by validation (counter)
	TicketsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tickets",
			Name:      "rejected_total",
			Help:      "The total number of reservation requests rejected by validation",
		},
		[]string{"code"},
	)

	// PaymentsProcessed The total number of payment attempts by method and outcome (counter)
	PaymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "payments",
			Name:      "processed_total",
			Help:      "The total number of payment attempts",
		},
		[]string{"method", "status"},
	)

	// PaymentProcessingDuration Time spent inside the payment processor (histogram)
	PaymentProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "payments",
			Name:      "processing_duration_seconds",
			Help:      "Time spent inside the payment processor",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 3, 5, 10},
		},
		[]string{"method"},
	)

	// HTTPRequestDuration HTTP latency by route and status (histogram)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
