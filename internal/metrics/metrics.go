package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketing_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_purchases_total",
			Help: "Purchase attempts by outcome",
		},
		[]string{"outcome"},
	)

	TicketsSoldTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_tickets_sold_total",
			Help: "Total number of tickets sold",
		},
	)

	PurchaseTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticketing_purchase_tx_seconds",
			Help:    "Duration of purchase transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	EventPublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketing_event_publish_failures_total",
			Help: "Purchase events that could not be published",
		},
	)
)

// Purchase outcomes.
const (
	OutcomeCompleted    = "completed"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeInsufficient = "insufficient_inventory"
	OutcomeError        = "error"
)
