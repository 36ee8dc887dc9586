package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Redirect outcomes.
const (
	OutcomeRedirected    = "redirected"
	OutcomeUnknownPrefix = "unknown_prefix"
	OutcomeNotFound      = "identifier_not_found"
	OutcomeError         = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	IdentifiersGenerated *prometheus.CounterVec
	Redirects            *prometheus.CounterVec
	InviteLinkErrors     *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		IdentifiersGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invite_tracker_identifiers_generated_total",
				Help: "Total number of identifiers issued",
			},
			[]string{"bot_prefix"},
		),

		Redirects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invite_tracker_redirects_total",
				Help: "Total number of redirect requests by outcome",
			},
			[]string{"bot_prefix", "outcome"},
		),

		InviteLinkErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invite_tracker_invite_link_errors_total",
				Help: "Total number of failed Telegram createChatInviteLink calls",
			},
			[]string{"bot_prefix"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invite_tracker_request_duration_seconds",
				Help:    "Duration of HTTP request processing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
	}
}
