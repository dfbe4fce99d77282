// Package metrics holds the Prometheus collectors for credential events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CredentialEvents counts credential lifecycle events by action and outcome.
var CredentialEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "authapi",
		Name:      "credential_events_total",
		Help:      "Credential lifecycle events by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// NotificationFailures counts failed email sends by message kind.
var NotificationFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "authapi",
		Name:      "notification_failures_total",
		Help:      "Failed notification sends by message kind.",
	},
	[]string{"kind"},
)

// RateLimited counts requests rejected by the per-client rate limiter.
var RateLimited = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "authapi",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the per-client rate limiter, by route.",
	},
	[]string{"route"},
)

// Register adds the package collectors to reg. It panics on duplicate registration.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(CredentialEvents)
	reg.MustRegister(NotificationFailures)
	reg.MustRegister(RateLimited)
}
