// Package metrics defines the Prometheus metrics exported by the catalog API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Build one Metrics value per registry with New and share it between the
// router, the guard and the handlers. Every method is safe on a nil receiver
// so components can run without instrumentation in tests.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginError              = "error"
)

// Authorization decisions.
const (
	DecisionAllowed         = "allowed"
	DecisionForbidden       = "forbidden"
	DecisionUnauthenticated = "unauthenticated"
)

type Metrics struct {
	// LoginAttemptsTotal counts login attempts.
	// Label:
	//   - outcome: "success", "invalid_credentials" or "error"
	LoginAttemptsTotal *prometheus.CounterVec

	// AuthzDecisionsTotal counts guard decisions per protected operation.
	// Labels:
	//   - operation: policy operation id (e.g. "product.create")
	//   - decision: "allowed", "forbidden" or "unauthenticated"
	AuthzDecisionsTotal *prometheus.CounterVec

	// RegistrationsTotal counts created accounts by role.
	RegistrationsTotal *prometheus.CounterVec

	// HTTPRequestsTotal counts served requests by route template and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration measures handler latency by route template.
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers every metric on reg. Passing a fresh registry per test avoids
// duplicate registration panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		AuthzDecisionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authz_decisions_total",
				Help:      "Total number of authorization decisions, by operation and decision.",
			},
			[]string{"operation", "decision"},
		),
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of registered users, by role.",
			},
			[]string{"role"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests, by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests, by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDecision(operation, decision string) {
	if m == nil {
		return
	}
	m.AuthzDecisionsTotal.WithLabelValues(operation, decision).Inc()
}

func (m *Metrics) ObserveRegistration(role string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(role).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
