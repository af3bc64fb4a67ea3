package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLogin(LoginSuccess)
	m.ObserveLogin(LoginInvalidCredentials)
	m.ObserveLogin(LoginInvalidCredentials)
	m.ObserveDecision("product.create", DecisionForbidden)
	m.ObserveRegistration("CUSTOMER")
	m.ObserveRequest("GET", "/v1/products", 200, 10*time.Millisecond)

	if got := testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(LoginInvalidCredentials)); got != 2 {
		t.Fatalf("expected 2 failed logins, got %v", got)
	}
	if got := testutil.ToFloat64(m.AuthzDecisionsTotal.WithLabelValues("product.create", DecisionForbidden)); got != 1 {
		t.Fatalf("expected 1 forbidden decision, got %v", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/v1/products", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 1 {
		t.Fatalf("expected 1 histogram series, got %d", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveLogin(LoginSuccess)
	m.ObserveDecision("user.me", DecisionAllowed)
	m.ObserveRegistration("CUSTOMER")
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
}

func TestNew_SeparateRegistries(t *testing.T) {
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
