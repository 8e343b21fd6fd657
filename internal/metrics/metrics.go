// Package metrics exposes prometheus counters for the account workflows and
// bearer-token checks.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	authFailures  *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authapi",
			Name:      "registrations_total",
			Help:      "Registration attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authapi",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authapi",
			Name:      "token_rejections_total",
			Help:      "Rejected bearer tokens by reason.",
		}, []string{"reason"}),
		gatherer: reg,
	}
	reg.MustRegister(m.registrations, m.logins, m.authFailures)
	return m
}

func (m *Metrics) Registered() { m.registrations.WithLabelValues("ok").Inc() }

func (m *Metrics) RegistrationRejected(reason string) {
	m.registrations.WithLabelValues(reason).Inc()
}

func (m *Metrics) LoggedIn() { m.logins.WithLabelValues("ok").Inc() }

func (m *Metrics) LoginRejected(reason string) { m.logins.WithLabelValues(reason).Inc() }

func (m *Metrics) TokenRejected(reason string) { m.authFailures.WithLabelValues(reason).Inc() }

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
