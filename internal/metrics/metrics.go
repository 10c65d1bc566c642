package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics holds the Prometheus metrics for user registration.
// Each instance owns its registry so tests and multiple containers never collide.
type Metrics struct {
	registry *prometheus.Registry

	RegistrationOutcomes *prometheus.CounterVec
	BonusAwarded         prometheus.Counter
	RecordsListed        prometheus.Counter
}

// New creates a Metrics instance with all registration metrics and the Go runtime
// collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RegistrationOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registration_outcomes_total",
			Help: "Total number of registration attempts by outcome",
		}, []string{"outcome"}),
		BonusAwarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "registration_bonus_awarded_total",
			Help: "Sum of bonus amounts credited to newly registered users",
		}),
		RecordsListed: factory.NewCounter(prometheus.CounterOpts{
			Name: "store_records_listed_total",
			Help: "Total number of user records returned by list operations",
		}),
	}
}

// RecordOutcome counts one registration attempt ending in outcome.
func (m *Metrics) RecordOutcome(outcome string) {
	m.RegistrationOutcomes.WithLabelValues(outcome).Inc()
}

// RecordBonus adds an awarded bonus amount.
func (m *Metrics) RecordBonus(bonus decimal.Decimal) {
	if bonus.IsNegative() {
		return
	}
	m.BonusAwarded.Add(bonus.InexactFloat64())
}

// RecordListed counts records returned by a list operation.
func (m *Metrics) RecordListed(n int) {
	m.RecordsListed.Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
