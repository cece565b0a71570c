// Package metrics exposes audit counters and latencies to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hamed0406/seoaudit/internal/domain"
)

const (
	labelOutcome = "outcome"
	labelStatus  = "status"
)

type Metrics struct {
	audits   *prometheus.CounterVec
	duration *prometheus.SummaryVec
	findings *prometheus.CounterVec
}

// New creates the audit collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		audits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seoaudit_audits_total",
				Help: "Number of audits run, by outcome.",
			},
			[]string{labelOutcome},
		),
		duration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "seoaudit_audit_duration_seconds",
				Help:       "audit duration including fetch and dns lookups",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{labelOutcome},
		),
		findings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seoaudit_findings_total",
				Help: "Report lines emitted, by status.",
			},
			[]string{labelStatus},
		),
	}
	reg.MustRegister(m.audits, m.duration, m.findings)
	return m
}

// ObserveAudit records one finished audit.
func (m *Metrics) ObserveAudit(r *domain.Report, elapsed time.Duration) {
	outcome := string(r.Outcome)
	m.audits.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
	for _, f := range r.Findings {
		m.findings.WithLabelValues(string(f.Status)).Inc()
	}
}
