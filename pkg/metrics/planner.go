package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Planner outcomes.
const (
	OutcomePlanned = "planned"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)

// PlannerMetrics counts planning cycles and the lines they emit.
type PlannerMetrics struct {
	cycles   *prometheus.CounterVec
	lines    *prometheus.CounterVec
	rejected *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPlannerMetrics registers the planner metrics on the provided registerer.
func NewPlannerMetrics(reg prometheus.Registerer) *PlannerMetrics {
	if reg == nil {
		return &PlannerMetrics{}
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "planner_cycles_total",
		Help:      "Planning cycles by planner and outcome.",
	}, []string{"planner", "outcome"})
	lines := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "planner_lines_total",
		Help:      "Plan lines emitted by planner.",
	}, []string{"planner"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "planner_rejected_inputs_total",
		Help:      "Malformed lots or recipes excluded before planning.",
	}, []string{"planner"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "planner_duration_seconds",
		Help:      "Duration of planning cycles in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"planner"})
	reg.MustRegister(cycles, lines, rejected, duration)
	return &PlannerMetrics{cycles: cycles, lines: lines, rejected: rejected, duration: duration}
}

// ObserveCycle records one finished cycle. Failed cycles report lines as 0.
func (p *PlannerMetrics) ObserveCycle(planner string, lines int, failed bool, took time.Duration) {
	if p == nil || p.cycles == nil {
		return
	}
	planner = normalizeLabel(planner)
	outcome := OutcomePlanned
	switch {
	case failed:
		outcome = OutcomeFailed
	case lines == 0:
		outcome = OutcomeEmpty
	}
	p.cycles.WithLabelValues(planner, outcome).Inc()
	p.lines.WithLabelValues(planner).Add(float64(lines))
	p.duration.WithLabelValues(planner).Observe(took.Seconds())
}

// AddRejected counts inputs dropped as malformed.
func (p *PlannerMetrics) AddRejected(planner string, n int) {
	if p == nil || p.rejected == nil || n <= 0 {
		return
	}
	p.rejected.WithLabelValues(normalizeLabel(planner)).Add(float64(n))
}
