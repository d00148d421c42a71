package Hydro2D

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FluxMetrics counts the work done by a ConditionActionSequence
type FluxMetrics struct {
	EdgesEvaluated *prometheus.CounterVec // by rule name
	Evaluations    prometheus.Counter
	Failures       prometheus.Counter
	Duration       prometheus.Histogram
}

// NewFluxMetrics builds the collectors and registers them with reg when it is not nil
func NewFluxMetrics(reg prometheus.Registerer) (fm *FluxMetrics, err error) {
	fm = &FluxMetrics{
		EdgesEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gohydro_flux_edges_total",
				Help: "Edges whose flux was computed, by the rule that matched them",
			},
			[]string{"rule"},
		),
		Evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gohydro_flux_evaluations_total",
			Help: "Calls to the flux calculation",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gohydro_flux_failures_total",
			Help: "Flux calculations that stopped on an error",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gohydro_flux_duration_seconds",
			Help:    "Wall time of one flux calculation over all edges",
			Buckets: prometheus.ExponentialBuckets(1.e-5, 4, 10),
		}),
	}
	if reg == nil {
		return
	}
	for _, c := range []prometheus.Collector{fm.EdgesEvaluated, fm.Evaluations, fm.Failures, fm.Duration} {
		if err = reg.Register(c); err != nil {
			fm = nil
			return
		}
	}
	return
}
