// Package metrics exports lifecycle events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/skekre98/modhost/core"
)

const namespace = "modhost"

// Collector is a core.Observer backed by Prometheus vectors.
type Collector struct {
	phaseDuration *prometheus.HistogramVec
	faults        *prometheus.CounterVec
	up            *prometheus.GaugeVec
	planSize      prometheus.Gauge
}

// New registers the lifecycle metrics with reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		phaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "module_phase_duration_seconds",
			Help:      "Time spent in a module lifecycle call.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"module", "phase", "outcome"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_faults_total",
			Help:      "Failed module lifecycle calls.",
		}, []string{"module", "phase"}),
		up: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "module_up",
			Help:      "1 while a module is started, 0 otherwise.",
		}, []string{"module"}),
		planSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plan_modules",
			Help:      "Modules in the resolved load plan.",
		}),
	}
	for _, col := range []prometheus.Collector{c.phaseDuration, c.faults, c.up, c.planSize} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) OnEvent(e core.Event) {
	switch e.Type {
	case core.EventPlanned:
		c.planSize.Set(float64(len(e.Plan)))
		for _, id := range e.Plan {
			c.up.WithLabelValues(id).Set(0)
		}
	case core.EventPhaseCompleted:
		c.phaseDuration.WithLabelValues(e.Module, string(e.Phase), "ok").Observe(e.Duration.Seconds())
		if e.State == core.StateStarted {
			c.up.WithLabelValues(e.Module).Set(1)
		} else if e.Phase == core.PhaseStop {
			c.up.WithLabelValues(e.Module).Set(0)
		}
	case core.EventPhaseFailed:
		c.phaseDuration.WithLabelValues(e.Module, string(e.Phase), "fault").Observe(e.Duration.Seconds())
		c.faults.WithLabelValues(e.Module, string(e.Phase)).Inc()
		c.up.WithLabelValues(e.Module).Set(0)
	}
}
