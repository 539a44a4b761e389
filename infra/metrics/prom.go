package metrics

import (
	coremetrics "github.com/atvfleet/maintsched/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records optimization runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	duration   prometheus.Histogram
	unassigned prometheus.Gauge
	fleet      prometheus.Gauge
}

// NewPromSink registers optimizer metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Total number of optimization runs",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Wall-clock duration of an optimization run",
		Buckets: prometheus.DefBuckets,
	})
	unassigned := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_unassigned_vehicles",
		Help: "Vehicles left unscheduled in the last run",
	})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_fleet_size",
		Help: "Number of vehicles submitted to the last run",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(unassigned); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			unassigned = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{runs: runs, duration: duration, unassigned: unassigned, fleet: fleet}, nil
}

// RecordRun increments the run counter and updates the gauges.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	status := res.Status
	if status == "" {
		status = "ok"
	}
	s.runs.WithLabelValues(status).Inc()
	s.duration.Observe(res.Duration.Seconds())
	s.unassigned.Set(float64(res.Unassigned))
	return nil
}

// RecordFleetSize sets the gauge to the number of submitted vehicles.
func (s *PromSink) RecordFleetSize(size int) error {
	if s.fleet != nil {
		s.fleet.Set(float64(size))
	}
	return nil
}
