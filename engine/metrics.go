package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics instruments Run lifecycle counters and solve-duration
// histograms, labeled by analysis type. The solvers themselves never
// import prometheus (§ AMBIENT STACK); only the engine boundary does.
type Metrics struct {
	created  *prometheus.CounterVec
	done     *prometheus.CounterVec
	failed   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the Run counters/histogram against reg. reg may
// be a dedicated registry or prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mvbench", Subsystem: "engine", Name: "runs_created_total",
			Help: "Number of Runs created, by analysis type.",
		}, []string{"analysis_type"}),
		done: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mvbench", Subsystem: "engine", Name: "runs_done_total",
			Help: "Number of Runs that reached Done, by analysis type.",
		}, []string{"analysis_type"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mvbench", Subsystem: "engine", Name: "runs_failed_total",
			Help: "Number of Runs that reached Failed, by analysis type.",
		}, []string{"analysis_type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mvbench", Subsystem: "engine", Name: "run_duration_seconds",
			Help: "Wall-clock time spent inside execute_run's solver dispatch.",
			Buckets: prometheus.DefBuckets,
		}, []string{"analysis_type"}),
	}
	reg.MustRegister(m.created, m.done, m.failed, m.duration)

	return m
}

func (m *Metrics) observeCreated(analysisType string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(analysisType).Inc()
}

func (m *Metrics) observeDone(analysisType string) {
	if m == nil {
		return
	}
	m.done.WithLabelValues(analysisType).Inc()
}

func (m *Metrics) observeFailed(analysisType string) {
	if m == nil {
		return
	}
	m.failed.WithLabelValues(analysisType).Inc()
}

func (m *Metrics) observeDuration(analysisType string, seconds float64) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(analysisType).Observe(seconds)
}
