package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "accident_hotspots"

// Metrics holds the Prometheus counters, histograms, and gauges for the pipeline.
type Metrics struct {
	RegionsLoaded   prometheus.Counter
	PipelineRuns    *prometheus.CounterVec // labels: outcome={success,error}
	PipelineRunning prometheus.Gauge
	RunDuration     prometheus.Histogram

	// Loader metrics.
	RowsWritten  *prometheus.CounterVec // labels: loader
	LoaderErrors *prometheus.CounterVec // labels: loader

	// Result metrics, reset on every run.
	HotspotScore    *prometheus.GaugeVec // labels: region
	CategoryRegions *prometheus.GaugeVec // labels: category
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RegionsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_loaded_total",
			Help:      "Total region records read from the dataset.",
		}),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is in progress.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-derive-report-export run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RowsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Feature rows written, by loader.",
		}, []string{"loader"}),
		LoaderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loader_errors_total",
			Help:      "Loader failures, by loader.",
		}, []string{"loader"}),
		HotspotScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hotspot_score",
			Help:      "Hotspot score of each region from the latest run.",
		}, []string{"region"}),
		CategoryRegions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_regions",
			Help:      "Number of regions per risk category from the latest run.",
		}, []string{"category"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RegionsLoaded,
		m.PipelineRuns,
		m.PipelineRunning,
		m.RunDuration,
		m.RowsWritten,
		m.LoaderErrors,
		m.HotspotScore,
		m.CategoryRegions,
	}
}

// WriteTextfile dumps every metric registered with the default registry to
// path in the node_exporter textfile format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
