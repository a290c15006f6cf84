package airtable_timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the statistics of one sync run for the node_exporter
// textfile collector.
type Metrics struct {
	registry *prometheus.Registry

	RecordsFetched prometheus.Gauge
	PagesFetched   prometheus.Gauge
	EventsWritten  prometheus.Gauge
	EventsDropped  prometheus.Gauge
	LastSuccess    prometheus.Gauge
	Duration       prometheus.Gauge
}

func NewMetrics() *Metrics {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "airtable_timeline",
			Name:      name,
			Help:      help,
		})
	}

	m := &Metrics{
		registry:       prometheus.NewRegistry(),
		RecordsFetched: gauge("records_fetched", "Records read from the source in the last run."),
		PagesFetched:   gauge("pages_fetched", "Pages requested from the source in the last run."),
		EventsWritten:  gauge("events_written", "Events written to the output document."),
		EventsDropped:  gauge("events_dropped", "Records dropped for having neither title nor start."),
		LastSuccess:    gauge("last_success_timestamp_seconds", "Unix time of the last successful sync."),
		Duration:       gauge("sync_duration_seconds", "Duration of the last successful sync."),
	}
	m.registry.MustRegister(
		m.RecordsFetched,
		m.PagesFetched,
		m.EventsWritten,
		m.EventsDropped,
		m.LastSuccess,
		m.Duration,
	)
	return m
}

// ObservePage implements PageObserver.
func (m *Metrics) ObservePage(int) {
	m.PagesFetched.Inc()
}

func (m *Metrics) observeSync(stats Stats, finished time.Time, took time.Duration) {
	m.RecordsFetched.Set(float64(stats.Records))
	m.EventsWritten.Set(float64(stats.Events))
	m.EventsDropped.Set(float64(stats.Dropped))
	m.LastSuccess.Set(float64(finished.Unix()))
	m.Duration.Set(took.Seconds())
}

// Gatherer exposes the registry, mostly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format. The file is
// replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create metrics directory: %w", err)
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
