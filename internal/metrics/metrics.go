// Package metrics records the outcome of a load run as Prometheus gauges and
// writes them in the text exposition format, for node_exporter's textfile
// collector or any scraper that reads files.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vvka-141/ecomload/pkg/ecomload"
)

const namespace = "ecomload"

// Recorder holds the gauges of one run on a private registry.
type Recorder struct {
	registry  *prometheus.Registry
	rows      *prometheus.GaugeVec
	success   prometheus.Gauge
	duration  prometheus.Gauge
	timestamp prometheus.Gauge
}

// NewRecorder creates a Recorder with every gauge registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rows_inserted",
			Help:      "Rows inserted per table by the last run.",
		}, []string{"table"}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the last run loaded every table, 0 otherwise.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		timestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_timestamp_seconds",
			Help:      "Unix time the last run started.",
		}),
	}
	r.registry.MustRegister(r.rows, r.success, r.duration, r.timestamp)
	return r
}

// Observe records summary. Tables missing from a failed run's summary are
// reported with zero rows so stale values never linger.
func (r *Recorder) Observe(tables []string, summary ecomload.Summary, runErr error) {
	for _, table := range tables {
		n, _ := summary.Inserted(table)
		r.rows.WithLabelValues(table).Set(float64(n))
	}
	if runErr == nil {
		r.success.Set(1)
	} else {
		r.success.Set(0)
	}
	r.duration.Set(summary.Duration.Seconds())
	if !summary.StartedAt.IsZero() {
		r.timestamp.Set(float64(summary.StartedAt.UnixNano()) / float64(time.Second))
	}
}

// WriteFile atomically replaces path with the current gauge values.
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
