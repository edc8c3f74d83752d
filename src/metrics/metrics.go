// Package metrics records one rendering run as Prometheus gauges and writes
// them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "covfig"

// Run describes a completed rendering.
type Run struct {
	Source              string
	Rows                int
	FinalCoverage       int64
	SpanSeconds         float64
	ScaleExponent       int
	TickIntervalSeconds int
	RenderDuration      time.Duration
	Finished            time.Time
}

// Recorder owns a private registry so runs never leak into the default one.
type Recorder struct {
	reg *prometheus.Registry

	rows          *prometheus.GaugeVec
	coverage      *prometheus.GaugeVec
	span          *prometheus.GaugeVec
	scaleExponent *prometheus.GaugeVec
	tickInterval  *prometheus.GaugeVec
	renderSeconds *prometheus.GaugeVec
	lastRun       *prometheus.GaugeVec
}

func NewRecorder() *Recorder {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		}, []string{"source"})
	}
	r := &Recorder{
		reg:           prometheus.NewRegistry(),
		rows:          gauge("rows", "Data rows loaded from the telemetry log."),
		coverage:      gauge("coverage_final", "Coverage count of the last row."),
		span:          gauge("span_seconds", "Distance between the first and last timestamp."),
		scaleExponent: gauge("coverage_scale_exponent", "Power of ten dividing the coverage axis."),
		tickInterval:  gauge("time_tick_interval_seconds", "Chosen time tick interval."),
		renderSeconds: gauge("render_duration_seconds", "Wall time spent building and writing the figure."),
		lastRun:       gauge("last_run_timestamp_seconds", "Unix time the run finished."),
	}
	r.reg.MustRegister(r.rows, r.coverage, r.span, r.scaleExponent, r.tickInterval, r.renderSeconds, r.lastRun)
	return r
}

// Registry exposes the gatherer, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe sets every gauge for the run's source.
func (r *Recorder) Observe(run Run) {
	src := run.Source
	r.rows.WithLabelValues(src).Set(float64(run.Rows))
	r.coverage.WithLabelValues(src).Set(float64(run.FinalCoverage))
	r.span.WithLabelValues(src).Set(run.SpanSeconds)
	r.scaleExponent.WithLabelValues(src).Set(float64(run.ScaleExponent))
	r.tickInterval.WithLabelValues(src).Set(float64(run.TickIntervalSeconds))
	r.renderSeconds.WithLabelValues(src).Set(run.RenderDuration.Seconds())
	finished := run.Finished
	if finished.IsZero() {
		finished = time.Now()
	}
	r.lastRun.WithLabelValues(src).Set(float64(finished.Unix()))
}

// WriteTextfile atomically replaces path with the current gauge values.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
