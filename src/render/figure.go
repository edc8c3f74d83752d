// Package render turns a telemetry log into the three-panel coverage figure: coverage
// over time, new coverage per second and new coverage per execution. All panels share
// one time axis chosen by axis.SelectTimeAxis.
package render

import (
	"fmt"
	"math"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/lscov/covfig/src/axis"
	"github.com/lscov/covfig/src/logging"
	"github.com/lscov/covfig/src/telemetry"
)

// Panel indexes into Figure.Panels.
const (
	PanelCoverage = iota
	PanelPerSecond
	PanelPerExec
	panelCount
)

// Options controls panel geometry and the optional caption line.
type Options struct {
	PanelWidth  int
	PanelHeight int
	DPI         float64
	// YTicks is the desired tick count on the auto-fitted y axes.
	YTicks int
	// Caption, when set, names the input in a strip below the panels; the run
	// summary is appended to it.
	Caption string
}

// DefaultOptions mirrors config.Default().Figure.
func DefaultOptions() Options {
	return Options{PanelWidth: 480, PanelHeight: 420, DPI: 96, YTicks: 6}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PanelWidth <= 0 {
		o.PanelWidth = d.PanelWidth
	}
	if o.PanelHeight <= 0 {
		o.PanelHeight = d.PanelHeight
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	if o.YTicks < 2 {
		o.YTicks = d.YTicks
	}
	return o
}

// Figure is a built, not yet encoded, three-panel chart.
type Figure struct {
	Time      axis.TimeAxis
	Magnitude axis.Magnitude
	Panels    [panelCount]chart.Chart
	// Samples is the number of records plotted.
	Samples int
	opts    Options
}

// Build selects the axis units from log and lays out the panels. log must carry the
// standard lscov columns.
func Build(log *telemetry.Log, axisCfg axis.Config, opts Options) (*Figure, error) {
	defer logging.TimeTrack(time.Now(), "[render] build")
	if err := log.Require(telemetry.StandardColumns...); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	timeCol := log.MustColumn(telemetry.ColTime)
	ta := axis.SelectTimeAxis(timeCol.First(), timeCol.Last(), axisCfg)
	mag := axis.SelectMagnitude(log.MustColumn(telemetry.ColCoverage).LastInt())
	logging.Debugf("[axis] span=%.0fs unit=%s interval=%d ticks=%d coverage_exp=%d",
		ta.Span(), ta.Unit, ta.Interval, ta.Ticks, mag.Exponent)

	xAxis := timeXAxis(ta)
	xs := timeCol.Float64s()
	f := &Figure{Time: ta, Magnitude: mag, Samples: log.Len(), opts: opts}
	f.Panels[PanelCoverage] = coveragePanel(log, xs, xAxis, mag, opts)
	f.Panels[PanelPerSecond] = perSecondPanel(log, xs, xAxis, opts)
	f.Panels[PanelPerExec] = perExecPanel(log, xs, xAxis, opts)
	return f, nil
}

// Size is the pixel size of the composed figure.
func (f *Figure) Size() (int, int) {
	h := f.opts.PanelHeight
	if f.opts.Caption != "" {
		h += captionHeight
	}
	return f.opts.PanelWidth * panelCount, h
}

// Summary is a one-line description of the chosen axes for logs and captions.
func (f *Figure) Summary() string {
	s := fmt.Sprintf("%d samples, span %s, ticks every %d %s",
		f.Samples, formatSpan(f.Time.Span()), f.Time.Interval, f.Time.Unit)
	if a := f.Magnitude.Annotation(); a != "" {
		s += ", coverage " + a
	}
	return s
}

// Caption is the text of the strip below the panels, or "" when no caption was asked for.
func (f *Figure) Caption() string {
	if f.opts.Caption == "" {
		return ""
	}
	return f.opts.Caption + ": " + f.Summary()
}

// formatSpan prints spans as a duration while they fit in one.
func formatSpan(secs float64) string {
	if secs < float64(math.MaxInt64/int64(time.Second)) {
		return time.Duration(secs * float64(time.Second)).Round(time.Second).String()
	}
	return strconv.FormatFloat(secs, 'g', 4, 64) + "s"
}
