package render

import (
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/lscov/covfig/src/axis"
	"github.com/lscov/covfig/src/logging"
	"github.com/lscov/covfig/src/telemetry"
)

// Series colors follow the classic tab10 cycle: coverage, per-second, per-exec.
var (
	colorCoverage = drawing.ColorFromHex("1f77b4")
	colorPerSec   = drawing.ColorFromHex("ff7f0e")
	colorPerExec  = drawing.ColorFromHex("2ca02c")
	colorGrid     = drawing.ColorFromHex("d9d9d9")
)

const (
	labelCoverage = "Logic State Coverage"
	labelPerSec   = "New Coverage (/sec)"
	labelPerExec  = "New Coverage (/exec)"
	legendInst    = "Inst"
	legendAvg     = "Avg"
)

// timeXAxis is built once per figure and copied into every panel. A zero span is
// widened by one interval so the chart has a non-empty domain.
func timeXAxis(ta axis.TimeAxis) chart.XAxis {
	lo, hi := ta.Min, ta.Max
	if hi <= lo {
		hi = lo + ta.IntervalSeconds
	}
	vals := ta.TickValues(lo, hi)
	ticks := make([]chart.Tick, len(vals))
	grid := make([]chart.GridLine, len(vals))
	for i, v := range vals {
		ticks[i] = chart.Tick{Value: v, Label: ta.Label(v)}
		grid[i] = chart.GridLine{Value: v}
	}
	return chart.XAxis{
		Name:           ta.Name(),
		Range:          &chart.ContinuousRange{Min: lo, Max: hi},
		Ticks:          ticks,
		GridLines:      grid,
		GridMajorStyle: chart.Style{StrokeColor: colorGrid, StrokeWidth: 1},
	}
}

// xDomain returns the x range actually drawn, which may be padded.
func xDomain(x chart.XAxis) (float64, float64) {
	return x.Range.GetMin(), x.Range.GetMax()
}

// lineSeries pads a single record to a flat segment across the padded domain; the
// chart library needs two points to draw a line.
func lineSeries(name string, xs, ys []float64, xa chart.XAxis, st chart.Style) chart.ContinuousSeries {
	if len(xs) == 1 {
		_, hi := xDomain(xa)
		xs = []float64{xs[0], hi}
		ys = []float64{ys[0], ys[0]}
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st}
}

func maxOf(vals ...[]float64) float64 {
	m := math.Inf(-1)
	for _, vs := range vals {
		for _, v := range vs {
			if v > m {
				m = v
			}
		}
	}
	return m
}

func valueTicks(vals []float64, label func(float64) string) []chart.Tick {
	out := make([]chart.Tick, len(vals))
	for i, v := range vals {
		out[i] = chart.Tick{Value: v, Label: label(v)}
	}
	return out
}

func basePanel(xa chart.XAxis, opts Options) chart.Chart {
	return chart.Chart{
		Width:      opts.PanelWidth,
		Height:     opts.PanelHeight,
		DPI:        opts.DPI,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      xa,
	}
}

// coveragePanel draws cumulative coverage with the area beneath it shaded. Ticks are
// chosen in scaled units so every label is a whole number of 10^k states.
func coveragePanel(log *telemetry.Log, xs []float64, xa chart.XAxis, mag axis.Magnitude, opts Options) chart.Chart {
	cov := log.MustColumn(telemetry.ColCoverage).Float64s()
	ymax := maxOf(cov)

	var series []chart.Series
	series = append(series, lineSeries(labelCoverage, xs, cov, xa, chart.Style{
		StrokeColor: colorCoverage,
		StrokeWidth: 1.5,
		FillColor:   colorCoverage.WithAlpha(51),
	}))
	if log.Has(telemetry.ColCoverageLower) && log.Has(telemetry.ColCoverageUpper) {
		lower := log.MustColumn(telemetry.ColCoverageLower).Float64s()
		upper := log.MustColumn(telemetry.ColCoverageUpper).Float64s()
		bound := chart.Style{StrokeColor: colorCoverage.WithAlpha(160), StrokeWidth: 1, StrokeDashArray: []float64{4, 3}}
		series = append(series,
			lineSeries("Lower", xs, lower, xa, bound),
			lineSeries("Upper", xs, upper, xa, bound),
		)
		ymax = math.Max(ymax, maxOf(upper))
		logging.Debugf("[render] coverage error bounds present; drawing lower/upper curves")
	}

	scaled := axis.ZeroAnchoredTicks(ymax/mag.Divisor(), opts.YTicks, true)
	vals := make([]float64, len(scaled))
	for i, s := range scaled {
		vals[i] = s * mag.Divisor()
	}
	name := labelCoverage
	if a := mag.Annotation(); a != "" {
		name += " (" + a + ")"
	}

	c := basePanel(xa, opts)
	c.YAxis = chart.YAxis{
		Name:  name,
		Range: &chart.ContinuousRange{Min: 0, Max: vals[len(vals)-1]},
		Ticks: valueTicks(vals, mag.Label),
	}
	c.Series = series
	return c
}

// ratePanel overlays the instantaneous (faint) and running-average (bold) curves.
func ratePanel(xs, inst, avg []float64, xa chart.XAxis, col drawing.Color, opts Options) chart.Chart {
	c := basePanel(xa, opts)
	c.Series = []chart.Series{
		lineSeries(legendInst, xs, inst, xa, chart.Style{StrokeColor: col.WithAlpha(128), StrokeWidth: 1}),
		lineSeries(legendAvg, xs, avg, xa, chart.Style{StrokeColor: col, StrokeWidth: 2.5}),
	}
	return c
}

func perSecondPanel(log *telemetry.Log, xs []float64, xa chart.XAxis, opts Options) chart.Chart {
	inst := log.MustColumn(telemetry.ColRateSecInst).Float64s()
	avg := log.MustColumn(telemetry.ColRateSecAvg).Float64s()
	vals := axis.ZeroAnchoredTicks(maxOf(inst, avg), opts.YTicks, false)

	c := ratePanel(xs, inst, avg, xa, colorPerSec, opts)
	c.YAxis = chart.YAxis{
		Name:  labelPerSec,
		Range: &chart.ContinuousRange{Min: 0, Max: vals[len(vals)-1]},
		Ticks: valueTicks(vals, axis.FormatNumericTick),
	}
	return c
}

// perExecPanel is fixed to 0..100 percent; out-of-range samples are clamped to the frame.
func perExecPanel(log *telemetry.Log, xs []float64, xa chart.XAxis, opts Options) chart.Chart {
	inst := clampPercent(telemetry.ColRateExecInst, log.MustColumn(telemetry.ColRateExecInst).Float64s())
	avg := clampPercent(telemetry.ColRateExecAvg, log.MustColumn(telemetry.ColRateExecAvg).Float64s())

	c := ratePanel(xs, inst, avg, xa, colorPerExec, opts)
	c.YAxis = chart.YAxis{
		Name:  labelPerExec,
		Range: &chart.ContinuousRange{Min: 0, Max: 100},
		Ticks: valueTicks(axis.PercentTicks(), axis.FormatPercentTick),
	}
	return c
}

func clampPercent(name string, vals []float64) []float64 {
	clamped := 0
	for i, v := range vals {
		switch {
		case v < 0:
			vals[i] = 0
			clamped++
		case v > 100:
			vals[i] = 100
			clamped++
		}
	}
	if clamped > 0 {
		logging.Warnf("[render] %s: %d samples outside 0..100%% clamped", name, clamped)
	}
	return vals
}
