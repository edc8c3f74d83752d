package axis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Unit is a time-axis display unit.
type Unit int

const (
	Seconds Unit = iota
	Minutes
	Hours
)

// Seconds is the length of one unit in seconds.
func (u Unit) Seconds() float64 {
	switch u {
	case Minutes:
		return 60
	case Hours:
		return 3600
	default:
		return 1
	}
}

// String is the short label used in axis names.
func (u Unit) String() string {
	switch u {
	case Minutes:
		return "min"
	case Hours:
		return "hr"
	default:
		return "sec"
	}
}

// Spans above these pick the starting display unit.
const (
	minuteScaleSpan = 4 * 60
	hourScaleSpan   = 4 * 60 * 60
)

// DefaultTickThreshold is the largest tick count a time axis may carry.
const DefaultTickThreshold = 3

// ErrInvalidConfig is wrapped by every Config and Progression validation failure.
var ErrInvalidConfig = errors.New("invalid axis config")

// Progression is the ordered table of candidate tick intervals, one list per unit.
// After the last hour entry the table continues in whole-hour steps, so every span
// has a next candidate.
type Progression struct {
	Seconds []int `yaml:"seconds"`
	Minutes []int `yaml:"minutes"`
	Hours   []int `yaml:"hours"`
}

// DefaultProgression is the nice-number table: 1-2-5 seconds, the clock-friendly minute
// divisions, then whole hours.
func DefaultProgression() Progression {
	return Progression{
		Seconds: []int{1, 2, 5, 10, 20, 50},
		Minutes: []int{1, 2, 3, 4, 5, 6, 10, 12, 15, 18, 24, 30, 45},
		Hours:   []int{1},
	}
}

func (p Progression) empty() bool {
	return len(p.Seconds) == 0 && len(p.Minutes) == 0 && len(p.Hours) == 0
}

// Validate checks that each list is strictly increasing, positive and stays below the
// next unit, which keeps the whole table monotonic in seconds.
func (p Progression) Validate() error {
	check := func(u Unit, vals []int, limit int) error {
		prev := 0
		for _, v := range vals {
			if v <= prev {
				return fmt.Errorf("%w: %s progression must be strictly increasing and positive, got %v", ErrInvalidConfig, u, vals)
			}
			if limit > 0 && v >= limit {
				return fmt.Errorf("%w: %s progression entry %d must be below %d", ErrInvalidConfig, u, v, limit)
			}
			prev = v
		}
		return nil
	}
	if err := check(Seconds, p.Seconds, 60); err != nil {
		return err
	}
	if err := check(Minutes, p.Minutes, 60); err != nil {
		return err
	}
	return check(Hours, p.Hours, 0)
}

type candidate struct {
	unit  Unit
	count int
}

func (c candidate) seconds() float64 { return float64(c.count) * c.unit.Seconds() }

// table flattens the progression in ascending order of seconds.
func (p Progression) table() []candidate {
	out := make([]candidate, 0, len(p.Seconds)+len(p.Minutes)+len(p.Hours))
	for _, v := range p.Seconds {
		out = append(out, candidate{Seconds, v})
	}
	for _, v := range p.Minutes {
		out = append(out, candidate{Minutes, v})
	}
	for _, v := range p.Hours {
		out = append(out, candidate{Hours, v})
	}
	return out
}

// Config tunes the time-unit search.
type Config struct {
	TickThreshold int         `yaml:"tick_threshold"`
	Progression   Progression `yaml:"progression"`
}

// DefaultConfig returns threshold 3 with the default progression.
func DefaultConfig() Config {
	return Config{TickThreshold: DefaultTickThreshold, Progression: DefaultProgression()}
}

func (c Config) Validate() error {
	if c.TickThreshold < 1 {
		return fmt.Errorf("%w: tick_threshold must be >= 1, got %d", ErrInvalidConfig, c.TickThreshold)
	}
	return c.Progression.Validate()
}

// TimeAxis is the selector's answer: display unit, tick spacing and the data range.
type TimeAxis struct {
	Unit            Unit
	UnitSeconds     float64
	Interval        int // in display units
	IntervalSeconds float64
	Ticks           int // floor(span / IntervalSeconds)
	Min, Max        float64
}

// Span is Max - Min.
func (a TimeAxis) Span() float64 { return a.Max - a.Min }

// Name is the axis title, e.g. "Time (min)".
func (a TimeAxis) Name() string { return "Time (" + a.Unit.String() + ")" }

// Label renders a time value as whole display units, floored.
func (a TimeAxis) Label(v float64) string {
	f := math.Floor(v / a.UnitSeconds)
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}

// TickValues returns every multiple of the interval inside [lo, hi]. Once the
// multiples stop being distinct floats (offsets far beyond 2^53 intervals) it stops.
func (a TimeAxis) TickValues(lo, hi float64) []float64 {
	if !(a.IntervalSeconds > 0) || hi < lo {
		return nil
	}
	var out []float64
	for i := math.Ceil(lo / a.IntervalSeconds); ; i++ {
		v := i * a.IntervalSeconds
		if v > hi+1e-9 || (len(out) > 0 && v <= out[len(out)-1]) {
			break
		}
		out = append(out, v)
	}
	return out
}

// preselectUnit is the starting display unit for a span.
func preselectUnit(span float64) Unit {
	switch {
	case span > hourScaleSpan:
		return Hours
	case span > minuteScaleSpan:
		return Minutes
	default:
		return Seconds
	}
}

// SelectTimeAxis walks the progression from the smallest candidate and stops at the
// first one that is not finer than the pre-selected unit and yields at most
// cfg.TickThreshold ticks over tmax - tmin. A zero span stops at the first eligible
// candidate. Zero-valued config fields fall back to the defaults.
func SelectTimeAxis(tmin, tmax float64, cfg Config) TimeAxis {
	span := tmax - tmin
	if !(span > 0) {
		span = 0
	}
	if math.IsInf(span, 1) {
		span = math.MaxFloat64
	}
	threshold := cfg.TickThreshold
	if threshold < 1 {
		threshold = DefaultTickThreshold
	}
	prog := cfg.Progression
	if prog.empty() {
		prog = DefaultProgression()
	}
	active := preselectUnit(span)

	accept := func(c candidate) (TimeAxis, bool) {
		secs := c.seconds()
		ticks := math.Floor(span / secs)
		if ticks > float64(threshold) {
			return TimeAxis{}, false
		}
		return TimeAxis{
			Unit:            c.unit,
			UnitSeconds:     c.unit.Seconds(),
			Interval:        c.count,
			IntervalSeconds: secs,
			Ticks:           int(ticks),
			Min:             tmin,
			Max:             tmin + span,
		}, true
	}

	lastHour := 0
	for _, c := range prog.table() {
		if c.unit == Hours {
			lastHour = c.count
		}
		if c.unit < active {
			continue
		}
		if ta, ok := accept(c); ok {
			return ta
		}
	}

	// Whole-hour tail: the smallest n > lastHour with floor(span / n h) <= threshold is
	// floor(span / ((threshold+1) h)) + 1. It is computed in float64 because spans the
	// loader accepts can put n far beyond the int range.
	n := math.Max(float64(lastHour+1), math.Floor(span/(3600*float64(threshold+1)))+1)
	for i := 0; i < 2; i++ {
		if math.Floor(span/(n*3600)) <= float64(threshold) {
			break
		}
		next := n + 1
		if next == n {
			next = math.Nextafter(n, math.Inf(1))
		}
		n = next
	}
	secs := n * 3600
	return TimeAxis{
		Unit:            Hours,
		UnitSeconds:     Hours.Seconds(),
		Interval:        saturatingInt(n),
		IntervalSeconds: secs,
		Ticks:           int(math.Floor(span / secs)),
		Min:             tmin,
		Max:             tmin + span,
	}
}

// saturatingInt converts a whole, non-negative float to int, clamping at math.MaxInt.
func saturatingInt(f float64) int {
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}
