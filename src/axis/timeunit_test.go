package axis

import (
	"errors"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSelectTimeAxisTable(t *testing.T) {
	cases := []struct {
		name     string
		tmax     float64
		unit     Unit
		interval int
		ticks    int
	}{
		{"single instant", 0, Seconds, 1, 0},
		{"three seconds", 3, Seconds, 1, 3},
		{"ten seconds", 10, Seconds, 5, 2},
		{"exactly four minutes", 240, Minutes, 2, 2},
		{"one hour", 3600, Minutes, 18, 3},
		{"exactly four hours", 4 * 3600, Hours, 2, 2},
		{"one day", 24 * 3600, Hours, 7, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ta := SelectTimeAxis(0, c.tmax, DefaultConfig())
			if ta.Unit != c.unit || ta.Interval != c.interval || ta.Ticks != c.ticks {
				t.Fatalf("tmax=%v => unit=%s interval=%d ticks=%d, want unit=%s interval=%d ticks=%d",
					c.tmax, ta.Unit, ta.Interval, ta.Ticks, c.unit, c.interval, c.ticks)
			}
			if ta.IntervalSeconds != float64(ta.Interval)*ta.UnitSeconds {
				t.Fatalf("interval seconds %v inconsistent with %d %s", ta.IntervalSeconds, ta.Interval, ta.Unit)
			}
		})
	}
}

func TestSelectTimeAxisHugeSpans(t *testing.T) {
	for _, span := range []float64{1e20, 1e23, 1e300, math.MaxFloat64} {
		done := make(chan TimeAxis, 1)
		go func() { done <- SelectTimeAxis(0, span, DefaultConfig()) }()
		select {
		case ta := <-done:
			if ta.Unit != Hours || ta.Ticks > DefaultTickThreshold || ta.Ticks < 0 {
				t.Fatalf("span=%g => unit=%s ticks=%d", span, ta.Unit, ta.Ticks)
			}
			if !(ta.IntervalSeconds > 0) || math.IsInf(ta.IntervalSeconds, 0) || ta.Interval < 1 {
				t.Fatalf("span=%g => interval=%d (%gs)", span, ta.Interval, ta.IntervalSeconds)
			}
			if len(ta.TickValues(ta.Min, ta.Max)) > DefaultTickThreshold+1 {
				t.Fatalf("span=%g => too many tick values", span)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("span=%g: selector did not return", span)
		}
	}
}

func TestTickValuesFarFromOrigin(t *testing.T) {
	ta := SelectTimeAxis(1e300, 1e300+10, DefaultConfig())
	done := make(chan []float64, 1)
	go func() { done <- ta.TickValues(1e300, 1e300+10) }()
	select {
	case vals := <-done:
		if len(vals) > 1 {
			t.Fatalf("expected at most one distinct tick, got %d", len(vals))
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("TickValues did not return")
	}
}

func TestSelectTimeAxisTailMatchesScan(t *testing.T) {
	// the closed-form hour count must equal the smallest admissible count found by scanning
	for _, span := range []float64{4*3600 + 1, 86400, 1000 * 3600, 123456789} {
		ta := SelectTimeAxis(0, span, DefaultConfig())
		n := 2
		for math.Floor(span/float64(n*3600)) > DefaultTickThreshold {
			n++
		}
		if ta.Interval != n {
			t.Fatalf("span=%v => %d hr, scan gives %d", span, ta.Interval, n)
		}
	}
}

func TestSelectTimeAxisUsesTrueSpan(t *testing.T) {
	shifted := SelectTimeAxis(1000, 1010, DefaultConfig())
	if shifted.Unit != Seconds || shifted.Interval != 5 {
		t.Fatalf("span 10 offset by 1000 => %s %d", shifted.Unit, shifted.Interval)
	}
	if got := shifted.TickValues(shifted.Min, shifted.Max); len(got) != 3 || got[0] != 1000 || got[2] != 1010 {
		t.Fatalf("tick values = %v", got)
	}
}

func TestSelectTimeAxisSingleInstant(t *testing.T) {
	ta := SelectTimeAxis(0, 0, DefaultConfig())
	if ta.IntervalSeconds <= 0 || ta.Ticks != 0 || ta.Span() != 0 {
		t.Fatalf("zero span produced %+v", ta)
	}
	if got := ta.TickValues(0, 0); len(got) != 1 || got[0] != 0 {
		t.Fatalf("tick values for zero span = %v", got)
	}
	// A backwards range is clamped to zero span rather than producing negative counts.
	if back := SelectTimeAxis(50, 10, DefaultConfig()); back.Ticks != 0 || back.Span() != 0 {
		t.Fatalf("reversed range => %+v", back)
	}
}

func TestThresholdTwo(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickThreshold = 2
	ta := SelectTimeAxis(0, 3600, cfg)
	if ta.Unit != Minutes || ta.Interval != 24 || ta.Ticks != 2 {
		t.Fatalf("threshold 2, one hour => %s %d ticks=%d", ta.Unit, ta.Interval, ta.Ticks)
	}
}

func TestZeroConfigFallsBackToDefaults(t *testing.T) {
	got := SelectTimeAxis(0, 3600, Config{})
	want := SelectTimeAxis(0, 3600, DefaultConfig())
	if got != want {
		t.Fatalf("zero config %+v != default %+v", got, want)
	}
}

func TestCustomHourTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Progression.Hours = []int{1, 2, 3, 4, 6, 8, 12, 24}
	ta := SelectTimeAxis(0, 24*3600, cfg)
	if ta.Unit != Hours || ta.Interval != 8 {
		t.Fatalf("one day with custom hours => %s %d", ta.Unit, ta.Interval)
	}
	// Past the end of the table the whole-hour tail takes over.
	long := SelectTimeAxis(0, 1000*3600, cfg)
	if long.Unit != Hours || long.Interval != 251 || long.Ticks != 3 {
		t.Fatalf("1000h => %s %d ticks=%d", long.Unit, long.Interval, long.Ticks)
	}
}

func TestTimeAxisLabels(t *testing.T) {
	ta := SelectTimeAxis(0, 3600, DefaultConfig())
	if ta.Name() != "Time (min)" {
		t.Fatalf("name = %q", ta.Name())
	}
	for v, want := range map[float64]string{0: "0", 59: "0", 1080: "18", 3599: "59"} {
		if got := ta.Label(v); got != want {
			t.Fatalf("Label(%v) = %q want %q", v, got, want)
		}
	}
	vals := ta.TickValues(0, 3600)
	want := []float64{0, 1080, 2160, 3240}
	if len(vals) != len(want) {
		t.Fatalf("tick values = %v want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Fatalf("tick values = %v want %v", vals, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := []Config{
		{TickThreshold: 0, Progression: DefaultProgression()},
		{TickThreshold: 3, Progression: Progression{Seconds: []int{1, 5, 2}}},
		{TickThreshold: 3, Progression: Progression{Seconds: []int{0, 1}}},
		{TickThreshold: 3, Progression: Progression{Seconds: []int{1, 60}}},
		{TickThreshold: 3, Progression: Progression{Minutes: []int{30, 90}}},
		{TickThreshold: 3, Progression: Progression{Hours: []int{2, 2}}},
	}
	for i, c := range bad {
		if err := c.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
}

func TestSelectTimeAxisProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("terminates within the tick threshold", prop.ForAll(
		func(span float64, threshold int) bool {
			cfg := DefaultConfig()
			cfg.TickThreshold = threshold
			ta := SelectTimeAxis(0, span, cfg)
			return ta.Ticks <= threshold && ta.IntervalSeconds > 0 && ta.Interval >= 1
		},
		gen.Float64Range(0, 90*24*3600),
		gen.IntRange(1, 6),
	))

	properties.Property("terminates within the tick threshold for any magnitude", prop.ForAll(
		func(span float64) bool {
			ta := SelectTimeAxis(0, span, DefaultConfig())
			return ta.Ticks <= DefaultTickThreshold && ta.IntervalSeconds > 0 && ta.Interval >= 1
		},
		gen.Float64Range(0, 300).Map(func(e float64) float64 { return math.Pow(10, e) }),
	))

	properties.Property("coarseness never decreases as the span grows", prop.ForAll(
		func(a, b float64, threshold int) bool {
			spans := []float64{a, b}
			sort.Float64s(spans)
			cfg := DefaultConfig()
			cfg.TickThreshold = threshold
			short := SelectTimeAxis(0, spans[0], cfg)
			long := SelectTimeAxis(0, spans[1], cfg)
			return short.Unit <= long.Unit && short.IntervalSeconds <= long.IntervalSeconds
		},
		gen.Float64Range(0, 30*24*3600),
		gen.Float64Range(0, 30*24*3600),
		gen.IntRange(2, 3),
	))

	properties.Property("labels are whole display units", prop.ForAll(
		func(span float64) bool {
			ta := SelectTimeAxis(0, span, DefaultConfig())
			for _, v := range ta.TickValues(ta.Min, ta.Max) {
				if ta.Label(v) != ta.Label(v+0.5) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 7*24*3600),
	))

	properties.TestingRun(t)
}
