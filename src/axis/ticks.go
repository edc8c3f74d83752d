// Package axis chooses readable axis units for coverage figures: a power-of-1000
// magnitude for coverage counts, a display unit and tick interval for elapsed time,
// and zero-anchored "nice" value ticks for the y axes.
package axis

import (
	"math"
	"strconv"
)

// pow10Floor returns 10^floor(log10(x)) safeguarding tiny values.
func pow10Floor(x float64) float64 {
	if x <= 0 {
		return 1
	}
	return math.Pow(10, math.Floor(math.Log10(x)))
}

// round6 rounds to 6 decimal places to stabilize tick values and labels.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// niceStep normalizes a raw step to the 1, 2, 2.5, 5 x 10^k pattern. Integral steps
// skip 2.5 and never go below 1.
func niceStep(raw float64, integral bool) float64 {
	if !(raw > 0) {
		return 1
	}
	mag := pow10Floor(raw)
	norm := raw / mag
	var step float64
	switch {
	case norm <= 1:
		step = mag
	case norm <= 2:
		step = 2 * mag
	case norm <= 2.5 && !integral:
		step = 2.5 * mag
	case norm <= 5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	if integral && step < 1 {
		step = 1
	}
	return step
}

// ZeroAnchoredTicks returns about n evenly spaced ticks from 0 up to the first step
// boundary at or above max. The last tick is the axis upper bound. A non-positive max
// is treated as a one-step range.
func ZeroAnchoredTicks(max float64, n int, integral bool) []float64 {
	if n < 2 {
		n = 2
	}
	if !(max > 0) || math.IsInf(max, 0) {
		max = 1
	}
	step := niceStep(max/float64(n-1), integral)
	steps := math.Ceil(round6(max / step))
	if steps < 1 {
		steps = 1
	}
	out := make([]float64, 0, int(steps)+1)
	for i := 0.0; i <= steps; i++ {
		out = append(out, round6(i*step))
	}
	return out
}

// PercentTicks is the fixed 0..100 scale in steps of 20.
func PercentTicks() []float64 {
	return []float64{0, 20, 40, 60, 80, 100}
}

// FormatPercentTick renders a percent tick without decimals, e.g. "40%".
func FormatPercentTick(v float64) string {
	return strconv.FormatFloat(math.Round(v), 'f', 0, 64) + "%"
}

// FormatNumericTick provides a compact label whose precision shrinks as the value grows.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
