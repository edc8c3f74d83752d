package axis

import (
	"math"
	"strconv"
)

// Magnitude is a power-of-1000 divisor for the coverage axis.
type Magnitude struct {
	// Exponent is a non-negative multiple of 3.
	Exponent int
}

// SelectMagnitude picks the exponent from the final coverage value: k grows by 3 for
// every division by 1000 that still leaves a positive quotient. Zero and negative
// inputs give k = 0.
func SelectMagnitude(final int64) Magnitude {
	k := 0
	for v := final / 1000; v > 0; v /= 1000 {
		k += 3
	}
	return Magnitude{Exponent: k}
}

// Divisor returns 10^Exponent.
func (m Magnitude) Divisor() float64 {
	return math.Pow10(m.Exponent)
}

// Scale divides v by the divisor and truncates toward zero.
func (m Magnitude) Scale(v float64) int64 {
	return int64(math.Trunc(v / m.Divisor()))
}

// Label is the tick label for a raw coverage value.
func (m Magnitude) Label(v float64) string {
	return strconv.FormatInt(m.Scale(v), 10)
}

// Annotation is "×10^k", or empty when no scaling applies.
func (m Magnitude) Annotation() string {
	if m.Exponent <= 0 {
		return ""
	}
	return "×10^" + strconv.Itoa(m.Exponent)
}
