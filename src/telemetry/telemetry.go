// Package telemetry holds the typed, immutable view of an lscov telemetry log.
//
// A log is a header row naming the columns followed by one comma-separated record per
// sampled instant. Columns are addressed by name once loaded; their numeric kind is
// inferred from the whole column before any value is converted.
package telemetry

import (
	"fmt"
	"strings"
)

// Column names written by the lscov daemon.
const (
	ColTime          = "Time"
	ColCoverage      = "Coverage"
	ColRateSecInst   = "RateS(ins)"
	ColRateSecAvg    = "RateS(avg)"
	ColRateExecInst  = "RateE(ins)"
	ColRateExecAvg   = "RateE(avg)"
	ColCoverageLower = "(Lower)"
	ColCoverageUpper = "(Upper)"
	ColDensity       = "Density"
	ColRateExecPer   = "RateE(per)"
)

// StandardColumns are the columns every figure needs.
var StandardColumns = []string{ColTime, ColCoverage, ColRateSecInst, ColRateSecAvg, ColRateExecInst, ColRateExecAvg}

// Kind is the inferred numeric type of a column.
type Kind int

const (
	KindInteger Kind = iota
	KindReal
)

func (k Kind) String() string {
	if k == KindReal {
		return "real"
	}
	return "integer"
}

// Column is one named, homogeneous series.
type Column struct {
	name  string
	kind  Kind
	ints  []int64 // only for KindInteger
	reals []float64
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }
func (c *Column) Len() int     { return len(c.reals) }

// Float64s returns a copy of the column as floats (integer columns are widened).
func (c *Column) Float64s() []float64 {
	out := make([]float64, len(c.reals))
	copy(out, c.reals)
	return out
}

// Int64s returns a copy of an integer column; ok is false for real columns.
func (c *Column) Int64s() (vals []int64, ok bool) {
	if c.kind != KindInteger {
		return nil, false
	}
	out := make([]int64, len(c.ints))
	copy(out, c.ints)
	return out, true
}

// At returns the i-th value as a float.
func (c *Column) At(i int) float64 { return c.reals[i] }

// First and Last rely on the log holding at least one record.
func (c *Column) First() float64 { return c.reals[0] }
func (c *Column) Last() float64  { return c.reals[len(c.reals)-1] }

// LastInt returns the final value truncated toward zero.
func (c *Column) LastInt() int64 {
	if c.kind == KindInteger {
		return c.ints[len(c.ints)-1]
	}
	return int64(c.Last())
}

// Log is an immutable telemetry log. Build it with Parse or Load.
type Log struct {
	source  string
	columns []*Column
	index   map[string]int
	rows    int
}

// Source is the path or label the log was read from.
func (l *Log) Source() string { return l.source }

// Len is the number of records.
func (l *Log) Len() int { return l.rows }

// Names returns the column names in header order.
func (l *Log) Names() []string {
	out := make([]string, len(l.columns))
	for i, c := range l.columns {
		out[i] = c.name
	}
	return out
}

// Column looks a column up by name.
func (l *Log) Column(name string) (*Column, bool) {
	i, ok := l.index[name]
	if !ok {
		return nil, false
	}
	return l.columns[i], true
}

func (l *Log) Has(name string) bool {
	_, ok := l.index[name]
	return ok
}

// MustColumn is Column for names already checked with Require.
func (l *Log) MustColumn(name string) *Column {
	c, ok := l.Column(name)
	if !ok {
		panic(fmt.Sprintf("telemetry: column %q not present (call Require first)", name))
	}
	return c
}

// Require reports an IngestionError naming every missing column.
func (l *Log) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if !l.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &IngestionError{
		Source: l.source,
		Column: strings.Join(missing, ","),
		Err:    ErrMissingColumn,
	}
}
