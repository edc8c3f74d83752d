package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnreadable wraps the underlying open/read failure.
	ErrUnreadable      = errors.New("unreadable input")
	ErrNoColumns       = errors.New("header has no columns")
	ErrDuplicateColumn = errors.New("duplicate column name in header")
	ErrFieldCount      = errors.New("field count differs from header")
	ErrNotNumeric      = errors.New("field is not numeric")
	ErrMissingColumn   = errors.New("required column missing")

	// ErrEmptyDataset is returned when the header is followed by zero records.
	ErrEmptyDataset = errors.New("telemetry log has no data rows")
)

// IngestionError reports where ingestion failed. Err is one of the sentinels above,
// possibly joined with the underlying cause.
type IngestionError struct {
	Source string
	Line   int // 1-based; 0 when the failure is not tied to a line
	Column string
	Field  string
	Err    error
}

func (e *IngestionError) Error() string {
	var b strings.Builder
	src := e.Source
	if src == "" {
		src = "telemetry"
	}
	b.WriteString(src)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %q", e.Column)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": value %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *IngestionError) Unwrap() error { return e.Err }
