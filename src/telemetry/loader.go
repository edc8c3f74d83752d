package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lscov/covfig/src/logging"
)

// MaxLineBytes caps a single record; lscov rows are a few dozen bytes.
const MaxLineBytes = 1 << 20

type rawRow struct {
	line   int
	fields []string
}

// Load opens path, parses it and releases the handle before returning.
func Load(path string) (*Log, error) {
	defer logging.TimeTrack(time.Now(), "[loader] load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, &IngestionError{Source: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	defer f.Close()
	return parse(f, path)
}

// Parse reads a telemetry log from r. source labels errors and the resulting Log.
func Parse(r io.Reader, source string) (*Log, error) {
	return parse(r, source)
}

func parse(r io.Reader, source string) (*Log, error) {
	header, rows, err := readRows(r, source)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyDataset)
	}

	// Classify every column over the full dataset before converting anything, so a
	// decimal value late in the file still makes the whole column real.
	kinds := make([]Kind, len(header))
	for _, row := range rows {
		for i, field := range row.fields {
			if strings.Contains(field, ".") {
				kinds[i] = KindReal
			}
		}
	}

	log := &Log{
		source:  source,
		columns: make([]*Column, len(header)),
		index:   make(map[string]int, len(header)),
		rows:    len(rows),
	}
	for i, name := range header {
		col := &Column{name: name, kind: kinds[i], reals: make([]float64, len(rows))}
		if col.kind == KindInteger {
			col.ints = make([]int64, len(rows))
		}
		for j, row := range rows {
			field := row.fields[i]
			if col.kind == KindInteger {
				v, perr := strconv.ParseInt(field, 10, 64)
				if perr != nil {
					return nil, notNumeric(source, row.line, name, field, perr)
				}
				col.ints[j] = v
				col.reals[j] = float64(v)
				continue
			}
			v, perr := strconv.ParseFloat(field, 64)
			if perr == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				perr = errors.New("non-finite value")
			}
			if perr != nil {
				return nil, notNumeric(source, row.line, name, field, perr)
			}
			col.reals[j] = v
		}
		log.columns[i] = col
		log.index[name] = i
	}
	logging.Debugf("[loader] %s: %d rows, columns=%s", source, log.rows, describeKinds(log))
	return log, nil
}

// readRows splits the input into a trimmed header and field-count checked records.
func readRows(r io.Reader, source string) ([]string, []rawRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	var header []string
	var rows []rawRow
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := splitFields(line)
		if header == nil {
			if err := checkHeader(fields, source, lineNo); err != nil {
				return nil, nil, err
			}
			header = fields
			continue
		}
		if len(fields) != len(header) {
			return nil, nil, &IngestionError{
				Source: source,
				Line:   lineNo,
				Err:    fmt.Errorf("%w: got %d fields, header has %d", ErrFieldCount, len(fields), len(header)),
			}
		}
		rows = append(rows, rawRow{line: lineNo, fields: fields})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, &IngestionError{Source: source, Line: lineNo + 1, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	if header == nil {
		return nil, nil, &IngestionError{Source: source, Err: ErrNoColumns}
	}
	return header, rows, nil
}

func checkHeader(fields []string, source string, lineNo int) error {
	seen := make(map[string]bool, len(fields))
	for _, name := range fields {
		if name == "" {
			return &IngestionError{Source: source, Line: lineNo, Err: ErrNoColumns}
		}
		if seen[name] {
			return &IngestionError{Source: source, Line: lineNo, Column: name, Err: ErrDuplicateColumn}
		}
		seen[name] = true
	}
	return nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func notNumeric(source string, line int, column, field string, cause error) error {
	return &IngestionError{
		Source: source,
		Line:   line,
		Column: column,
		Field:  field,
		Err:    fmt.Errorf("%w: %w", ErrNotNumeric, cause),
	}
}

func describeKinds(l *Log) string {
	parts := make([]string, len(l.columns))
	for i, c := range l.columns {
		parts[i] = c.name + ":" + c.kind.String()
	}
	return strings.Join(parts, " ")
}
