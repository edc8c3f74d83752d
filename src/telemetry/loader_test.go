package telemetry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioLog = "Time,Coverage,RateS(ins),RateS(avg),RateE(ins),RateE(avg)\n" +
	"0,0,0.0,0.0,0.0,0.0\n" +
	"3600,50000,10.5,8.2,5.0,4.1\n"

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lscov.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp log: %v", err)
	}
	return path
}

func TestLoadScenarioInfersKinds(t *testing.T) {
	log, err := Load(writeTemp(t, scenarioLog))
	require.NoError(t, err)
	require.NoError(t, log.Require(StandardColumns...))

	assert.Equal(t, 2, log.Len())
	assert.Equal(t, StandardColumns, log.Names())

	want := map[string]Kind{
		ColTime:         KindInteger,
		ColCoverage:     KindInteger,
		ColRateSecInst:  KindReal,
		ColRateSecAvg:   KindReal,
		ColRateExecInst: KindReal,
		ColRateExecAvg:  KindReal,
	}
	for name, kind := range want {
		assert.Equalf(t, kind, log.MustColumn(name).Kind(), "column %s", name)
	}

	cov := log.MustColumn(ColCoverage)
	ints, ok := cov.Int64s()
	require.True(t, ok)
	assert.Equal(t, []int64{0, 50000}, ints)
	assert.Equal(t, int64(50000), cov.LastInt())
	assert.Equal(t, 3600.0, log.MustColumn(ColTime).Last())
	assert.Equal(t, []float64{0, 10.5}, log.MustColumn(ColRateSecInst).Float64s())
}

func TestDecimalInLastRowMakesColumnReal(t *testing.T) {
	in := "Time,Coverage\n0,1\n10,2\n20,3\n30,4.5\n"
	log, err := Parse(strings.NewReader(in), "late-decimal")
	require.NoError(t, err)

	cov := log.MustColumn(ColCoverage)
	assert.Equal(t, KindReal, cov.Kind())
	assert.Equal(t, []float64{1, 2, 3, 4.5}, cov.Float64s())
	_, ok := cov.Int64s()
	assert.False(t, ok, "real column must not expose integer values")

	assert.Equal(t, KindInteger, log.MustColumn(ColTime).Kind())
}

func TestIntegralOnlyColumnStaysInteger(t *testing.T) {
	log, err := Parse(strings.NewReader("A,B\n1,-2\n3,4\n"), "ints")
	require.NoError(t, err)
	for _, name := range []string{"A", "B"} {
		assert.Equal(t, KindInteger, log.MustColumn(name).Kind())
	}
	b, _ := log.MustColumn("B").Int64s()
	assert.Equal(t, []int64{-2, 4}, b)
}

func TestRejectsFieldCountMismatch(t *testing.T) {
	in := "Time,Coverage,RateS(ins)\n0,0,0.0\n10,5\n"
	_, err := Parse(strings.NewReader(in), "short-row")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldCount), "got %v", err)

	var ie *IngestionError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 3, ie.Line)
	assert.Contains(t, err.Error(), "short-row:3")
}

func TestRejectsNonNumericField(t *testing.T) {
	cases := []struct {
		name, in, column string
	}{
		{"word in integer column", "Time,Coverage\n0,abc\n", ColCoverage},
		{"exponent without dot", "Time,Coverage\n1e3,0\n", ColTime},
		{"empty cell", "Time,Coverage\n0,\n", ColCoverage},
		{"word in real column", "Time,Rate\n0,1.5\n1,fast\n", "Rate"},
		{"non-finite real", "Time,Rate\n0,1.5\n1,NaN\n", "Rate"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(c.in), "bad")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotNumeric), "got %v", err)
			var ie *IngestionError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, c.column, ie.Column)
		})
	}
}

func TestEmptyDatasetAndHeaderErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("Time,Coverage\n"), "header-only")
	assert.True(t, errors.Is(err, ErrEmptyDataset), "got %v", err)

	_, err = Parse(strings.NewReader("\n\n"), "blank")
	assert.True(t, errors.Is(err, ErrNoColumns), "got %v", err)

	_, err = Parse(strings.NewReader(",\n1,2\n"), "nameless")
	assert.True(t, errors.Is(err, ErrNoColumns), "got %v", err)

	_, err = Parse(strings.NewReader("Time,Time\n1,2\n"), "dup")
	assert.True(t, errors.Is(err, ErrDuplicateColumn), "got %v", err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRequireNamesMissingColumns(t *testing.T) {
	log, err := Parse(strings.NewReader("Time,Coverage\n0,0\n"), "partial")
	require.NoError(t, err)
	err = log.Require(StandardColumns...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "RateS(ins)")
	assert.NotContains(t, err.Error(), "\"Time")
}

func TestOptionalDaemonColumnsAreCarried(t *testing.T) {
	in := "Time,Coverage,(Lower),(Upper),Density,RateS(ins),RateE(per),RateS(avg),RateE(avg),RateE(ins)\n" +
		"0,10,9,11,0.01,1,0.50,1,0.50,0.5\n" +
		" 10 , 20 ,18,22,0.02,2,0.25,1,0.40,0.25\n\n"
	log, err := Parse(strings.NewReader(in), "daemon")
	require.NoError(t, err)
	require.NoError(t, log.Require(StandardColumns...))
	assert.True(t, log.Has(ColCoverageLower))
	assert.Equal(t, 2, log.Len())
	assert.Equal(t, 20.0, log.MustColumn(ColCoverage).Last())
	assert.Equal(t, KindReal, log.MustColumn(ColDensity).Kind())
}

func TestAccessorsReturnCopies(t *testing.T) {
	log, err := Parse(strings.NewReader(scenarioLog), "copies")
	require.NoError(t, err)
	col := log.MustColumn(ColTime)
	vals := col.Float64s()
	vals[0] = 999
	assert.Equal(t, 0.0, col.First())
	names := log.Names()
	names[0] = "mutated"
	assert.True(t, log.Has(ColTime))
}
