// Command covfig renders an lscov coverage telemetry log as a three-panel figure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lscov/covfig/src/config"
	"github.com/lscov/covfig/src/logging"
	"github.com/lscov/covfig/src/metrics"
	"github.com/lscov/covfig/src/render"
	"github.com/lscov/covfig/src/telemetry"
	"github.com/lscov/covfig/src/viewer"
)

type opts struct {
	out             string
	format          string
	show            bool
	configPath      string
	threshold       int
	width           int
	height          int
	caption         bool
	logLevel        string
	metricsTextfile string
}

// showFunc is swapped in tests.
var showFunc = viewer.Show

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Errorf("[covfig] %v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o opts
	root := &cobra.Command{
		Use:   "covfig [flags] <telemetry.csv>",
		Short: "Render an lscov coverage telemetry log",
		Long: `covfig loads the comma-separated telemetry log written by the lscov
coverage daemon and draws three side-by-side panels: total coverage,
new coverage per second and new coverage per execution.

Examples:
  covfig lscov.csv
  covfig --out run42.png --caption lscov.csv
  covfig --out run42.svg --threshold 2 --metrics-textfile /var/lib/node_exporter/covfig.prom lscov.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args[0])
		},
	}

	f := root.Flags()
	f.StringVarP(&o.out, "out", "o", "", "write the figure to this file instead of opening a window")
	f.StringVar(&o.format, "format", "", "output format png|svg (default: from --out extension)")
	f.BoolVar(&o.show, "show", false, "open the interactive window (default when --out is empty)")
	f.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	f.IntVar(&o.threshold, "threshold", 0, "maximum number of time ticks (overrides config)")
	f.IntVar(&o.width, "width", 0, "panel width in pixels (overrides config)")
	f.IntVar(&o.height, "height", 0, "panel height in pixels (overrides config)")
	f.BoolVar(&o.caption, "caption", false, "draw the input name and run summary under the panels")
	f.StringVar(&o.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	f.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write run metrics in Prometheus textfile format")
	return root
}

func run(cmd *cobra.Command, o opts, input string) error {
	if err := logging.SetLogLevel(o.logLevel); err != nil {
		return err
	}
	if o.format != "" && o.out == "" {
		return fmt.Errorf("--format %s needs --out", o.format)
	}
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}

	start := time.Now()
	log, err := telemetry.Load(input)
	if err != nil {
		return err
	}

	ropts := render.Options{
		PanelWidth:  cfg.Figure.PanelWidth,
		PanelHeight: cfg.Figure.PanelHeight,
		DPI:         cfg.Figure.DPI,
		YTicks:      cfg.Figure.YTicks,
	}
	if o.caption {
		ropts.Caption = filepath.Base(input)
	}
	fig, err := render.Build(log, cfg.Axis, ropts)
	if err != nil {
		return fmt.Errorf("build figure: %w", err)
	}
	logging.Infof("[covfig] %s: %s", input, fig.Summary())

	show := o.show || o.out == ""
	if o.out != "" {
		format, err := outputFormat(o)
		if err != nil {
			return err
		}
		if err := writeFigure(fig, o.out, format); err != nil {
			return err
		}
		logging.Infof("[covfig] wrote %s (%s)", o.out, format)
	}
	if o.metricsTextfile != "" {
		if err := writeMetrics(o.metricsTextfile, input, log, fig, time.Since(start)); err != nil {
			return err
		}
	}
	if !show {
		return nil
	}
	raster, err := fig.Image()
	if err != nil {
		return fmt.Errorf("render figure: %w", err)
	}
	showFunc(viewer.Figure{
		Title:   "covfig – " + filepath.Base(input),
		Summary: fig.Summary(),
		Image:   raster,
		Source:  input,
	})
	return nil
}

// loadConfig reads --config and applies flag overrides that were set explicitly.
func loadConfig(cmd *cobra.Command, o opts) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Axis.TickThreshold = o.threshold
	}
	if flags.Changed("width") {
		cfg.Figure.PanelWidth = o.width
	}
	if flags.Changed("height") {
		cfg.Figure.PanelHeight = o.height
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func outputFormat(o opts) (render.Format, error) {
	if o.format != "" {
		return render.ParseFormat(o.format)
	}
	return render.FormatFromPath(o.out)
}

func writeMetrics(path, input string, log *telemetry.Log, fig *render.Figure, took time.Duration) error {
	rec := metrics.NewRecorder()
	rec.Observe(metrics.Run{
		Source:              filepath.Base(input),
		Rows:                log.Len(),
		FinalCoverage:       log.MustColumn(telemetry.ColCoverage).LastInt(),
		SpanSeconds:         fig.Time.Span(),
		ScaleExponent:       fig.Magnitude.Exponent,
		TickIntervalSeconds: int(fig.Time.IntervalSeconds),
		RenderDuration:      took,
		Finished:            time.Now(),
	})
	return rec.WriteTextfile(path)
}
