// Package config loads the optional YAML file that tunes axis selection and figure
// geometry. Command-line flags override whatever the file sets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lscov/covfig/src/axis"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// FigureConfig sizes a single panel; the composed figure is three panels wide.
type FigureConfig struct {
	PanelWidth  int `yaml:"panel_width"`
	PanelHeight int `yaml:"panel_height"`
	// DPI scales fonts and strokes of the rendered panels.
	DPI float64 `yaml:"dpi"`
	// YTicks is the desired tick count on auto-fitted y axes.
	YTicks int `yaml:"y_ticks"`
}

// Config is the whole file.
type Config struct {
	Axis   axis.Config  `yaml:"axis"`
	Figure FigureConfig `yaml:"figure"`
}

// Default matches the proportions of the original three-panel layout (10 x 2.6 in).
func Default() Config {
	return Config{
		Axis: axis.DefaultConfig(),
		Figure: FigureConfig{
			PanelWidth:  480,
			PanelHeight: 420,
			DPI:         96,
			YTicks:      6,
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Decode(bytes.NewReader(b))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML on top of Default and validates the result. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Axis.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	f := c.Figure
	if f.PanelWidth < 160 || f.PanelHeight < 120 {
		return fmt.Errorf("%w: panel size %dx%d below 160x120", ErrInvalid, f.PanelWidth, f.PanelHeight)
	}
	if f.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %v", ErrInvalid, f.DPI)
	}
	if f.YTicks < 2 {
		return fmt.Errorf("%w: y_ticks must be >= 2, got %d", ErrInvalid, f.YTicks)
	}
	return nil
}
