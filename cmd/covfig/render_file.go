package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lscov/covfig/src/render"
)

// writeFigure renders headlessly into memory and writes path in one go,
// so a failed render never leaves a truncated file behind.
func writeFigure(fig *render.Figure, path string, format render.Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := fig.Render(&buf, format); err != nil {
		return fmt.Errorf("%s encode %s: %w", format, path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
