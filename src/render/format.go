package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the encoding of a persisted figure.
type Format int

const (
	FormatPNG Format = iota
	FormatSVG
)

func (f Format) String() string {
	if f == FormatSVG {
		return "svg"
	}
	return "png"
}

// ParseFormat accepts "png" or "svg" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return FormatPNG, fmt.Errorf("unsupported output format %q (want png|svg)", s)
	}
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatPNG, fmt.Errorf("cannot infer output format from %q; pass --format", path)
	}
	return ParseFormat(ext)
}
