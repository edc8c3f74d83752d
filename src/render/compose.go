package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lscov/covfig/src/logging"
)

const captionHeight = 22

// panel returns a render-ready copy of panel i. The rate panels get their "Inst"/"Avg"
// legend here so the legend is bound to the copy being rendered.
func (f *Figure) panel(i int) *chart.Chart {
	c := f.Panels[i]
	if i != PanelCoverage {
		c.Elements = []chart.Renderable{chart.Legend(&c)}
	}
	return &c
}

// Render encodes the composed figure to w.
func (f *Figure) Render(w io.Writer, format Format) error {
	switch format {
	case FormatSVG:
		return f.renderSVG(w)
	default:
		img, err := f.Image()
		if err != nil {
			return err
		}
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("png encode: %w", err)
		}
		return nil
	}
}

// Image rasterizes the panels side by side, plus the caption strip when set.
func (f *Figure) Image() (image.Image, error) {
	w, h := f.Size()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)

	for i := 0; i < panelCount; i++ {
		collector := &chart.ImageWriter{}
		if err := f.panel(i).Render(chart.PNG, collector); err != nil {
			return nil, fmt.Errorf("render panel %d: %w", i, err)
		}
		img, err := collector.Image()
		if err != nil {
			return nil, fmt.Errorf("decode panel %d: %w", i, err)
		}
		off := image.Pt(i*f.opts.PanelWidth, 0)
		draw.Draw(out, img.Bounds().Add(off), img, img.Bounds().Min, draw.Src)
	}
	if f.opts.Caption != "" {
		drawCaption(out, f.Caption())
	}
	logging.Debugf("[render] composed %dx%d raster", w, h)
	return out, nil
}

// drawCaption writes text in the strip below the panels.
func drawCaption(img *image.RGBA, text string) {
	b := img.Bounds()
	face := basicfont.Face7x13
	strip := image.Rect(b.Min.X, b.Max.Y-captionHeight, b.Max.X, b.Max.Y)
	draw.Draw(img, strip, image.NewUniform(color.RGBA{R: 245, G: 245, B: 245, A: 255}), image.Point{}, draw.Src)
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 60, G: 60, B: 60, A: 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(b.Min.X + 8), Y: fixed.I(b.Max.Y - (captionHeight-face.Metrics().Ascent.Ceil())/2)},
	}
	dr.DrawString(text)
}

// renderSVG nests each panel's SVG document at its horizontal offset inside one root.
func (f *Figure) renderSVG(w io.Writer) error {
	width, height := f.Size()
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", width, height, width, height)
	out.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>` + "\n")
	for i := 0; i < panelCount; i++ {
		var buf bytes.Buffer
		if err := f.panel(i).Render(chart.SVG, &buf); err != nil {
			return fmt.Errorf("render panel %d: %w", i, err)
		}
		doc := buf.String()
		start := strings.Index(doc, "<svg")
		if start < 0 {
			return fmt.Errorf("render panel %d: no svg element in output", i)
		}
		doc = doc[start:]
		out.WriteString(strings.Replace(doc, "<svg", fmt.Sprintf(`<svg x="%d" y="0"`, i*f.opts.PanelWidth), 1))
		out.WriteString("\n")
	}
	if f.opts.Caption != "" {
		fmt.Fprintf(&out, `<text x="8" y="%d" font-family="monospace" font-size="12" fill="#3c3c3c">`, height-7)
		if err := xml.EscapeText(&out, []byte(f.Caption())); err != nil {
			return err
		}
		out.WriteString("</text>\n")
	}
	out.WriteString("</svg>\n")
	_, err := w.Write(out.Bytes())
	return err
}
