// Package viewer shows a composed figure in a desktop window with a PNG export action.
package viewer

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/lscov/covfig/src/logging"
)

const appID = "io.lscov.covfig"

// Figure is what the window displays.
type Figure struct {
	Title   string
	Summary string
	Image   image.Image
	// Source names the input; the export dialog suggests <source>.png.
	Source string
}

// Show opens the window and blocks until it is closed. It must run on the main goroutine.
func Show(fig Figure) {
	a := app.NewWithID(appID)
	w := NewWindow(a, fig)
	logging.Infof("[viewer] showing %s", fig.Title)
	w.ShowAndRun()
}

// NewWindow builds the window without showing it.
func NewWindow(a fyne.App, fig Figure) fyne.Window {
	w := a.NewWindow(fig.Title)
	img := canvas.NewImageFromImage(fig.Image)
	img.FillMode = canvas.ImageFillContain
	if fig.Image != nil {
		b := fig.Image.Bounds()
		img.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		w.Resize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())+40))
	}
	summary := widget.NewLabel(fig.Summary)
	w.SetContent(container.NewBorder(summary, nil, nil, nil, img))
	w.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Export PNG…", func() { exportPNG(w, fig) }),
		),
	))
	return w
}

// exportPNG asks for a destination and writes the figure there.
func exportPNG(w fyne.Window, fig Figure) {
	if fig.Image == nil {
		dialog.ShowInformation("Export", "No figure to export.", w)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		if err := WritePNG(wc, fig.Image); err != nil {
			logging.Errorf("[viewer] export failed: %v", err)
			dialog.ShowError(err, w)
			return
		}
		logging.Infof("[viewer] exported %s", wc.URI().Path())
	}, w)
	fs.SetFileName(ExportName(fig.Source))
	fs.Show()
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("png encode: %w", err)
	}
	return nil
}

// ExportName derives the suggested file name from the input path.
func ExportName(source string) string {
	base := filepath.Base(source)
	if base == "." || base == "/" || base == "" {
		return "coverage.png"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}
