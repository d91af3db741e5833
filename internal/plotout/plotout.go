// Package plotout creates the gonum vg canvas for an output format
package plotout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// ErrFormat means the output format is not supported
var ErrFormat = errors.New("plotout: unsupported format")

// Formats lists the supported output formats
var Formats = []string{"svg", "png", "pdf"}

// NewCanvas returns a w x h canvas that writes the given format
func NewCanvas(w, h vg.Length, format string) (vg.CanvasWriterTo, error) {
	switch strings.ToLower(format) {
	case "svg":
		return vgsvg.New(w, h), nil
	case "png":
		return vgimg.PngCanvas{Canvas: vgimg.New(w, h)}, nil
	case "pdf":
		return vgpdf.New(w, h), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFormat, format)
}

// FormatOf returns the format matching the extension of filename
func FormatOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Write draws with fn on a w x h canvas and writes it to out
func Write(out io.Writer, format string, w, h vg.Length, fn func(draw.Canvas)) error {
	c, err := NewCanvas(w, h, format)
	if err != nil {
		return err
	}
	fn(draw.New(c))
	_, err = c.WriteTo(out)
	return err
}

// Save draws with fn on a w x h canvas and writes it to filename. An
// empty format means the format given by the extension of filename.
// Nothing is created for an unsupported format.
func Save(filename, format string, w, h vg.Length, fn func(draw.Canvas)) (err error) {
	if format == "" {
		format = FormatOf(filename)
	}
	c, err := NewCanvas(w, h, format)
	if err != nil {
		return err
	}
	fn(draw.New(c))
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = c.WriteTo(f)
	return err
}
