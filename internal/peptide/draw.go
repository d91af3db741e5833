package peptide

import (
	"image/color"
	"io"

	"github.com/524D/mzview/internal/plotout"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	inkColor = color.RGBA{R: 168, G: 34, B: 3, A: 255}
	monoFont = font.Font{Typeface: "Liberation", Variant: "Mono"}
	markLine = draw.LineStyle{
		Color:  inkColor,
		Width:  0.75,
		Dashes: []vg.Length{4, 2, 1, 2},
	}
)

func textStyle(size vg.Length) text.Style {
	return text.Style{
		Color:   inkColor,
		Font:    font.From(monoFont, size),
		XAlign:  text.XLeft,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}
}

// Draw renders the layout on c, one pixel per point, on a white
// background
func (lay *Layout) Draw(c draw.Canvas) {
	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())

	pt := func(x, y float64) vg.Point {
		return vg.Point{X: c.Min.X + vg.Length(x), Y: c.Max.Y - vg.Length(y)}
	}
	for _, s := range lay.Lines {
		c.StrokeLines(markLine, []vg.Point{pt(s.X1, s.Y1), pt(s.X2, s.Y2)})
	}
	residue := textStyle(vg.Length(lay.Metrics.ResidueHeight))
	ion := textStyle(vg.Length(lay.Metrics.IonHeight))
	for _, t := range lay.Texts {
		sty := residue
		if t.Ion {
			sty = ion
		}
		c.FillText(sty, pt(t.X, t.Y), t.Text)
	}
}

// WriteTo renders the layout in the given format (svg, png, pdf)
func (lay *Layout) WriteTo(w io.Writer, format string) error {
	return plotout.Write(w, format, vg.Length(lay.Width), vg.Length(lay.Height), lay.Draw)
}

// Save renders the layout to a file. An empty format follows the
// extension of filename.
func (lay *Layout) Save(filename, format string) error {
	return plotout.Save(filename, format, vg.Length(lay.Width), vg.Length(lay.Height), lay.Draw)
}
