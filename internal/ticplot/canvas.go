// Package ticplot draws a chromatogram view with gonum/plot. Canvas is
// the tic.Renderer used by the command line tool: it owns the plot
// axes, the visible time range, the label draw objects and the font
// metrics. Device space is the output canvas in points.
package ticplot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/524D/mzview/internal/plotout"
	"github.com/524D/mzview/internal/tic"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Config holds the output geometry
type Config struct {
	Width    vg.Length // default 8 inch
	Height   vg.Length // default 4 inch
	FontSize vg.Length // label font size, default 10 pt
}

func (cfg Config) withDefaults() Config {
	if cfg.Width <= 0 {
		cfg.Width = 8 * vg.Inch
	}
	if cfg.Height <= 0 {
		cfg.Height = 4 * vg.Inch
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = 10
	}
	return cfg
}

var labelColor = color.Gray{Y: 100}

type label struct {
	text   string
	anchor tic.Point
}

// layout caches the data-to-device transform for the current axes
type layout struct {
	area vg.Rectangle
	trX  func(float64) vg.Length
	trY  func(float64) vg.Length
}

// Canvas renders one chromatogram with its peak labels
type Canvas struct {
	cfg   Config
	style text.Style

	times       []float64
	intensities []float64

	rng        tic.TimeRange // as set by pan/zoom, tic.UnsetRange initially
	yMin, yMax float64

	labels map[tic.LabelID]label
	order  []tic.LabelID
	next   tic.LabelID

	watch func(tic.TimeRange)
	lay   *layout
}

// New returns an empty canvas with an unset time range
func New(cfg Config) *Canvas {
	cfg = cfg.withDefaults()
	return &Canvas{
		cfg: cfg,
		style: text.Style{
			Color:   labelColor,
			Font:    font.From(plot.DefaultFont, cfg.FontSize),
			XAlign:  text.XCenter,
			YAlign:  text.YBottom,
			Handler: plot.DefaultTextHandler,
		},
		rng:    tic.UnsetRange,
		yMax:   1,
		labels: map[tic.LabelID]label{},
	}
}

// Watch registers fn to be called whenever the visible time range
// changes. Only one watcher is kept.
func (c *Canvas) Watch(fn func(tic.TimeRange)) {
	c.watch = fn
}

// SetTimeRange shows [min, max] minutes and notifies the watcher
func (c *Canvas) SetTimeRange(min, max float64) {
	c.rng = tic.TimeRange{Min: min, Max: max}
	c.lay = nil
	if c.watch != nil {
		c.watch(c.rng)
	}
}

// Pan shifts the visible range by dt minutes. The range never starts
// before 0.
func (c *Canvas) Pan(dt float64) {
	r := c.effectiveRange()
	if r.Min+dt < 0 {
		dt = -r.Min
	}
	c.SetTimeRange(r.Min+dt, r.Max+dt)
}

// Zoom scales the visible range by factor around its centre; a factor
// below 1 zooms in
func (c *Canvas) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	r := c.effectiveRange()
	mid := (r.Min + r.Max) / 2
	half := (r.Max - r.Min) / 2 * factor
	c.SetTimeRange(math.Max(0, mid-half), mid+half)
}

// effectiveRange is the range the x axis shows: the curve extent as
// long as no range was set
func (c *Canvas) effectiveRange() tic.TimeRange {
	if c.rng != tic.UnsetRange && c.rng.Min < c.rng.Max {
		return c.rng
	}
	if len(c.times) > 0 {
		return tic.TimeRange{Min: c.times[0], Max: c.times[len(c.times)-1]}
	}
	return tic.UnsetRange
}

// DrawCurve implements tic.Renderer
func (c *Canvas) DrawCurve(times, intensities []float64) {
	c.times = append(c.times[:0], times...)
	c.intensities = append(c.intensities[:0], intensities...)
	c.lay = nil
}

// DrawLabel implements tic.Renderer
func (c *Canvas) DrawLabel(txt string, anchor tic.Point) tic.LabelID {
	c.next++
	c.labels[c.next] = label{text: txt, anchor: anchor}
	c.order = append(c.order, c.next)
	return c.next
}

// RemoveLabel implements tic.Renderer
func (c *Canvas) RemoveLabel(id tic.LabelID) {
	if _, ok := c.labels[id]; !ok {
		return
	}
	delete(c.labels, id)
	for i, o := range c.order {
		if o == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// NumLabels returns the number of labels currently drawn
func (c *Canvas) NumLabels() int {
	return len(c.labels)
}

// LabelBox implements tic.Renderer. The text is anchored bottom centre.
func (c *Canvas) LabelBox(txt string, anchor tic.Point) tic.Rect {
	l := c.layout()
	x := float64(l.trX(anchor.Time))
	y := float64(l.trY(anchor.Intensity))
	w := float64(c.style.Width(txt))
	h := float64(c.style.Height(txt))
	return tic.Rect{MinX: x - w/2, MinY: y, MaxX: x + w/2, MaxY: y + h}
}

// ViewPixelSize implements tic.Renderer
func (c *Canvas) ViewPixelSize() (float64, float64) {
	l := c.layout()
	r := c.effectiveRange()
	w := float64(l.area.Max.X - l.area.Min.X)
	h := float64(l.area.Max.Y - l.area.Min.Y)
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	return (r.Max - r.Min) / w, (c.yMax - c.yMin) / h
}

// VisibleTimeRange implements tic.Renderer
func (c *Canvas) VisibleTimeRange() tic.TimeRange {
	return c.rng
}

// SetIntensityRange implements tic.Renderer
func (c *Canvas) SetIntensityRange(min, max float64) {
	c.yMin, c.yMax = min, max
	c.lay = nil
}

func (c *Canvas) layout() *layout {
	if c.lay != nil {
		return c.lay
	}
	p := c.axes()
	dc := draw.New(vgsvg.New(c.cfg.Width, c.cfg.Height))
	da := p.DataCanvas(dc)
	trX, trY := p.Transforms(&da)
	c.lay = &layout{area: da.Rectangle, trX: trX, trY: trY}
	return c.lay
}

// axes returns a plot without data, with the axes of the current view
func (c *Canvas) axes() *plot.Plot {
	p := plot.New()
	p.X.Label.Text = "RT (min)"
	p.Y.Label.Text = "relative intensity (%)"
	r := c.effectiveRange()
	p.X.Min, p.X.Max = r.Min, r.Max
	p.Y.Min, p.Y.Max = c.yMin, c.yMax
	return p
}

// Plot returns the plot of the curve and the current labels
func (c *Canvas) Plot() (*plot.Plot, error) {
	p := c.axes()
	if len(c.times) > 0 {
		xys := make(plotter.XYs, len(c.times))
		for i := range c.times {
			xys[i].X = c.times[i]
			xys[i].Y = c.intensities[i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("ticplot: curve: %w", err)
		}
		line.LineStyle.Color = color.Black
		p.Add(line)
	}
	p.Add(labelPlotter{c})
	// Add widens the axes to the data; restore the view
	r := c.effectiveRange()
	p.X.Min, p.X.Max = r.Min, r.Max
	p.Y.Min, p.Y.Max = c.yMin, c.yMax
	return p, nil
}

// WriteTo renders the view in the given format (svg, png, pdf)
func (c *Canvas) WriteTo(w io.Writer, format string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	return plotout.Write(w, format, c.cfg.Width, c.cfg.Height, p.Draw)
}

// Save renders the view to a file. An empty format follows the
// extension of filename.
func (c *Canvas) Save(filename, format string) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}
	return plotout.Save(filename, format, c.cfg.Width, c.cfg.Height, p.Draw)
}

// labelPlotter draws the labels of a Canvas. It has no glyph boxes, so
// adding it does not change the data area the label boxes were
// computed for.
type labelPlotter struct {
	c *Canvas
}

// Plot implements plot.Plotter
func (lp labelPlotter) Plot(dc draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&dc)
	for _, id := range lp.c.order {
		l := lp.c.labels[id]
		pt := vg.Point{X: trX(l.anchor.Time), Y: trY(l.anchor.Intensity)}
		dc.FillText(lp.c.style, pt, l.text)
	}
}
