package tic

import "testing"

// fakeRenderer maps data space linearly onto a widthPx x heightPx
// device area and measures text with a fixed character width
type fakeRenderer struct {
	rng          TimeRange
	yMax         float64
	widthPx      float64
	heightPx     float64
	charPx       float64
	textHeightPx float64

	next    LabelID
	shown   map[LabelID]string
	removed []LabelID
	curves  int
}

func newFakeRenderer(rng TimeRange, yMax float64) *fakeRenderer {
	return &fakeRenderer{
		rng:          rng,
		yMax:         yMax,
		widthPx:      1000,
		heightPx:     500,
		charPx:       7,
		textHeightPx: 12,
		shown:        map[LabelID]string{},
	}
}

func (f *fakeRenderer) DrawCurve(times, intensities []float64) { f.curves++ }

func (f *fakeRenderer) DrawLabel(text string, anchor Point) LabelID {
	f.next++
	f.shown[f.next] = text
	return f.next
}

func (f *fakeRenderer) RemoveLabel(id LabelID) {
	delete(f.shown, id)
	f.removed = append(f.removed, id)
}

func (f *fakeRenderer) LabelBox(text string, anchor Point) Rect {
	dx, dy := f.ViewPixelSize()
	x := (anchor.Time - f.rng.Min) / dx
	y := anchor.Intensity / dy
	w := f.charPx * float64(len(text))
	return Rect{MinX: x - w/2, MinY: y, MaxX: x + w/2, MaxY: y + f.textHeightPx}
}

func (f *fakeRenderer) ViewPixelSize() (float64, float64) {
	return (f.rng.Max - f.rng.Min) / f.widthPx, f.yMax / f.heightPx
}

func (f *fakeRenderer) VisibleTimeRange() TimeRange { return f.rng }

func (f *fakeRenderer) SetIntensityRange(min, max float64) { f.yMax = max }

// minuteSeries builds a series from times in minutes and intensities
// that already peak at 100
func minuteSeries(t *testing.T, minutes, ints []float64) *Series {
	t.Helper()
	secs := make([]float64, len(minutes))
	for i, m := range minutes {
		secs[i] = m * 60
	}
	s, err := NewSeries(secs, ints)
	if err != nil {
		t.Fatalf("NewSeries: %v", err)
	}
	return s
}
