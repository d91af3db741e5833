package tic

// Point is a position in data space: retention time (minutes) and
// relative intensity (percent)
type Point struct {
	Time      float64
	Intensity float64
}

// Rect is an axis aligned rectangle in device space
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Overlaps reports whether r and o share interior area.
// Rectangles that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX &&
		r.MinY < o.MaxY && o.MinY < r.MaxY
}

// LabelID is an opaque handle for a label drawn by a Renderer
type LabelID int

// Renderer is the drawing surface the chromatogram view paints on.
// It owns all toolkit state (draw objects, fonts, the view transform);
// the view only passes logical text/position tuples and keeps the
// returned handles.
type Renderer interface {
	// DrawCurve replaces the displayed curve. Times are in minutes,
	// intensities in percent.
	DrawCurve(times, intensities []float64)
	// DrawLabel shows text anchored (bottom centre) at the given point
	DrawLabel(text string, anchor Point) LabelID
	// RemoveLabel releases a label previously returned by DrawLabel
	RemoveLabel(id LabelID)
	// LabelBox returns the device space bounding box that text anchored
	// at anchor would occupy under the current view transform
	LabelBox(text string, anchor Point) Rect
	// ViewPixelSize returns the size of one device pixel in data units
	ViewPixelSize() (dx, dy float64)
	// VisibleTimeRange returns the time range the user currently sees
	VisibleTimeRange() TimeRange
	// SetIntensityRange sets the displayed intensity axis
	SetIntensityRange(min, max float64)
}
