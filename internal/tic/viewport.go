package tic

import "math"

// TimeRange is a closed retention time interval in minutes
type TimeRange struct {
	Min float64
	Max float64
}

// UnsetRange is what a freshly created plot axis reports before it has
// been laid out
var UnsetRange = TimeRange{Min: 0, Max: 1}

// valid reports whether r can be used as a visible range
func (r TimeRange) valid() bool {
	return r != UnsetRange && !math.IsNaN(r.Min) && !math.IsNaN(r.Max) && r.Min < r.Max
}

// Viewport tracks the visible time range of one chromatogram view and
// the intensity axis bound derived from it
type Viewport struct {
	series *Series
	rng    TimeRange
}

// Reset attaches a new series and shows its full extent
func (v *Viewport) Reset(s *Series) {
	v.series = s
	v.rng = s.Extent()
}

// OnRangeChanged stores the new visible time range. The unset range and
// malformed ranges (min >= max, NaN) are replaced by the full extent of
// the series.
func (v *Viewport) OnRangeChanged(r TimeRange) {
	if !r.valid() && v.series != nil {
		r = v.series.Extent()
	}
	v.rng = r
}

// Range returns the current visible time range
func (v *Viewport) Range() TimeRange {
	return v.rng
}

// VisibleIntensityMax returns the upper bound of the intensity axis for
// the current range. The lower bound is always 0.
func (v *Viewport) VisibleIntensityMax() float64 {
	if v.series == nil {
		return emptyRangeMax
	}
	return v.series.IntensityMaxInRange(v.rng.Min, v.rng.Max)
}

// VisibleIntensities returns the intensities of the samples in range
func (v *Viewport) VisibleIntensities() []float64 {
	if v.series == nil {
		return nil
	}
	return v.series.IntensitiesInRange(v.rng.Min, v.rng.Max)
}
