// Package tic implements the total ion chromatogram view: intensity
// normalisation, peak detection, visible range tracking and collision
// free placement of peak labels.
package tic

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Sentinel returned by IntensityMaxInRange when no sample is in range.
// It keeps the intensity axis from collapsing to zero height.
const emptyRangeMax = 1.0

var (
	// ErrEmptySeries means no samples, or times and intensities differ in length
	ErrEmptySeries = errors.New("tic: empty or mismatched series")
	// ErrDegenerateSeries means the maximum raw intensity is not positive
	ErrDegenerateSeries = errors.New("tic: maximum intensity is not positive")
	// ErrUnsortedSeries means the times are not strictly increasing
	ErrUnsortedSeries = errors.New("tic: times are not strictly increasing")
	// ErrNonFiniteSample means a time or intensity is NaN or infinite
	ErrNonFiniteSample = errors.New("tic: non-finite sample")
)

// Series holds a chromatogram in display units: times in minutes and
// intensities in percent of the most intense sample. A Series is
// immutable; load a new chromatogram by building a new one.
type Series struct {
	times       []float64 // minutes, strictly increasing
	intensities []float64 // percent of max, in [0,100]

	rawTimes       []float64 // seconds, as supplied
	rawIntensities []float64
}

// NewSeries converts times from seconds to minutes and intensities to
// percent of the maximum raw intensity. Negative raw intensities are
// clamped to zero.
func NewSeries(times, rawIntensities []float64) (*Series, error) {
	if len(times) == 0 || len(times) != len(rawIntensities) {
		return nil, ErrEmptySeries
	}
	for i := range times {
		if !isFinite(times[i]) || !isFinite(rawIntensities[i]) {
			return nil, ErrNonFiniteSample
		}
		if i > 0 && times[i] <= times[i-1] {
			return nil, ErrUnsortedSeries
		}
	}
	maxRaw := floats.Max(rawIntensities)
	if maxRaw <= 0 {
		return nil, ErrDegenerateSeries
	}

	s := &Series{
		times:          make([]float64, len(times)),
		intensities:    make([]float64, len(rawIntensities)),
		rawTimes:       append([]float64(nil), times...),
		rawIntensities: append([]float64(nil), rawIntensities...),
	}
	for i, t := range times {
		s.times[i] = t / 60
	}
	for i, v := range rawIntensities {
		if v < 0 {
			v = 0
		}
		s.intensities[i] = v / maxRaw * 100
	}
	return s, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Len returns the number of samples
func (s *Series) Len() int {
	return len(s.times)
}

// Sample returns time (minutes) and intensity (percent) of sample i
func (s *Series) Sample(i int) Point {
	return Point{Time: s.times[i], Intensity: s.intensities[i]}
}

// Times returns the sample times in minutes. The slice must not be modified.
func (s *Series) Times() []float64 {
	return s.times
}

// Intensities returns the relative intensities. The slice must not be modified.
func (s *Series) Intensities() []float64 {
	return s.intensities
}

// Raw returns the arrays the series was built from
func (s *Series) Raw() (times, intensities []float64) {
	return s.rawTimes, s.rawIntensities
}

// Extent returns the full time range of the series
func (s *Series) Extent() TimeRange {
	return TimeRange{Min: s.times[0], Max: s.times[len(s.times)-1]}
}

// span returns the index span [i1, i2) of samples with tMin <= time <= tMax
func (s *Series) span(tMin, tMax float64) (int, int) {
	i1 := sort.Search(len(s.times), func(i int) bool { return s.times[i] >= tMin })
	i2 := sort.Search(len(s.times), func(i int) bool { return s.times[i] > tMax })
	if i2 < i1 {
		i2 = i1
	}
	return i1, i2
}

// IntensityMaxInRange returns the highest intensity of the samples with
// a time in [tMin, tMax], or 1.0 if there are none.
func (s *Series) IntensityMaxInRange(tMin, tMax float64) float64 {
	i1, i2 := s.span(tMin, tMax)
	if i1 == i2 {
		return emptyRangeMax
	}
	return floats.Max(s.intensities[i1:i2])
}

// IntensitiesInRange returns the intensities of the samples with a time
// in [tMin, tMax]. The slice must not be modified.
func (s *Series) IntensitiesInRange(tMin, tMax float64) []float64 {
	i1, i2 := s.span(tMin, tMax)
	return s.intensities[i1:i2]
}
