package tic

import "sort"

// scanState is the state of the peak scanner
type scanState int

const (
	seekingRise scanState = iota
	inAscent
)

// FindPeaks returns the indices of the local maxima in data, ordered by
// decreasing intensity. Peaks of equal intensity keep ascending index
// order.
//
// The scan looks for a rise followed by a strict drop. A rise starts a
// candidate at the rising sample; a further rise moves the candidate to
// the new sample, equal values extend it as a plateau. When the value
// drops, the peak is placed in the middle of the plateau (rounded
// towards its start) and the scan continues at the dropping sample.
// The first sample only seeds the comparison level, so a series that
// never rises has no peaks.
func FindPeaks(data []float64) []int {
	if len(data) < 2 {
		return nil
	}
	marked := make([]bool, len(data))
	state := seekingRise
	level := data[0]
	start := 0
	for k := 1; k < len(data); k++ {
		v := data[k]
		switch state {
		case seekingRise:
			if v > level {
				start = k
				state = inAscent
			}
			level = v
		case inAscent:
			switch {
			case v > level:
				start = k
				level = v
			case v < level:
				marked[start+(k-start)/2] = true
				level = v
				state = seekingRise
			}
		}
	}

	var peaks []int
	for i, m := range marked {
		if m {
			peaks = append(peaks, i)
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return data[peaks[i]] > data[peaks[j]]
	})
	return peaks
}
