package tic

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// referencePeaks is a direct nested-loop rendition of the scan used to
// cross check FindPeaks
func referencePeaks(data []float64) []int {
	if len(data) < 2 {
		return nil
	}
	seen := map[int]bool{}
	var peaks []int
	peakValue := data[0]
	i := 1
	for i < len(data) {
		if data[i] <= peakValue {
			peakValue = data[i]
			i++
			continue
		}
		peakValue = data[i]
		j := i
		for ; j < len(data); j++ {
			if data[j] > peakValue {
				// a new rise restarts the candidate
				i = j
				peakValue = data[j]
				continue
			}
			if data[j] < peakValue {
				break
			}
		}
		if j == len(data) {
			break
		}
		p := i + (j-i)/2
		if !seen[p] {
			seen[p] = true
			peaks = append(peaks, p)
		}
		peakValue = data[j]
		i = j + 1
	}
	sort.Ints(peaks)
	sort.SliceStable(peaks, func(a, b int) bool { return data[peaks[a]] > data[peaks[b]] })
	return peaks
}

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want []int
	}{
		{"empty", nil, nil},
		{"single", []float64{4}, nil},
		{"flat", []float64{2, 2, 2, 2}, nil},
		{"non-increasing", []float64{9, 7, 7, 3, 1, 0}, nil},
		{"increasing", []float64{1, 2, 3, 4}, nil},
		{"rising plateau at end", []float64{1, 2, 2}, nil},
		{"mixed", []float64{1, 3, 2, 5, 4, 0}, []int{3, 1}},
		{"even plateau", []float64{1, 3, 3, 2}, []int{2}},
		{"odd plateau", []float64{1, 3, 3, 3, 2}, []int{2}},
		{"long ascent", []float64{0, 1, 2, 3, 2}, []int{3}},
		{"equal heights keep index order", []float64{0, 5, 0, 5, 0, 7, 1}, []int{5, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindPeaks(tt.data)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("FindPeaks(%v) mismatch (-want +got):\n%s", tt.data, diff)
			}
			ref := referencePeaks(tt.data)
			if diff := cmp.Diff(ref, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("FindPeaks(%v) differs from reference (-ref +got):\n%s", tt.data, diff)
			}
		})
	}
}

func TestFindPeaksMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := 0; run < 500; run++ {
		data := make([]float64, rng.Intn(60))
		for i := range data {
			// few distinct values, so plateaus are common
			data[i] = float64(rng.Intn(5))
		}
		got := FindPeaks(data)
		if diff := cmp.Diff(referencePeaks(data), got, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("FindPeaks(%v) differs from reference (-ref +got):\n%s", data, diff)
		}
		for i := 1; i < len(got); i++ {
			a, b := data[got[i-1]], data[got[i]]
			if a < b || (a == b && got[i-1] > got[i]) {
				t.Fatalf("FindPeaks(%v) = %v not ordered by intensity then index", data, got)
			}
		}
		for _, p := range got {
			if p == 0 || p == len(data)-1 {
				t.Fatalf("FindPeaks(%v) marked boundary sample %d", data, p)
			}
		}
	}
}
