package tic

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func labelIndices(p *LabelPlacer) []int {
	var idx []int
	for _, l := range p.Labels() {
		idx = append(idx, l.Index)
	}
	return idx
}

func TestRebuildPlacement(t *testing.T) {
	// 0..10 min over 1000 px: one pixel is 0.01 min, the 20 px limit 0.2 min
	tests := []struct {
		name         string
		minutes      []float64
		ints         []float64
		peaks        []int
		wantLabels   []int
		wantRejected []int
	}{
		{
			name:       "single candidate",
			minutes:    []float64{1, 2},
			ints:       []float64{100, 10},
			peaks:      []int{0},
			wantLabels: []int{0},
		},
		{
			name:         "anchors closer than limit",
			minutes:      []float64{1.0, 1.1},
			ints:         []float64{100, 20},
			peaks:        []int{0, 1},
			wantLabels:   []int{0},
			wantRejected: []int{1},
		},
		{
			name:       "anchors far apart",
			minutes:    []float64{1.0, 1.5},
			ints:       []float64{100, 20},
			peaks:      []int{0, 1},
			wantLabels: []int{0, 1},
		},
		{
			name:         "overlapping boxes",
			minutes:      []float64{1.0, 1.25},
			ints:         []float64{100, 99},
			peaks:        []int{0, 1},
			wantLabels:   []int{0},
			wantRejected: []int{1},
		},
		{
			name:         "higher peak keeps its place",
			minutes:      []float64{1.0, 1.1, 1.5},
			ints:         []float64{60, 100, 40},
			peaks:        []int{1, 0, 2},
			wantLabels:   []int{1, 2},
			wantRejected: []int{0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := minuteSeries(t, tt.minutes, tt.ints)
			r := newFakeRenderer(TimeRange{0, 10}, 100)
			var p LabelPlacer
			p.Rebuild(tt.peaks, s, s.IntensitiesInRange(0, 10), r)
			if diff := cmp.Diff(tt.wantLabels, labelIndices(&p), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRejected, p.Rejected(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("rejected mismatch (-want +got):\n%s", diff)
			}
			if len(r.shown) != len(tt.wantLabels) {
				t.Errorf("renderer shows %d labels, want %d", len(r.shown), len(tt.wantLabels))
			}
		})
	}
}

func TestRebuildTextAndAnchor(t *testing.T) {
	s := minuteSeries(t, []float64{1, 2.5, 4}, []float64{10, 100, 30})
	r := newFakeRenderer(TimeRange{0, 10}, 100)
	var p LabelPlacer
	p.Rebuild([]int{1}, s, s.IntensitiesInRange(0, 10), r)
	if len(p.Labels()) != 1 {
		t.Fatalf("got %d labels, want 1", len(p.Labels()))
	}
	l := p.Labels()[0]
	if l.Text != "2.50" {
		t.Errorf("label text %q, want %q", l.Text, "2.50")
	}
	if l.Anchor != s.Sample(1) {
		t.Errorf("label anchor %+v, want %+v", l.Anchor, s.Sample(1))
	}
	if !p.Has(1) || p.Has(0) {
		t.Errorf("Has() does not reflect the label set")
	}
}

func TestRebuildSkipsInvisible(t *testing.T) {
	s := minuteSeries(t, []float64{1, 2, 5, 6}, []float64{30, 100, 70, 10})
	r := newFakeRenderer(TimeRange{4, 7}, 100)
	var p LabelPlacer
	p.Rebuild([]int{1, 2}, s, s.IntensitiesInRange(4, 7), r)
	if diff := cmp.Diff([]int{2}, labelIndices(&p)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuildClearsPrevious(t *testing.T) {
	s := minuteSeries(t, []float64{1, 2, 5, 6}, []float64{30, 100, 70, 10})
	r := newFakeRenderer(TimeRange{0, 10}, 100)
	var p LabelPlacer
	p.Rebuild([]int{1, 2}, s, s.IntensitiesInRange(0, 10), r)
	first := p.Labels()
	p.Rebuild([]int{1, 2}, s, s.IntensitiesInRange(0, 10), r)
	if len(r.removed) != len(first) {
		t.Errorf("removed %d labels, want %d", len(r.removed), len(first))
	}
	if len(r.shown) != len(p.Labels()) {
		t.Errorf("renderer shows %d labels, placer has %d", len(r.shown), len(p.Labels()))
	}
	p.Clear(r)
	if len(r.shown) != 0 || len(p.Labels()) != 0 {
		t.Errorf("Clear left %d shown, %d in set", len(r.shown), len(p.Labels()))
	}
}

func TestRebuildNoCollisions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	minutes := make([]float64, 400)
	ints := make([]float64, 400)
	for i := range minutes {
		minutes[i] = float64(i) * 0.025
		ints[i] = rng.Float64() * 100
	}
	s := minuteSeries(t, minutes, ints)
	peaks := FindPeaks(s.Intensities())

	for _, view := range []TimeRange{{0, 10}, {2, 3}, {0.5, 9.5}} {
		r := newFakeRenderer(view, s.IntensityMaxInRange(view.Min, view.Max))
		var p LabelPlacer
		p.Rebuild(peaks, s, s.IntensitiesInRange(view.Min, view.Max), r)
		if len(p.Labels()) == 0 {
			t.Fatalf("view %+v: no labels placed", view)
		}
		dx, _ := r.ViewPixelSize()
		ls := p.Labels()
		for i := range ls {
			for j := i + 1; j < len(ls); j++ {
				if ls[i].Box.Overlaps(ls[j].Box) {
					t.Errorf("view %+v: labels %d and %d overlap", view, ls[i].Index, ls[j].Index)
				}
				if math.Abs(ls[i].Anchor.Time-ls[j].Anchor.Time) < DefaultMinDistancePx*dx {
					t.Errorf("view %+v: labels %d and %d too close", view, ls[i].Index, ls[j].Index)
				}
			}
		}

		// same viewport, same labels
		again := append([]Label(nil), ls...)
		p.Rebuild(peaks, s, s.IntensitiesInRange(view.Min, view.Max), r)
		if diff := cmp.Diff(again, p.Labels(), cmpopts.IgnoreUnexported(Label{})); diff != "" {
			t.Errorf("view %+v: rebuild not idempotent (-first +second):\n%s", view, diff)
		}
	}
}

func TestRebuildMinDistance(t *testing.T) {
	s := minuteSeries(t, []float64{1.0, 1.5}, []float64{100, 20})
	r := newFakeRenderer(TimeRange{0, 10}, 100)
	p := LabelPlacer{MinDistancePx: 60}
	p.Rebuild([]int{0, 1}, s, s.IntensitiesInRange(0, 10), r)
	if diff := cmp.Diff([]int{0}, labelIndices(&p)); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"inside", Rect{2, 2, 4, 4}, true},
		{"partial", Rect{5, 5, 15, 15}, true},
		{"touching edge", Rect{10, 0, 20, 10}, false},
		{"apart", Rect{11, 11, 12, 12}, false},
		{"horizontal only", Rect{2, 20, 4, 30}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: Overlaps = %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.b.Overlaps(a); got != tt.want {
			t.Errorf("%s: reversed Overlaps = %v, want %v", tt.name, got, tt.want)
		}
	}
}
