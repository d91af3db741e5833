package tic

import (
	"fmt"
	"math"
)

// DefaultMinDistancePx is the minimal horizontal distance in device
// pixels between the anchors of two labels
const DefaultMinDistancePx = 20.0

// Label is a peak label as placed by LabelPlacer
type Label struct {
	Index  int    // sample index of the peak
	Text   string // retention time, 2 decimals
	Anchor Point  // bottom centre of the text, in data space
	Box    Rect   // device space bounding box when placed
	id     LabelID
}

// LabelPlacer maintains the set of displayed peak labels. The set is
// rebuilt from scratch on every trigger; more intense peaks are placed
// first and are never displaced by less intense ones.
type LabelPlacer struct {
	// MinDistancePx is the minimal horizontal anchor distance, in device
	// pixels, between two labels whose boxes do not overlap.
	// Zero means DefaultMinDistancePx.
	MinDistancePx float64

	labels   []Label
	byIndex  map[int]int // sample index -> position in labels
	rejected []int
}

// Labels returns the displayed labels in placement order
func (p *LabelPlacer) Labels() []Label {
	return p.labels
}

// Rejected returns the visible peaks that were not labelled in the
// last rebuild because they collided with a placed label
func (p *LabelPlacer) Rejected() []int {
	return p.rejected
}

// Has reports whether the peak at sample index i is labelled
func (p *LabelPlacer) Has(i int) bool {
	_, ok := p.byIndex[i]
	return ok
}

// Clear removes all labels from the renderer and from the set
func (p *LabelPlacer) Clear(r Renderer) {
	for _, l := range p.labels {
		r.RemoveLabel(l.id)
	}
	p.labels = nil
	p.byIndex = nil
	p.rejected = nil
}

// Rebuild clears the label set and places labels for the ranked peaks
// whose intensity is among the visible intensities.
//
// Placement starts from an empty set and is a single pass: a peak that
// collides is not retried later in the same pass, even if the label it
// collided with is the only obstacle.
func (p *LabelPlacer) Rebuild(peaks []int, s *Series, visible []float64, r Renderer) {
	p.Clear(r)
	inView := make(map[float64]struct{}, len(visible))
	for _, v := range visible {
		inView[v] = struct{}{}
	}

	dx, _ := r.ViewPixelSize()
	minDist := p.MinDistancePx
	if minDist == 0 {
		minDist = DefaultMinDistancePx
	}
	limit := minDist * dx

	var accepted []Label
	var rejected []int
	for _, idx := range peaks {
		anchor := s.Sample(idx)
		if _, ok := inView[anchor.Intensity]; !ok {
			continue
		}
		text := fmt.Sprintf("%.2f", anchor.Time)
		l := Label{Index: idx, Text: text, Anchor: anchor, Box: r.LabelBox(text, anchor)}
		if clashes(l, accepted, limit) {
			rejected = append(rejected, idx)
			continue
		}
		accepted = append(accepted, l)
	}

	p.byIndex = make(map[int]int, len(accepted))
	for i := range accepted {
		accepted[i].id = r.DrawLabel(accepted[i].Text, accepted[i].Anchor)
		p.byIndex[accepted[i].Index] = i
	}
	p.labels = accepted
	p.rejected = rejected
}

// clashes reports whether l overlaps one of the placed labels, or is
// horizontally closer than limit (data units) to one it does not overlap
func clashes(l Label, placed []Label, limit float64) bool {
	for _, o := range placed {
		if o.Index == l.Index {
			continue
		}
		if l.Box.Overlaps(o.Box) {
			return true
		}
		if math.Abs(l.Anchor.Time-o.Anchor.Time) < limit {
			return true
		}
	}
	return false
}
