package peptide

// Metrics are the fixed monospace font metrics of the diagram, in pixels
type Metrics struct {
	Advance       float64 // residue glyph width
	Spacing       float64 // space between residues
	ResidueHeight float64
	IonHeight     float64
}

// DefaultMetrics match a 30 px residue font and a 10 px ion font
var DefaultMetrics = Metrics{
	Advance:       17,
	Spacing:       8,
	ResidueHeight: 30,
	IonHeight:     10,
}

// Text is a string placed with its baseline starting at X, Y. The
// origin is the top left corner, Y grows downward.
type Text struct {
	Text string
	X, Y float64
	Ion  bool
}

// Segment is a cleavage mark or tick
type Segment struct {
	X1, Y1, X2, Y2 float64
}

// Layout is the diagram geometry of a ladder
type Layout struct {
	Metrics       Metrics
	Width, Height float64
	// SuffixHeight is the band above the residues reserved for suffix ions
	SuffixHeight float64
	Texts        []Text
	Lines        []Segment
}

// Layout computes the diagram geometry of l with the given metrics
func (l *Ladder) Layout(m Metrics) (Layout, error) {
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	n := float64(len(l.Sequence))
	lay := Layout{
		Metrics:      m,
		Width:        n*m.Advance + (n-1.5)*m.Spacing,
		SuffixHeight: m.IonHeight*float64(maxIons(l.Suffix)) + 5,
	}
	lay.Height = m.ResidueHeight + (m.IonHeight*float64(maxIons(l.Prefix)) + 15) + lay.SuffixHeight

	baseline := lay.SuffixHeight + m.ResidueHeight
	center := baseline - m.ResidueHeight/4 - 1
	blank := 0.0
	for i := 0; i < len(l.Sequence); i++ {
		res := l.Sequence[i : i+1]
		lay.Texts = append(lay.Texts, Text{Text: res, X: blank, Y: baseline})

		x := blank - m.Spacing/2
		if res == "I" {
			x += 2
		}
		top := center - m.ResidueHeight/2 - 2.5
		bottom := center + m.ResidueHeight/2 + 2.5
		mark := Segment{X1: x, Y1: top, X2: x, Y2: bottom}

		prefix, hasPrefix := l.Prefix[i]
		suffix, hasSuffix := l.Suffix[l.ReverseIndex(i)]
		hasSuffix = hasSuffix && i != 0
		if hasPrefix {
			left := x - 2*m.Spacing
			lay.Lines = append(lay.Lines, mark, Segment{X1: x, Y1: bottom, X2: left, Y2: bottom})
			y := bottom + 10
			for _, ion := range sortedIons(prefix, false) {
				lay.Texts = append(lay.Texts, Text{Text: ion, X: left, Y: y, Ion: true})
				y += m.IonHeight
			}
		}
		if hasSuffix {
			if !hasPrefix {
				lay.Lines = append(lay.Lines, mark)
			}
			lay.Lines = append(lay.Lines, Segment{X1: x, Y1: top, X2: x + 2*m.Spacing, Y2: top})
			y := top - 5
			for _, ion := range sortedIons(suffix, true) {
				lay.Texts = append(lay.Texts, Text{Text: ion, X: x + 2.5, Y: y, Ion: true})
				y -= m.IonHeight
			}
		}
		blank += m.Advance + m.Spacing
	}
	return lay, nil
}
