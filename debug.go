// This file contains code to help debugging, and is
// separated in from the rest in order not to litter
// the main code with debugging stuff

package main

import (
	"fmt"
	"io"

	"github.com/524D/mzview/internal/mzml"
	"github.com/524D/mzview/internal/tic"
)

// debugLogPeaks prints the peaks with a rank in the given range: their
// sample index, time, intensity and whether they are labelled
func debugLogPeaks(w io.Writer, peakRange string, v *tic.View, chrom *mzml.Chromatogram, mzML *mzml.MzML) {
	if peakRange == `` {
		return
	}
	peaks := v.Peaks()
	debugMin, debugMax, err := parseIntRange(peakRange, 0, len(peaks)-1)
	if err != nil {
		return
	}
	rejected := make(map[int]bool, len(v.Placer().Rejected()))
	for _, i := range v.Placer().Rejected() {
		rejected[i] = true
	}

	r := v.TimeRange()
	fmt.Fprintf(w, "Chromatogram:%s samples:%d peaks:%d rt:%f:%f intensity max:%f\n",
		chrom.ID, v.Series().Len(), len(peaks), r.Min, r.Max, v.IntensityMax())
	s := v.Series()
	for rank := debugMin; rank <= debugMax; rank++ {
		i := peaks[rank]
		p := s.Sample(i)
		state := `-`
		switch {
		case v.Placer().Has(i):
			state = `+`
		case rejected[i]:
			state = `x`
		}
		fmt.Fprintf(w, "%d index:%d rt:%f intens:%f(%0.2f%%) label: %s",
			rank, i, p.Time, chrom.Intensities[i], p.Intensity, state)
		if chrom.SpectrumIndex != nil {
			id, _ := mzML.ScanID(chrom.SpectrumIndex[i])
			fmt.Fprintf(w, " spec:%s", id)
		}
		fmt.Fprintf(w, "\n")
	}
}
