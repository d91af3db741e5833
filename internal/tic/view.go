package tic

// View is one interactive chromatogram view. All state is owned by the
// instance; independent views share nothing. A View is not safe for
// concurrent use, it is driven by the events of its renderer.
type View struct {
	r        Renderer
	series   *Series
	peaks    []int
	viewport Viewport
	placer   LabelPlacer
	yMax     float64
}

// NewView returns a view that paints on r
func NewView(r Renderer) *View {
	return &View{r: r, yMax: emptyRangeMax}
}

// Placer gives access to the label placer, e.g. to tune MinDistancePx
func (v *View) Placer() *LabelPlacer {
	return &v.placer
}

// Load replaces the displayed chromatogram. Times are in seconds,
// intensities in arbitrary units. On error the view is left unchanged.
// Labels are cleared and are placed again on the next range change.
func (v *View) Load(times, rawIntensities []float64) error {
	s, err := NewSeries(times, rawIntensities)
	if err != nil {
		return err
	}
	v.placer.Clear(v.r)
	v.series = s
	v.peaks = FindPeaks(s.Intensities())
	v.viewport.Reset(s)
	v.autoscale()
	v.r.DrawCurve(s.Times(), s.Intensities())
	return nil
}

// OnRangeChanged handles a change of the visible time range: the
// intensity axis is rescaled and the labels are rebuilt
func (v *View) OnRangeChanged(r TimeRange) {
	if v.series == nil {
		return
	}
	v.viewport.OnRangeChanged(r)
	v.autoscale()
	v.placer.Rebuild(v.peaks, v.series, v.viewport.VisibleIntensities(), v.r)
}

// Refresh re-reads the visible range from the renderer and rebuilds
func (v *View) Refresh() {
	v.OnRangeChanged(v.r.VisibleTimeRange())
}

func (v *View) autoscale() {
	yMax := v.viewport.VisibleIntensityMax()
	// a zero maximum would give a zero height axis, keep the old one
	if yMax > 0 {
		v.yMax = yMax
		v.r.SetIntensityRange(0, yMax)
	}
}

// Series returns the loaded series, or nil
func (v *View) Series() *Series {
	return v.series
}

// Peaks returns the detected peaks, most intense first
func (v *View) Peaks() []int {
	return v.peaks
}

// Labels returns the displayed labels in placement order
func (v *View) Labels() []Label {
	return v.placer.Labels()
}

// TimeRange returns the visible time range used for the last update
func (v *View) TimeRange() TimeRange {
	return v.viewport.Range()
}

// IntensityMax returns the current upper bound of the intensity axis
func (v *View) IntensityMax() float64 {
	return v.yMax
}
