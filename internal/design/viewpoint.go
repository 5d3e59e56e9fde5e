package design

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"vpdesign/internal/alignability"
	"vpdesign/internal/anchor"
)

// ErrUnknownContig is returned when the anchor's chromosome has no sequence.
var ErrUnknownContig = errors.New("unknown contig")

// Context carries the read-only handles shared by every viewpoint on one
// chromosome.
type Context struct {
	Genome      Genome
	ChromLength int
	Map         *alignability.Map
	Params      Params
	Log         logrus.FieldLogger
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (c Context) logger() logrus.FieldLogger {
	if c.Log == nil {
		return discard
	}
	return c.Log
}

// ViewPoint is the design around one anchor.
type ViewPoint struct {
	Chrom          string
	Pos            int // anchor, one-based
	Name           string
	Accession      string
	PositiveStrand bool

	// Search half windows relative to transcription.
	UpstreamLength   int
	DownstreamLength int

	// Start and End are the realised extent of the design.
	Start, End int

	Approach Approach
	Segments []*Segment
	Score    float64

	center      int // index into Segments of the fragment holding Pos, -1 if none
	zoom        float64
	meanFragLen int
}

// Build designs the viewpoint for a, using approach to select fragments.
func Build(c Context, a anchor.Anchor, approach Approach) (*ViewPoint, error) {
	if c.Genome == nil {
		return nil, errors.New("design: nil genome")
	}
	if c.ChromLength < 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContig, a.Chrom)
	}
	if a.Pos < 1 || a.Pos > c.ChromLength {
		return nil, fmt.Errorf("anchor %s at %s:%d lies outside the chromosome (length %d)", a.Name, a.Chrom, a.Pos, c.ChromLength)
	}
	vp := &ViewPoint{
		Chrom:            a.Chrom,
		Pos:              a.Pos,
		Name:             a.Name,
		Accession:        a.Accession,
		PositiveStrand:   a.PositiveStrand(),
		UpstreamLength:   c.Params.UpstreamLength,
		DownstreamLength: c.Params.DownstreamLength,
		Approach:         approach,
		center:           -1,
		zoom:             1,
		meanFragLen:      c.Params.MeanFragmentLength,
	}
	if err := vp.initSegments(c, 1); err != nil {
		return nil, err
	}
	switch approach {
	case Simple:
		vp.applySimple(c.Params)
	case Extended:
		vp.applyExtended(c.Params)
	default:
		return nil, fmt.Errorf("design: %v", approach)
	}
	for _, s := range vp.Segments {
		s.OriginallySelected = s.Selected
	}
	return vp, nil
}

// genomicWindows returns the half windows (lower side, higher side) scaled by
// factor.
func (vp *ViewPoint) genomicWindows(factor float64) (int, int) {
	p := Params{UpstreamLength: vp.UpstreamLength, DownstreamLength: vp.DownstreamLength}
	up, down := p.genomicWindows(vp.PositiveStrand)
	return int(math.Round(float64(up) * factor)), int(math.Round(float64(down) * factor))
}

// initSegments grows the search window until the anchor has at least two
// cuts on each side or the chromosome ends, then keeps the fragments that
// overlap the requested window plus one flanking fragment per side.
func (vp *ViewPoint) initSegments(c Context, factor float64) error {
	if err := c.Params.Validate(); err != nil {
		return fmt.Errorf("design parameters: %w", err)
	}
	reqUp, reqDown := vp.genomicWindows(factor)
	up, down := reqUp, reqDown
	p := c.Params

	var f *SegmentFactory
	for n := 1; ; n++ {
		var err error
		f, err = NewSegmentFactory(c.Genome, vp.Chrom, vp.Pos, c.ChromLength, up, down, p.Enzymes)
		if err != nil {
			return err
		}
		growUp := f.NumCutsUpstreamOf(vp.Pos) < 2 && !f.ReachedChromStart()
		growDown := f.NumCutsDownstreamOf(vp.Pos) < 2 && !f.ReachedChromEnd()
		if !growUp && !growDown {
			break
		}
		if growUp {
			up += n * p.GrowthStep
		}
		if growDown {
			down += n * p.GrowthStep
		}
	}

	reqStart := max(1, vp.Pos-reqUp)
	reqEnd := min(c.ChromLength, vp.Pos+reqDown)
	vp.Start, vp.End = reqStart, reqEnd

	first, last := -1, -1
	for i := 0; i < f.NumSegments(); i++ {
		if f.UpstreamCut(i) <= reqEnd && f.DownstreamCut(i)-1 >= reqStart {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	lo, hi := 0, f.NumSegments()-1
	if first < 0 {
		if f.NumSegments() > 0 {
			c.logger().WithFields(logrus.Fields{
				"anchor": vp.Name, "chrom": vp.Chrom, "pos": vp.Pos,
				"window": fmt.Sprintf("%d-%d", reqStart, reqEnd),
			}).Warn("no fragment overlaps the search window; keeping all fragments")
		}
	} else {
		lo, hi = max(lo, first-1), min(hi, last+1)
	}

	vp.Segments = vp.Segments[:0]
	vp.center = -1
	for i := lo; i <= hi; i++ {
		s, err := NewSegment(c.Genome, vp.Chrom, f.UpstreamCut(i), f.DownstreamCut(i)-1, p.MarginSize)
		if err != nil {
			return err
		}
		s.SetUsableBaits(p, c.Map)
		if s.Contains(vp.Pos) {
			s.OverlapsAnchor = true
			vp.center = len(vp.Segments)
		}
		vp.Segments = append(vp.Segments, s)
	}
	return nil
}

// CenterSegment returns the fragment containing the anchor.
func (vp *ViewPoint) CenterSegment() (*Segment, bool) {
	if vp.center < 0 || vp.center >= len(vp.Segments) {
		return nil, false
	}
	return vp.Segments[vp.center], true
}

// CenterIndex is the index of CenterSegment in Segments, or -1.
func (vp *ViewPoint) CenterIndex() int { return vp.center }

// ActiveSegments returns the selected fragments in genomic order.
func (vp *ViewPoint) ActiveSegments() []*Segment {
	var out []*Segment
	for _, s := range vp.Segments {
		if s.Selected {
			out = append(out, s)
		}
	}
	return out
}

func (vp *ViewPoint) NumActive() int { return len(vp.ActiveSegments()) }

// Resolved reports whether the design selected at least one fragment.
func (vp *ViewPoint) Resolved() bool { return vp.NumActive() > 0 }

// ActiveBaits returns the baits of every selected fragment.
func (vp *ViewPoint) ActiveBaits() []Bait {
	var out []Bait
	for _, s := range vp.ActiveSegments() {
		out = append(out, s.Baits()...)
	}
	return out
}

// TotalActiveLength sums the lengths of the selected fragments.
func (vp *ViewPoint) TotalActiveLength() int {
	n := 0
	for _, s := range vp.ActiveSegments() {
		n += s.Length()
	}
	return n
}

// UpstreamSpan is the realised distance covered upstream of the anchor in
// the direction of transcription.
func (vp *ViewPoint) UpstreamSpan() int {
	if vp.PositiveStrand {
		return vp.Pos - vp.Start
	}
	return vp.End - vp.Pos
}

// DownstreamSpan is the downstream counterpart of UpstreamSpan.
func (vp *ViewPoint) DownstreamSpan() int {
	if vp.PositiveStrand {
		return vp.End - vp.Pos
	}
	return vp.Pos - vp.Start
}

// RefreshStartAndEndPos sets Start and End to the bounds of the selected
// fragments. Without a selection the previous bounds are kept.
func (vp *ViewPoint) RefreshStartAndEndPos() {
	active := vp.ActiveSegments()
	if len(active) == 0 {
		return
	}
	vp.Start, vp.End = active[0].Start, active[0].End
	for _, s := range active[1:] {
		vp.Start = min(vp.Start, s.Start)
		vp.End = max(vp.End, s.End)
	}
}

// ResetSegmentsToOriginalState undoes selection edits.
func (vp *ViewPoint) ResetSegmentsToOriginalState() {
	for _, s := range vp.Segments {
		s.Selected = s.OriginallySelected
	}
	vp.RefreshStartAndEndPos()
	vp.Rescore()
}

// WasModified reports whether any fragment's selection differs from the
// designed state.
func (vp *ViewPoint) WasModified() bool {
	for _, s := range vp.Segments {
		if s.Selected != s.OriginallySelected {
			return true
		}
	}
	return false
}

// SetSegmentSelected changes the selection of fragment i and updates bounds
// and score.
func (vp *ViewPoint) SetSegmentSelected(i int, selected bool) error {
	if i < 0 || i >= len(vp.Segments) {
		return fmt.Errorf("segment index %d out of range [0,%d)", i, len(vp.Segments))
	}
	vp.Segments[i].Selected = selected
	vp.RefreshStartAndEndPos()
	vp.Rescore()
	return nil
}

// Rescore recomputes Score from the current selection. Simple viewpoints
// score each run of adjacent selected fragments separately, so unselected
// fragments between runs add nothing.
func (vp *ViewPoint) Rescore() {
	active := vp.ActiveSegments()
	switch vp.Approach {
	case Extended:
		vp.Score = ExtendedScore(spansOf(active), vp.Pos, vp.UpstreamLength, vp.DownstreamLength, vp.PositiveStrand)
	case Simple:
		score := 0.0
		for _, r := range mergeAdjacent(spansOf(active)) {
			score += SimpleScore(r.Start, r.End, vp.Pos, vp.meanFragLen)
		}
		vp.Score = score
	}
}

// mergeAdjacent joins touching spans; spans must be sorted by Start.
func mergeAdjacent(spans []Span) []Span {
	var out []Span
	for _, sp := range spans {
		if n := len(out); n > 0 && sp.Start <= out[n-1].End+1 {
			out[n-1].End = max(out[n-1].End, sp.End)
			continue
		}
		out = append(out, sp)
	}
	return out
}

// Zoom rebuilds the fragment list for the search window scaled by factor
// (relative to the configured window). Fragments that survive keep their
// selection state; new fragments start unselected. Bounds and score are
// recomputed.
func (vp *ViewPoint) Zoom(c Context, factor float64) error {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("zoom factor must be positive, got %v", factor)
	}
	type state struct{ selected, original bool }
	prev := make(map[Span]state, len(vp.Segments))
	for _, s := range vp.Segments {
		prev[Span{s.Start, s.End}] = state{s.Selected, s.OriginallySelected}
	}
	if err := vp.initSegments(c, factor); err != nil {
		return err
	}
	vp.zoom = factor
	for _, s := range vp.Segments {
		if st, ok := prev[Span{s.Start, s.End}]; ok {
			s.Selected, s.OriginallySelected = st.selected, st.original
		}
	}
	vp.RefreshStartAndEndPos()
	vp.Rescore()
	return nil
}

// ZoomFactor is the current window scale, 1 after Build.
func (vp *ViewPoint) ZoomFactor() float64 { return vp.zoom }

func (vp *ViewPoint) String() string {
	return fmt.Sprintf("%s %s:%d-%d (%s, %d/%d active, score %.3f)",
		vp.Name, vp.Chrom, vp.Start, vp.End, vp.Approach, vp.NumActive(), len(vp.Segments), vp.Score)
}

func spansOf(segs []*Segment) []Span {
	out := make([]Span, len(segs))
	for i, s := range segs {
		out[i] = Span{s.Start, s.End}
	}
	return out
}
