package design

// selectable reports whether s may be enriched under p.
func selectable(s *Segment, p Params) bool {
	if s.Length() < p.MinFragmentSize {
		return false
	}
	return s.IsBalanced() || (s.IsUnbalanced() && p.AllowUnbalanced)
}

// applySimple selects the fragment holding the anchor and, when patching is
// allowed and coverage is poor, one neighbour on the less covered side.
func (vp *ViewPoint) applySimple(p Params) {
	for _, s := range vp.Segments {
		s.Selected = false
	}
	center, ok := vp.CenterSegment()
	if !ok || !selectable(center, p) {
		vp.Score = 0
		return
	}
	center.Selected = true
	vp.Start, vp.End = center.Start, center.End
	vp.Score = SimpleScore(center.Start, center.End, vp.Pos, p.MeanFragmentLength)
	if !p.AllowPatching || vp.Score >= patchThreshold {
		return
	}

	var lower, higher *Segment
	if vp.center > 0 {
		lower = vp.Segments[vp.center-1]
	}
	if vp.center+1 < len(vp.Segments) {
		higher = vp.Segments[vp.center+1]
	}
	r := simpleSpan(Span{center.Start, center.End}, vp.Pos, lower, higher, p)
	if r.patch == nil {
		return
	}
	r.patch.Selected = true
	vp.Start, vp.End, vp.Score = r.span.Start, r.span.End, r.score
}

type patchResult struct {
	span  Span
	score float64
	patch *Segment // nil when no neighbour was added
}

// simpleSpan computes the patched bounds and score for a centre span without
// changing any fragment. The neighbour is taken on the side where the anchor
// sits closer to the centre fragment's edge; ties go to the lower side.
func simpleSpan(center Span, anchor int, lower, higher *Segment, p Params) patchResult {
	r := patchResult{span: center, score: SimpleScore(center.Start, center.End, anchor, p.MeanFragmentLength)}
	next := higher
	if anchor-center.Start <= center.End-anchor {
		next = lower
	}
	if next == nil || !selectable(next, p) {
		return r
	}
	r.span = Span{min(center.Start, next.Start), max(center.End, next.End)}
	r.score = SimpleScore(r.span.Start, r.span.End, anchor, p.MeanFragmentLength)
	r.patch = next
	return r
}

// applyExtended selects every usable fragment that reaches into the search
// window.
func (vp *ViewPoint) applyExtended(p Params) {
	up, down := vp.genomicWindows(vp.zoom)
	from, to := vp.Pos-up, vp.Pos+down
	for _, s := range vp.Segments {
		s.Selected = true
		switch {
		case s.Length() < p.MinFragmentSize:
			s.Selected = false
		case !s.Overlaps(from, to):
			s.Selected = false
		case s.IsUnselectable():
			s.Selected = false
		case s.IsUnbalanced() && !p.AllowUnbalanced:
			s.Selected = false
		}
	}
	vp.RefreshStartAndEndPos()
	vp.Score = ExtendedScore(spansOf(vp.ActiveSegments()), vp.Pos, vp.UpstreamLength, vp.DownstreamLength, vp.PositiveStrand)
}
