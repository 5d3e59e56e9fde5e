package writers

import (
	"vpdesign/internal/design"
	"vpdesign/pkg/api"
)

func strand(positive bool) string {
	if positive {
		return "+"
	}
	return "-"
}

// ToAPIViewPoint converts a viewpoint to the v1 wire schema.
func ToAPIViewPoint(vp *design.ViewPoint) api.ViewPointV1 {
	out := api.ViewPointV1{
		Name:           vp.Name,
		Accession:      vp.Accession,
		Chrom:          vp.Chrom,
		Pos:            vp.Pos,
		Strand:         strand(vp.PositiveStrand),
		Approach:       vp.Approach.String(),
		Start:          vp.Start,
		End:            vp.End,
		Score:          vp.Score,
		Resolved:       vp.Resolved(),
		Modified:       vp.WasModified(),
		UpstreamSpan:   vp.UpstreamSpan(),
		DownstreamSpan: vp.DownstreamSpan(),
		ActiveLength:   vp.TotalActiveLength(),
		ActiveCount:    vp.NumActive(),
		Segments:       make([]api.SegmentV1, 0, len(vp.Segments)),
	}
	for _, s := range vp.Segments {
		seg := api.SegmentV1{
			Start:          s.Start,
			End:            s.End,
			Length:         s.Length(),
			Selected:       s.Selected,
			Class:          s.Class().String(),
			OverlapsAnchor: s.OverlapsAnchor,
			GC:             s.GC,
			Repeat:         s.Repeat,
			GCUp:           s.GCUp,
			GCDown:         s.GCDown,
			RepeatUp:       s.RepeatUp,
			RepeatDown:     s.RepeatDown,
		}
		for _, b := range s.BaitsUp() {
			seg.Baits = append(seg.Baits, toAPIBait(b, "up"))
		}
		for _, b := range s.BaitsDown() {
			seg.Baits = append(seg.Baits, toAPIBait(b, "down"))
		}
		out.Segments = append(out.Segments, seg)
	}
	return out
}

func toAPIBait(b design.Bait, margin string) api.BaitV1 {
	return api.BaitV1{
		Start:        b.Start,
		End:          b.End,
		Margin:       margin,
		GC:           b.GC,
		Repeat:       b.Repeat,
		Alignability: b.Alignability,
	}
}
