package design

import (
	"fmt"

	"vpdesign/internal/alignability"
)

// Class is the bait-placement outcome of a Segment.
type Class int

const (
	Unclassified Class = iota
	// Unselectable fragments cannot carry enough usable baits.
	Unselectable
	// Balanced fragments meet the bait quota on both margins.
	Balanced
	// Unbalanced fragments reach the combined quota with asymmetric margins.
	Unbalanced
)

func (c Class) String() string {
	switch c {
	case Unselectable:
		return "unselectable"
	case Balanced:
		return "balanced"
	case Unbalanced:
		return "unbalanced"
	}
	return "unclassified"
}

// Segment is a restriction fragment [Start,End] (one-based, inclusive).
type Segment struct {
	RefID      string
	Start, End int
	MarginSize int

	Selected bool
	// OriginallySelected is the selection state the design produced; user
	// edits are detected against it.
	OriginallySelected bool
	OverlapsAnchor     bool

	GC, Repeat           float64
	GCUp, GCDown         float64
	RepeatUp, RepeatDown float64

	class     Class
	baitsUp   []Bait // ascending start
	baitsDown []Bait // descending start

	seq []byte // fragment bases, read once by NewSegment
}

// NewSegment fetches the fragment and computes whole-fragment and margin
// composition. Margins are the first and last MarginSize bases; when they
// would meet or overlap both equal the whole fragment.
func NewSegment(g Genome, refID string, start, end, marginSize int) (*Segment, error) {
	if end < start {
		return nil, fmt.Errorf("segment %s:%d-%d: end before start", refID, start, end)
	}
	seq, err := g.Subsequence(refID, start, end)
	if err != nil {
		return nil, fmt.Errorf("segment %s:%d-%d: %w", refID, start, end, err)
	}
	s := &Segment{RefID: refID, Start: start, End: end, MarginSize: marginSize, seq: seq}
	s.GC, s.Repeat = gcContent(seq), repeatContent(seq)
	if s.splitMargins() {
		up, down := seq[:marginSize], seq[len(seq)-marginSize:]
		s.GCUp, s.RepeatUp = gcContent(up), repeatContent(up)
		s.GCDown, s.RepeatDown = gcContent(down), repeatContent(down)
	} else {
		s.GCUp, s.GCDown = s.GC, s.GC
		s.RepeatUp, s.RepeatDown = s.Repeat, s.Repeat
	}
	return s, nil
}

func (s *Segment) Length() int { return s.End - s.Start + 1 }

func (s *Segment) splitMargins() bool { return 2*s.MarginSize < s.Length() }

// marginSpan is the number of bases a margin covers.
func (s *Segment) marginSpan() int {
	if s.splitMargins() {
		return s.MarginSize
	}
	return s.Length()
}

func (s *Segment) Class() Class         { return s.class }
func (s *Segment) IsBalanced() bool     { return s.class == Balanced }
func (s *Segment) IsUnbalanced() bool   { return s.class == Unbalanced }
func (s *Segment) IsUnselectable() bool { return s.class == Unselectable }

// Contains reports whether pos lies inside the fragment.
func (s *Segment) Contains(pos int) bool { return pos >= s.Start && pos <= s.End }

// Overlaps reports whether the fragment shares a base with [from,to].
func (s *Segment) Overlaps(from, to int) bool { return s.Start <= to && s.End >= from }

// BaitsUp returns the upstream-margin baits in ascending start order.
func (s *Segment) BaitsUp() []Bait { return append([]Bait(nil), s.baitsUp...) }

// BaitsDown returns the downstream-margin baits in descending start order.
func (s *Segment) BaitsDown() []Bait { return append([]Bait(nil), s.baitsDown...) }

// Baits returns all baits, upstream margin first.
func (s *Segment) Baits() []Bait {
	out := make([]Bait, 0, len(s.baitsUp)+len(s.baitsDown))
	out = append(out, s.baitsUp...)
	return append(out, s.baitsDown...)
}

func (s *Segment) BaitCount() int { return len(s.baitsUp) + len(s.baitsDown) }

func (s *Segment) SetSelected(v bool) { s.Selected = v }

func (s *Segment) String() string {
	return fmt.Sprintf("%s:%d-%d (%s, %d baits)", s.RefID, s.Start, s.End, s.class, s.BaitCount())
}

// SetUsableBaits places up to MinBaitCount usable baits on each margin and
// classifies the fragment. A margin short of its quota is compensated by
// topping up the other margin until the combined count reaches
// 2*MinBaitCount, which makes the fragment Unbalanced.
func (s *Segment) SetUsableBaits(p Params, amap *alignability.Map) {
	s.baitsUp, s.baitsDown = nil, nil
	if s.Length() < p.ProbeLength {
		s.class = Unselectable
		return
	}
	seq := s.seq
	if len(seq) != s.Length() {
		s.class = Unselectable
		return
	}

	quota := p.MinBaitCount
	s.baitsUp = s.placeUp(seq, quota, p, amap)
	s.baitsDown = s.placeDown(seq, quota, p, amap)
	s.RemoveRedundantBaits()

	up, down := len(s.baitsUp), len(s.baitsDown)
	switch {
	case up >= quota && down >= quota:
		s.class = Balanced
		return
	case up < quota && down < quota:
		s.class = Unselectable
		return
	}

	if up >= quota {
		s.baitsUp = s.placeUp(seq, 2*quota-down, p, amap)
	} else {
		s.baitsDown = s.placeDown(seq, 2*quota-up, p, amap)
	}
	s.RemoveRedundantBaits()
	if s.BaitCount() >= 2*quota {
		s.class = Unbalanced
	} else {
		s.class = Unselectable
	}
}

// placeUp scans left to right from the fragment start. Candidate baits start
// inside the upstream margin and end inside the fragment; after a usable
// bait the scan resumes past it.
func (s *Segment) placeUp(seq []byte, n int, p Params, amap *alignability.Map) []Bait {
	var out []Bait
	marginEnd := s.Start + s.marginSpan() - 1
	for start := s.Start; start <= marginEnd && len(out) < n; {
		end := start + p.ProbeLength - 1
		if end > s.End {
			break
		}
		b := NewBait(s.RefID, start, end, seq[start-s.Start:end-s.Start+1], amap)
		if b.IsUsable(p.MinGC, p.MaxGC, p.MaxAlignability) {
			out = append(out, b)
			start = end + 1
		} else {
			start++
		}
	}
	return out
}

// placeDown mirrors placeUp from the fragment end.
func (s *Segment) placeDown(seq []byte, n int, p Params, amap *alignability.Map) []Bait {
	var out []Bait
	marginStart := s.End - s.marginSpan() + 1
	for end := s.End; end >= marginStart && len(out) < n; {
		start := end - p.ProbeLength + 1
		if start < s.Start {
			break
		}
		b := NewBait(s.RefID, start, end, seq[start-s.Start:end-s.Start+1], amap)
		if b.IsUsable(p.MinGC, p.MaxGC, p.MaxAlignability) {
			out = append(out, b)
			end = start - 1
		} else {
			end--
		}
	}
	return out
}

// RemoveRedundantBaits drops downstream baits that duplicate an upstream
// bait, which happens when short fragments collapse both margins.
func (s *Segment) RemoveRedundantBaits() {
	type key struct {
		ref   string
		start int
	}
	up := make(map[key]struct{}, len(s.baitsUp))
	for _, b := range s.baitsUp {
		up[key{b.RefID, b.Start}] = struct{}{}
	}
	kept := s.baitsDown[:0]
	for _, b := range s.baitsDown {
		if _, dup := up[key{b.RefID, b.Start}]; !dup {
			kept = append(kept, b)
		}
	}
	s.baitsDown = kept
}
