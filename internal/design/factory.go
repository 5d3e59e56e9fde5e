package design

import (
	"fmt"
	"sort"

	"vpdesign/internal/enzyme"
)

// SegmentFactory finds the restriction cut positions in a window around an
// anchor. Cut c means a fragment starts at c; fragment i of the sorted union
// spans [cuts[i], cuts[i+1]-1].
type SegmentFactory struct {
	Chrom       string
	Pos         int
	ChromLength int

	windowStart, windowEnd int
	byEnzyme               map[string][]int
	all                    []int
}

// NewSegmentFactory scans [pos-maxUp, pos+maxDown], clamped to the
// chromosome, for every enzyme motif. Matches are found case-insensitively
// and may overlap.
func NewSegmentFactory(g Genome, chrom string, pos, chromLen, maxUp, maxDown int, enzymes []enzyme.Enzyme) (*SegmentFactory, error) {
	if len(enzymes) == 0 {
		return nil, ErrNoEnzymes
	}
	if pos < 1 || pos > chromLen {
		return nil, fmt.Errorf("anchor %s:%d outside chromosome of length %d", chrom, pos, chromLen)
	}
	f := &SegmentFactory{
		Chrom:       chrom,
		Pos:         pos,
		ChromLength: chromLen,
		windowStart: max(1, pos-maxUp),
		windowEnd:   min(chromLen, pos+maxDown),
		byEnzyme:    make(map[string][]int, len(enzymes)),
	}
	seq, err := g.Subsequence(chrom, f.windowStart, f.windowEnd)
	if err != nil {
		return nil, err
	}

	seen := map[int]struct{}{}
	for _, e := range enzymes {
		re, err := e.Regexp()
		if err != nil {
			return nil, fmt.Errorf("enzyme %s: %w", e.Name, err)
		}
		var cuts []int
		for off := 0; off < len(seq); {
			loc := re.FindIndex(seq[off:])
			if loc == nil {
				break
			}
			m := off + loc[0]
			if cut := f.windowStart + m + e.CutOffset; cut <= f.windowEnd {
				cuts = append(cuts, cut)
				if _, dup := seen[cut]; !dup {
					seen[cut] = struct{}{}
					f.all = append(f.all, cut)
				}
			}
			off = m + 1
		}
		f.byEnzyme[e.Name] = cuts
	}
	sort.Ints(f.all)
	return f, nil
}

// AllCuts returns the sorted, deduplicated cut positions of all enzymes.
func (f *SegmentFactory) AllCuts() []int { return append([]int(nil), f.all...) }

// CutsFor returns the cut positions of one enzyme in ascending order.
func (f *SegmentFactory) CutsFor(name string) []int {
	return append([]int(nil), f.byEnzyme[name]...)
}

// NumSegments is the number of fragments bounded by two cuts.
func (f *SegmentFactory) NumSegments() int { return max(0, len(f.all)-1) }

// UpstreamCut is the cut opening fragment i (its first base).
func (f *SegmentFactory) UpstreamCut(i int) int { return f.all[i] }

// DownstreamCut is the cut closing fragment i; the fragment ends one base
// before it.
func (f *SegmentFactory) DownstreamCut(i int) int { return f.all[i+1] }

// NumCutsUpstreamOf counts cuts strictly before pos.
func (f *SegmentFactory) NumCutsUpstreamOf(pos int) int {
	return sort.SearchInts(f.all, pos)
}

// NumCutsDownstreamOf counts cuts strictly after pos.
func (f *SegmentFactory) NumCutsDownstreamOf(pos int) int {
	return len(f.all) - sort.SearchInts(f.all, pos+1)
}

func (f *SegmentFactory) WindowStart() int { return f.windowStart }
func (f *SegmentFactory) WindowEnd() int   { return f.windowEnd }

func (f *SegmentFactory) ReachedChromStart() bool { return f.windowStart <= 1 }
func (f *SegmentFactory) ReachedChromEnd() bool   { return f.windowEnd >= f.ChromLength }
