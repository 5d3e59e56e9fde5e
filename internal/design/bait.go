package design

import (
	"fmt"

	"vpdesign/internal/alignability"
)

// Bait is a fixed-length capture probe window, one-based and inclusive.
type Bait struct {
	RefID      string
	Start, End int

	GC     float64
	Repeat float64
	// Alignability is the mean k-mer alignability score over the bait, or
	// alignability.NoData (-1) when any position is unscored.
	Alignability float64
}

// NewBait scores the window [start,end] whose bases are seq.
//
// The alignability range stops kmerSize-1 bases before end so that every
// k-mer considered lies inside the bait.
func NewBait(refID string, start, end int, seq []byte, amap *alignability.Map) Bait {
	b := Bait{
		RefID:        refID,
		Start:        start,
		End:          end,
		GC:           gcContent(seq),
		Repeat:       repeatContent(seq),
		Alignability: alignability.NoData,
	}
	if amap == nil {
		return b
	}
	to := end - amap.KmerSize + 1
	if to < start {
		to = start
	}
	if mean, err := amap.MeanScore(start, to); err == nil {
		b.Alignability = mean
	}
	return b
}

// IsUsable reports whether GC content lies in [minGC,maxGC] and the mean
// alignability is scored and at most maxAlignability.
//
// Repeat content is not checked here. It is computed for reporting only;
// whether it should also gate usability is an open question.
func (b Bait) IsUsable(minGC, maxGC, maxAlignability float64) bool {
	if b.Alignability < 0 {
		return false
	}
	return b.GC >= minGC && b.GC <= maxGC && b.Alignability <= maxAlignability
}

func (b Bait) Length() int { return b.End - b.Start + 1 }

func (b Bait) String() string {
	return fmt.Sprintf("%s:%d-%d gc=%.2f rep=%.2f align=%.2f", b.RefID, b.Start, b.End, b.GC, b.Repeat, b.Alignability)
}
