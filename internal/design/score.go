package design

import "gonum.org/v1/gonum/stat/distuv"

// meanShift places the mode of each side's coverage curve a tenth of a
// standard deviation past the anchor, into that side.
const meanShift = 0.1

// Span is a one-based inclusive genomic interval.
type Span struct{ Start, End int }

// SimpleScore is the mass of Normal(0, meanFragLen/6), centred on the
// anchor, that falls inside [start,end]. It is 0 when meanFragLen <= 0.
func SimpleScore(start, end, anchor, meanFragLen int) float64 {
	if meanFragLen <= 0 || end < start {
		return 0
	}
	nd := distuv.Normal{Mu: 0, Sigma: float64(meanFragLen) / 6}
	return nd.CDF(float64(end-anchor)) - nd.CDF(float64(start-anchor))
}

// ExtendedScore sums, over spans, the coverage mass of two one-sided normal
// curves: one for the side of the anchor with lower coordinates and one for
// the higher side, each with standard deviation window/6. upstream and
// downstream are relative to transcription and are swapped for minus-strand
// anchors. The sum is not normalised and may exceed 1.
func ExtendedScore(spans []Span, anchor, upstream, downstream int, positive bool) float64 {
	lowW, highW := upstream, downstream
	if !positive {
		lowW, highW = downstream, upstream
	}
	low, lowOK := sideNormal(lowW, -1)
	high, highOK := sideNormal(highW, +1)

	score := 0.0
	for _, s := range spans {
		from, to := float64(s.Start-anchor), float64(s.End-anchor)
		if lowOK && from < 0 {
			score += low.CDF(min(to, 0)) - low.CDF(from)
		}
		if highOK && to > 0 {
			score += high.CDF(to) - high.CDF(max(from, 0))
		}
	}
	return score
}

// sideNormal returns the coverage curve for a half window of width w lying
// in direction dir (-1 lower coordinates, +1 higher).
func sideNormal(w int, dir float64) (distuv.Normal, bool) {
	if w <= 0 {
		return distuv.Normal{}, false
	}
	sd := float64(w) / 6
	return distuv.Normal{Mu: dir * meanShift * sd, Sigma: sd}, true
}
