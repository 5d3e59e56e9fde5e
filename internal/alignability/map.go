// Package alignability holds per-chromosome k-mer alignability tracks as
// sorted breakpoint/score arrays and answers range queries over them.
//
// A score is the integer inverse of the bedGraph mappability fraction, so 1
// means unique and larger values mean more repetitive sequence. NoData marks
// positions without a score.
package alignability

import (
	"errors"
	"fmt"
	"sort"
)

// NoData is the score of positions that have no alignability record.
const NoData = -1

// ErrRange is returned by range queries whose end lies before their start.
var ErrRange = errors.New("alignability: invalid range")

// Map is the alignability track of one chromosome. It is immutable after
// construction and safe for concurrent readers.
type Map struct {
	Chrom    string
	KmerSize int
	// Length is the chromosome length; positions past it score NoData.
	Length int

	coords []int // one-based breakpoints, strictly increasing
	scores []int // score in effect from coords[i] up to coords[i+1]-1
}

// NewMap validates the breakpoint arrays and wraps them in a Map.
func NewMap(chrom string, coords, scores []int, kmerSize, length int) (*Map, error) {
	if len(coords) != len(scores) {
		return nil, fmt.Errorf("alignability %s: %d coordinates but %d scores", chrom, len(coords), len(scores))
	}
	for i := 1; i < len(coords); i++ {
		if coords[i] <= coords[i-1] {
			return nil, fmt.Errorf("alignability %s: coordinates not increasing at index %d", chrom, i)
		}
	}
	if len(coords) > 0 && coords[0] < 1 {
		return nil, fmt.Errorf("alignability %s: coordinate %d is not one-based", chrom, coords[0])
	}
	if kmerSize < 1 {
		return nil, fmt.Errorf("alignability %s: kmer size %d", chrom, kmerSize)
	}
	return &Map{Chrom: chrom, KmerSize: kmerSize, Length: length, coords: coords, scores: scores}, nil
}

// Breakpoints returns copies of the coordinate and score arrays.
func (m *Map) Breakpoints() (coords, scores []int) {
	return append([]int(nil), m.coords...), append([]int(nil), m.scores...)
}

// ScoreOverRange returns the score of every position in [from, to].
func (m *Map) ScoreOverRange(from, to int) ([]int, error) {
	if to < from {
		return nil, fmt.Errorf("%w: %s:%d-%d", ErrRange, m.Chrom, from, to)
	}
	out := make([]int, 0, to-from+1)
	// index of the breakpoint at or before from; -1 when from precedes all
	i := sort.SearchInts(m.coords, from+1) - 1
	for pos := from; pos <= to; pos++ {
		for i+1 < len(m.coords) && m.coords[i+1] <= pos {
			i++
		}
		switch {
		case i < 0, pos < 1, m.Length > 0 && pos > m.Length:
			out = append(out, NoData)
		default:
			out = append(out, m.scores[i])
		}
	}
	return out, nil
}

// MeanScore is the mean score over [from, to], or NoData as soon as any
// position in the range is unscored.
func (m *Map) MeanScore(from, to int) (float64, error) {
	scores, err := m.ScoreOverRange(from, to)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, s := range scores {
		if s == NoData {
			return NoData, nil
		}
		sum += s
	}
	return float64(sum) / float64(len(scores)), nil
}
