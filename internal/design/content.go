package design

// Genome is random access to reference bases. Coordinates are one-based and
// inclusive. Implementations must be safe for concurrent readers.
type Genome interface {
	Subsequence(contig string, start, end int) ([]byte, error)
	Length(contig string) (int, error)
}

// gcContent is the G+C fraction of seq, 0 for an empty sequence.
func gcContent(seq []byte) float64 {
	if len(seq) == 0 {
		return 0
	}
	n := 0
	for _, b := range seq {
		switch b {
		case 'G', 'C', 'g', 'c':
			n++
		}
	}
	return float64(n) / float64(len(seq))
}

// repeatContent is the soft-masked (lower-case) fraction of the letters in
// seq, 0 when seq holds no letters.
func repeatContent(seq []byte) float64 {
	lower, upper := 0, 0
	for _, b := range seq {
		switch {
		case b >= 'a' && b <= 'z':
			lower++
		case b >= 'A' && b <= 'Z':
			upper++
		}
	}
	if lower+upper == 0 {
		return 0
	}
	return float64(lower) / float64(lower+upper)
}
