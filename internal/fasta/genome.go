// internal/fasta/genome.go
package fasta

import (
	"context"
	"fmt"
)

// Genome is an in-memory sequence store for small references and tests.
// It is read-only after construction.
type Genome struct {
	seqs  map[string][]byte
	order []string
}

// NewGenome builds a Genome from records. Later duplicates replace earlier ones.
func NewGenome(recs ...Record) *Genome {
	g := &Genome{seqs: make(map[string][]byte, len(recs))}
	for _, r := range recs {
		if _, dup := g.seqs[r.ID]; !dup {
			g.order = append(g.order, r.ID)
		}
		g.seqs[r.ID] = r.Seq
	}
	return g
}

// LoadGenome reads a whole FASTA file (plain or gzip) into memory.
func LoadGenome(ctx context.Context, path string) (*Genome, error) {
	var recs []Record
	err := StreamRecordsPathCtx(ctx, path, func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewGenome(recs...), nil
}

func (g *Genome) Contigs() []string { return append([]string(nil), g.order...) }

func (g *Genome) Length(contig string) (int, error) {
	s, ok := g.seqs[contig]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownContig, contig)
	}
	return len(s), nil
}

// Subsequence returns bases [start,end], one-based and inclusive. The slice
// aliases the stored sequence and must not be modified.
func (g *Genome) Subsequence(contig string, start, end int) ([]byte, error) {
	s, ok := g.seqs[contig]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContig, contig)
	}
	if start < 1 || end > len(s) || end < start {
		return nil, fmt.Errorf("%w: %s:%d-%d (length %d)", ErrOutOfRange, contig, start, end, len(s))
	}
	return s[start-1 : end], nil
}
