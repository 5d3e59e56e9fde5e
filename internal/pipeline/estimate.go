package pipeline

import (
	"context"
	"fmt"

	"vpdesign/internal/design"
	"vpdesign/internal/enzyme"
)

// estimateChunk is the number of bases digested per read.
const estimateChunk = 1 << 20

// EstimateMeanFragmentLength digests contigs in silico and returns the mean
// restriction fragment length, counting the contig ends as fragment
// boundaries. Contigs missing from g are skipped.
func EstimateMeanFragmentLength(ctx context.Context, g design.Genome, contigs []string, enzymes []enzyme.Enzyme) (int, error) {
	if len(enzymes) == 0 {
		return 0, fmt.Errorf("%w: %w", ErrConfig, design.ErrNoEnzymes)
	}
	overlap := 0
	for _, e := range enzymes {
		overlap = max(overlap, len(e.Motif)-1)
	}

	bases, fragments := 0, 0
	for _, c := range contigs {
		n, err := g.Length(c)
		if err != nil || n == 0 {
			continue
		}
		cuts, err := countCuts(ctx, g, c, n, overlap, enzymes)
		if err != nil {
			return 0, err
		}
		bases += n
		fragments += cuts + 1
	}
	if fragments == 0 {
		return 0, fmt.Errorf("%w: no sequence to estimate fragment length from", ErrConfig)
	}
	return bases / fragments, nil
}

// countCuts counts distinct cut positions on one contig, reading it in
// overlapping chunks so that sites spanning a chunk boundary are seen once.
func countCuts(ctx context.Context, g design.Genome, contig string, length, overlap int, enzymes []enzyme.Enzyme) (int, error) {
	total := 0
	for start := 1; start <= length; start += estimateChunk {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		own := min(length, start+estimateChunk-1)
		seq, err := g.Subsequence(contig, start, min(length, own+overlap))
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrIO, err)
		}
		seen := map[int]struct{}{}
		for _, e := range enzymes {
			re, err := e.Regexp()
			if err != nil {
				return 0, fmt.Errorf("%w: enzyme %s: %w", ErrConfig, e.Name, err)
			}
			for off := 0; off < len(seq); {
				loc := re.FindIndex(seq[off:])
				if loc == nil {
					break
				}
				m := off + loc[0]
				if start+m > own {
					break
				}
				if cut := start + m + e.CutOffset; cut > 1 && cut <= length {
					seen[cut] = struct{}{}
				}
				off = m + 1
			}
		}
		total += len(seen)
	}
	return total, nil
}
