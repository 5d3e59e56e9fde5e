// internal/pipeline/sim.go
package pipeline

import "vpdesign/internal/alignability"

// MapSource yields per-chromosome alignability maps in file order and
// io.EOF when exhausted. *alignability.Builder satisfies it.
type MapSource interface {
	Next() (*alignability.Map, error)
}

// chromSizer is implemented by sources that know the chromInfo sizes, which
// Run cross-checks against the genome.
type chromSizer interface {
	ChromLength(chrom string) (int, bool)
}
