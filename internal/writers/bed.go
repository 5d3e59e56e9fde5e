package writers

import (
	"bufio"
	"fmt"
	"io"

	"vpdesign/internal/design"
)

func init() {
	Register("bed", writeFragmentsBED)
	Register("probes", writeProbesBED)
}

// featureName labels exported intervals with gene and accession.
func featureName(vp *design.ViewPoint) string {
	if vp.Accession == "" {
		return vp.Name
	}
	return vp.Name + "|" + vp.Accession
}

// writeFragmentsBED writes the selected fragments as BED6 (zero-based,
// half-open).
func writeFragmentsBED(w io.Writer, vps []*design.ViewPoint, opt Options) error {
	bw := bufio.NewWriter(w)
	if opt.Header {
		if _, err := fmt.Fprintf(bw, "track name=%s_fragments description=\"selected restriction fragments\"\n", opt.Source); err != nil {
			return err
		}
	}
	for _, vp := range vps {
		for _, s := range vp.ActiveSegments() {
			if err := bedLine(bw, vp.Chrom, s.Start, s.End, featureName(vp), strand(vp.PositiveStrand)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// writeProbesBED writes every bait on a selected fragment. Baits shared by
// overlapping viewpoints are written once.
func writeProbesBED(w io.Writer, vps []*design.ViewPoint, opt Options) error {
	type key struct {
		chrom      string
		start, end int
	}
	seen := map[key]struct{}{}
	bw := bufio.NewWriter(w)
	if opt.Header {
		if _, err := fmt.Fprintf(bw, "track name=%s_probes description=\"capture baits\"\n", opt.Source); err != nil {
			return err
		}
	}
	for _, vp := range vps {
		for _, b := range vp.ActiveBaits() {
			k := key{b.RefID, b.Start, b.End}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if err := bedLine(bw, b.RefID, b.Start, b.End, featureName(vp), "+"); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func bedLine(w io.Writer, chrom string, start, end int, name, strand string) error {
	_, err := fmt.Fprintf(w, "%s\t%d\t%d\t%s\t0\t%s\n", chrom, start-1, end, name, strand)
	return err
}
