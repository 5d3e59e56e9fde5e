// Package anchor loads the genomic positions (usually transcription start
// sites) that viewpoints are built around.
package anchor

import (
	"fmt"
	"strings"
)

// Anchor is a one-based genomic position with its gene/transcript labels.
type Anchor struct {
	Chrom     string
	Pos       int
	Name      string
	Strand    string // "+" or "-"
	Accession string
}

// PositiveStrand reports whether the anchor is on the forward strand. An
// unknown strand is treated as forward.
func (a Anchor) PositiveStrand() bool { return a.Strand != "-" }

func (a Anchor) String() string {
	return fmt.Sprintf("%s %s:%d(%s)", a.Name, a.Chrom, a.Pos, a.Strand)
}

// Group lists the indices of anchors that share a chromosome.
type Group struct {
	Chrom   string
	Members []int
}

// GroupByChrom groups anchors by chromosome, ordering groups by first
// appearance and members by input order.
func GroupByChrom(list []Anchor) []Group {
	idx := map[string]int{}
	var out []Group
	for i, a := range list {
		g, ok := idx[a.Chrom]
		if !ok {
			g = len(out)
			idx[a.Chrom] = g
			out = append(out, Group{Chrom: a.Chrom})
		}
		out[g].Members = append(out[g].Members, i)
	}
	return out
}

// FilterByName keeps anchors whose Name or Accession matches one of names
// (case-insensitive) and reports the names that matched nothing.
func FilterByName(list []Anchor, names []string) (kept []Anchor, missing []string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToUpper(n)] = false
	}
	for _, a := range list {
		k1, k2 := strings.ToUpper(a.Name), strings.ToUpper(a.Accession)
		_, ok1 := want[k1]
		_, ok2 := want[k2]
		if !ok1 && !ok2 {
			continue
		}
		kept = append(kept, a)
		if ok1 {
			want[k1] = true
		}
		if ok2 {
			want[k2] = true
		}
	}
	for _, n := range names {
		if !want[strings.ToUpper(n)] {
			missing = append(missing, n)
		}
	}
	return kept, missing
}

func normStrand(s string) (string, error) {
	switch s {
	case "+", "-":
		return s, nil
	case ".", "":
		return "+", nil
	}
	return "", fmt.Errorf("bad strand %q", s)
}
