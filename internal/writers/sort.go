package writers

import (
	"sort"

	"vpdesign/internal/design"
)

// lessViewPoint defines a stable order for viewpoints (for --sort).
func lessViewPoint(a, b *design.ViewPoint) bool {
	if a.Chrom != b.Chrom {
		return a.Chrom < b.Chrom
	}
	if a.Pos != b.Pos {
		return a.Pos < b.Pos
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Accession < b.Accession
}

func sorted(vps []*design.ViewPoint) []*design.ViewPoint {
	out := append([]*design.ViewPoint(nil), vps...)
	sort.SliceStable(out, func(i, j int) bool { return lessViewPoint(out[i], out[j]) })
	return out
}
