package anchor

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"vpdesign/internal/common"
)

// DefaultGFFTypes are the feature types whose 5' end is taken as an anchor.
var DefaultGFFTypes = []string{"transcript", "mRNA", "gene"}

// LoadGFF reads anchors from a GFF/GTF file (plain or gzip).
func LoadGFF(path string, types ...string) ([]Anchor, error) {
	rc, err := common.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	list, err := ReadGFF(rc, types...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// ReadGFF takes the 5' end of every feature whose type is in types
// (DefaultGFFTypes when empty): the first base on the plus strand, the last
// on the minus strand. Names come from the gene_name, Name, gene_id or ID
// attribute, accessions from transcript_id or ID.
func ReadGFF(r io.Reader, types ...string) ([]Anchor, error) {
	if len(types) == 0 {
		types = DefaultGFFTypes
	}
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	in := gff.NewReader(r)
	var list []Anchor
	for {
		f, err := in.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		gf, ok := f.(*gff.Feature)
		if !ok || !want[gf.Feature] {
			continue
		}
		a := Anchor{
			Chrom:     gf.SeqName,
			Name:      attr(gf, "gene_name", "Name", "gene_id", "ID"),
			Accession: attr(gf, "transcript_id", "ID"),
			Strand:    "+",
			// biogo features are zero-based half-open
			Pos: gf.FeatStart + 1,
		}
		if gf.FeatStrand == seq.Minus {
			a.Strand = "-"
			a.Pos = gf.FeatEnd
		}
		list = append(list, a)
	}
	return list, nil
}

// attr returns the first non-empty attribute among keys. GTF-style
// (tag "value") and GFF3-style (tag=value) attributes are both accepted.
func attr(gf *gff.Feature, keys ...string) string {
	for _, k := range keys {
		if v := strings.Trim(gf.FeatAttributes.Get(k), `" `); v != "" {
			return v
		}
		for _, a := range gf.FeatAttributes {
			for _, part := range strings.Split(a.Tag+" "+a.Value, ";") {
				if t, v, ok := strings.Cut(strings.TrimSpace(part), "="); ok && t == k {
					return strings.Trim(v, `" `)
				}
			}
		}
	}
	return ""
}
