package writers

import (
	"io"
	"strconv"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	"vpdesign/internal/design"
)

func init() {
	Register("gff", writeGFF)
}

// writeGFF writes one "viewpoint" feature per viewpoint and one
// "restriction_fragment" feature per selected fragment.
func writeGFF(w io.Writer, vps []*design.ViewPoint, opt Options) error {
	gw := gff.NewWriter(w, 60, true)
	for _, vp := range vps {
		st := seq.Plus
		if !vp.PositiveStrand {
			st = seq.Minus
		}
		score := vp.Score
		f := &gff.Feature{
			SeqName:    vp.Chrom,
			Source:     opt.Source,
			Feature:    "viewpoint",
			FeatStart:  vp.Start - 1,
			FeatEnd:    vp.End,
			FeatScore:  &score,
			FeatStrand: st,
			FeatFrame:  gff.NoFrame,
			FeatAttributes: gff.Attributes{
				{Tag: "Name", Value: `"` + vp.Name + `"`},
				{Tag: "Accession", Value: `"` + vp.Accession + `"`},
				{Tag: "Anchor", Value: strconv.Itoa(vp.Pos)},
				{Tag: "Approach", Value: vp.Approach.String()},
			},
		}
		if _, err := gw.Write(f); err != nil {
			return err
		}
		for i, s := range vp.Segments {
			if !s.Selected {
				continue
			}
			sf := &gff.Feature{
				SeqName:    vp.Chrom,
				Source:     opt.Source,
				Feature:    "restriction_fragment",
				FeatStart:  s.Start - 1,
				FeatEnd:    s.End,
				FeatStrand: st,
				FeatFrame:  gff.NoFrame,
				FeatAttributes: gff.Attributes{
					{Tag: "Parent", Value: `"` + vp.Name + `"`},
					{Tag: "Index", Value: strconv.Itoa(i)},
					{Tag: "Class", Value: s.Class().String()},
					{Tag: "Baits", Value: strconv.Itoa(s.BaitCount())},
				},
			}
			if _, err := gw.Write(sf); err != nil {
				return err
			}
		}
	}
	return nil
}
