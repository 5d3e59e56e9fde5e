package writers

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"vpdesign/internal/design"
)

// TSVHeader is the column header of the tsv format.
const TSVHeader = "name\taccession\tchrom\tpos\tstrand\tapproach\tstart\tend\tscore\tactive_segments\ttotal_segments\tactive_length\tbaits\tresolved"

func init() {
	Register("tsv", writeTSV)
}

func writeTSV(w io.Writer, vps []*design.ViewPoint, opt Options) error {
	bw := bufio.NewWriter(w)
	if opt.Header {
		if _, err := fmt.Fprintln(bw, TSVHeader); err != nil {
			return err
		}
	}
	for _, vp := range vps {
		if _, err := fmt.Fprintln(bw, tsvRow(vp)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func tsvRow(vp *design.ViewPoint) string {
	acc := vp.Accession
	if acc == "" {
		acc = "."
	}
	return strings.Join([]string{
		vp.Name,
		acc,
		vp.Chrom,
		fmt.Sprint(vp.Pos),
		strand(vp.PositiveStrand),
		vp.Approach.String(),
		fmt.Sprint(vp.Start),
		fmt.Sprint(vp.End),
		fmt.Sprintf("%.4f", vp.Score),
		fmt.Sprint(vp.NumActive()),
		fmt.Sprint(len(vp.Segments)),
		fmt.Sprint(vp.TotalActiveLength()),
		fmt.Sprint(len(vp.ActiveBaits())),
		fmt.Sprint(vp.Resolved()),
	}, "\t")
}
