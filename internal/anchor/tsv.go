package anchor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vpdesign/internal/common"
)

// LoadTSV reads a whitespace-separated anchor file with columns
// chrom pos name strand [accession]
// pos is one-based; gzip input is accepted. Blank lines and '#' comments are skipped.
func LoadTSV(path string) ([]Anchor, error) {
	rc, err := common.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	list, err := ReadTSV(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

func ReadTSV(r io.Reader) ([]Anchor, error) {
	var list []Anchor
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 4 || len(f) > 5 {
			return nil, fmt.Errorf("line %d: bad field count", ln)
		}
		pos, err := strconv.Atoi(f[1])
		if err != nil || pos < 1 {
			return nil, fmt.Errorf("line %d: bad position %q", ln, f[1])
		}
		strand, err := normStrand(f[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ln, err)
		}
		a := Anchor{Chrom: f[0], Pos: pos, Name: f[2], Strand: strand}
		if len(f) == 5 {
			a.Accession = f[4]
		}
		list = append(list, a)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
