package anchor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vpdesign/internal/common"
)

// LoadRefGene reads a UCSC refGene table (plain or gzip).
func LoadRefGene(path string) ([]Anchor, error) {
	rc, err := common.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	list, err := ReadRefGene(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// ReadRefGene takes the transcription start site of every transcript.
// Both the refGene layout (leading bin column) and plain genePred are
// accepted. Transcripts of the same gene sharing a TSS yield one anchor.
func ReadRefGene(r io.Reader) ([]Anchor, error) {
	type key struct {
		chrom, gene string
		pos         int
	}
	seen := map[key]struct{}{}
	var list []Anchor

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	ln := 0
	for sc.Scan() {
		ln++
		line := sc.Text()
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		f := strings.Split(line, "\t")
		off := 0 // genePred
		if len(f) > 3 && (f[3] == "+" || f[3] == "-") {
			off = 1 // refGene with bin
		}
		if len(f) < off+5 {
			return nil, fmt.Errorf("line %d: bad field count", ln)
		}
		acc, chrom, strand := f[off], f[off+1], f[off+2]
		if strand != "+" && strand != "-" {
			return nil, fmt.Errorf("line %d: bad strand %q", ln, strand)
		}
		txStart, err := strconv.Atoi(f[off+3])
		if err != nil {
			return nil, fmt.Errorf("line %d: txStart: %w", ln, err)
		}
		txEnd, err := strconv.Atoi(f[off+4])
		if err != nil {
			return nil, fmt.Errorf("line %d: txEnd: %w", ln, err)
		}
		gene := acc
		if len(f) > off+11 && f[off+11] != "" {
			gene = f[off+11]
		}
		pos := txStart + 1 // zero-based start -> one-based
		if strand == "-" {
			pos = txEnd
		}
		k := key{chrom, gene, pos}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		list = append(list, Anchor{Chrom: chrom, Pos: pos, Name: gene, Strand: strand, Accession: acc})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
