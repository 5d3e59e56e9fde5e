// internal/fasta/index.go
package fasta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/biogo/hts/fai"
)

// Index is a samtools-compatible .fai index keyed by contig name.
type Index = fai.Index

// IndexPath is the conventional location of the index for a FASTA file.
func IndexPath(fastaPath string) string { return fastaPath + ".fai" }

// BuildIndex scans an uncompressed FASTA file and computes its index.
func BuildIndex(path string) (Index, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	idx, err := buildIndex(fh)
	if err != nil {
		return nil, fmt.Errorf("fasta index: %s: %w", path, err)
	}
	return idx, nil
}

// buildIndex keys records by the first word of the header, matching the
// IDs the streaming reader reports.
func buildIndex(r io.Reader) (Index, error) {
	raw, err := fai.NewIndex(r)
	if err != nil {
		return nil, err
	}
	idx := make(Index, len(raw))
	for name, rec := range raw {
		rec.Name = parseHeaderID([]byte(name))
		if _, dup := idx[rec.Name]; dup {
			return nil, fmt.Errorf("%w: %s", fai.ErrNonUnique, rec.Name)
		}
		idx[rec.Name] = rec
	}
	return idx, nil
}

// WriteIndex writes idx in .fai format, in file order.
func WriteIndex(w io.Writer, idx Index) error { return fai.WriteTo(w, idx) }

// ReadIndex parses a .fai index.
func ReadIndex(r io.Reader) (Index, error) {
	idx, err := fai.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("fai: %w", err)
	}
	for _, rec := range idx {
		if rec.Length > 0 && (rec.BasesPerLine <= 0 || rec.BytesPerLine < rec.BasesPerLine) {
			return nil, fmt.Errorf("fai: %s: invalid line geometry", rec.Name)
		}
	}
	return idx, nil
}

// contigOrder lists the contigs of idx in file order.
func contigOrder(idx Index) []string {
	recs := make([]fai.Record, 0, len(idx))
	for _, rec := range idx {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Start < recs[j].Start })
	names := make([]string, len(recs))
	for i, rec := range recs {
		names[i] = rec.Name
	}
	return names
}

// ErrNoIndex is returned by OpenIndexed when the .fai file is missing.
var ErrNoIndex = errors.New("fasta index not found")
