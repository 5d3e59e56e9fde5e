// internal/fasta/indexed.go
package fasta

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/biogo/hts/fai"
)

var (
	ErrUnknownContig = errors.New("unknown contig")
	ErrOutOfRange    = errors.New("interval out of range")
)

// Indexed gives random access to an uncompressed FASTA file through its .fai
// index. Reads go through ReadAt, so one Indexed may be shared by many
// goroutines.
type Indexed struct {
	f     *os.File
	file  *fai.File
	index Index
	order []string
}

// OpenIndexed opens path and reads path.fai. A missing index yields ErrNoIndex.
func OpenIndexed(path string) (*Indexed, error) {
	ih, err := os.Open(IndexPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w (run the index command first)", path, ErrNoIndex)
		}
		return nil, err
	}
	idx, err := ReadIndex(ih)
	_ = ih.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", IndexPath(path), err)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &Indexed{f: fh, file: fai.NewFile(fh, idx), index: idx, order: contigOrder(idx)}, nil
}

func (x *Indexed) Close() error { return x.f.Close() }

// Contigs returns contig names in file order.
func (x *Indexed) Contigs() []string { return append([]string(nil), x.order...) }

// Length returns the number of bases of contig.
func (x *Indexed) Length(contig string) (int, error) {
	rec, ok := x.index[contig]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownContig, contig)
	}
	return rec.Length, nil
}

// Subsequence returns bases [start,end] (one-based, inclusive) of contig with
// their original letter case.
func (x *Indexed) Subsequence(contig string, start, end int) ([]byte, error) {
	rec, ok := x.index[contig]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContig, contig)
	}
	if start < 1 || end > rec.Length || end < start {
		return nil, fmt.Errorf("%w: %s:%d-%d (length %d)", ErrOutOfRange, contig, start, end, rec.Length)
	}
	s, err := x.file.SeqRange(contig, start-1, end)
	if err != nil {
		return nil, fmt.Errorf("read %s:%d-%d: %w", contig, start, end, err)
	}
	out, err := io.ReadAll(s)
	if err != nil {
		return nil, fmt.Errorf("read %s:%d-%d: %w", contig, start, end, err)
	}
	if len(out) != end-start+1 {
		return nil, fmt.Errorf("read %s:%d-%d: index does not match file", contig, start, end)
	}
	return out, nil
}
