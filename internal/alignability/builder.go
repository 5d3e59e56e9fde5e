package alignability

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"vpdesign/internal/common"
)

type record struct {
	chrom      string
	start, end int // one-based, inclusive
	score      int
}

// Builder turns a position-sorted bedGraph stream into one Map per
// chromosome. It makes a single pass and cannot be restarted; open a new
// Builder for another pass.
type Builder struct {
	sc        *bufio.Scanner
	chromLens map[string]int
	kmerSize  int

	line    int
	pending *record
	done    map[string]struct{}
	closers []io.Closer
	err     error
}

// NewBuilder reads the chromInfo table eagerly and prepares to stream
// bedGraph. chromInfo may be nil, in which case no trailing NoData
// breakpoint is added and each Map's Length is its recorded extent.
func NewBuilder(bedGraph io.Reader, chromInfo io.Reader, kmerSize int) (*Builder, error) {
	if kmerSize < 1 {
		return nil, fmt.Errorf("alignability: kmer size must be >= 1, got %d", kmerSize)
	}
	lens := map[string]int{}
	if chromInfo != nil {
		var err error
		if lens, err = ReadChromInfo(chromInfo); err != nil {
			return nil, err
		}
	}
	sc := bufio.NewScanner(bedGraph)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	return &Builder{sc: sc, chromLens: lens, kmerSize: kmerSize, done: map[string]struct{}{}}, nil
}

// OpenBuilder opens the bedGraph and chromInfo files (plain or gzip). Close
// releases them.
func OpenBuilder(bedGraphPath, chromInfoPath string, kmerSize int) (*Builder, error) {
	var ci io.ReadCloser
	if chromInfoPath != "" {
		var err error
		if ci, err = common.OpenReader(chromInfoPath); err != nil {
			return nil, err
		}
		defer ci.Close()
	}
	bg, err := common.OpenReader(bedGraphPath)
	if err != nil {
		return nil, err
	}
	b, err := NewBuilder(bg, ci, kmerSize)
	if err != nil {
		_ = bg.Close()
		return nil, err
	}
	b.closers = append(b.closers, bg)
	return b, nil
}

// ChromLength reports the chromInfo length of chrom.
func (b *Builder) ChromLength(chrom string) (int, bool) {
	n, ok := b.chromLens[chrom]
	return n, ok
}

// Close releases files opened by OpenBuilder.
func (b *Builder) Close() error {
	var err error
	for _, c := range b.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	b.closers = nil
	return err
}

// Next returns the Map of the next chromosome in the stream, or io.EOF.
func (b *Builder) Next() (*Map, error) {
	if b.err != nil {
		return nil, b.err
	}
	first := b.pending
	b.pending = nil
	if first == nil {
		r, err := b.read()
		if err != nil {
			b.err = err
			return nil, err
		}
		first = r
	}
	if _, seen := b.done[first.chrom]; seen {
		b.err = fmt.Errorf("alignability line %d: %s appears in more than one block (input not sorted)", b.line, first.chrom)
		return nil, b.err
	}

	var coords, scores []int
	push := func(pos, score int) {
		if n := len(scores); n > 0 && scores[n-1] == score {
			return
		}
		coords = append(coords, pos)
		scores = append(scores, score)
	}
	if first.start > 1 {
		push(1, NoData)
	}
	push(first.start, first.score)
	lastEnd := first.end

	for {
		r, err := b.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			b.err = err
			return nil, err
		}
		if r.chrom != first.chrom {
			b.pending = r
			break
		}
		if r.start <= lastEnd {
			b.err = fmt.Errorf("alignability line %d: %s:%d overlaps or precedes previous record ending at %d", b.line, r.chrom, r.start, lastEnd)
			return nil, b.err
		}
		if r.start > lastEnd+1 {
			push(lastEnd+1, NoData)
		}
		push(r.start, r.score)
		lastEnd = r.end
	}

	length, known := b.chromLens[first.chrom]
	if !known || length < lastEnd {
		length = lastEnd
	}
	if lastEnd < length {
		push(lastEnd+1, NoData)
	}
	b.done[first.chrom] = struct{}{}
	return NewMap(first.chrom, coords, scores, b.kmerSize, length)
}

func (b *Builder) read() (*record, error) {
	for b.sc.Scan() {
		b.line++
		line := strings.TrimSpace(b.sc.Text())
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 4 {
			return nil, fmt.Errorf("alignability line %d: want 4 fields, got %d", b.line, len(f))
		}
		start0, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("alignability line %d: start: %w", b.line, err)
		}
		end, err := strconv.Atoi(f[2])
		if err != nil {
			return nil, fmt.Errorf("alignability line %d: end: %w", b.line, err)
		}
		raw, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return nil, fmt.Errorf("alignability line %d: score: %w", b.line, err)
		}
		if start0 < 0 || end <= start0 {
			return nil, fmt.Errorf("alignability line %d: empty interval %d-%d", b.line, start0, end)
		}
		return &record{chrom: f[0], start: start0 + 1, end: end, score: scoreFromFraction(raw)}, nil
	}
	if err := b.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// scoreFromFraction converts a mappability fraction (1/number of genomic
// occurrences of the k-mer) into an occurrence count.
func scoreFromFraction(raw float64) int {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return NoData
	}
	return int(math.Round(1 / raw))
}

// ReadChromInfo parses a UCSC chromInfo table: name, length, optional extra
// columns.
func ReadChromInfo(r io.Reader) (map[string]int, error) {
	out := map[string]int{}
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) < 2 {
			return nil, fmt.Errorf("chromInfo line %d: want at least 2 fields", ln)
		}
		n, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("chromInfo line %d: length: %w", ln, err)
		}
		out[f[0]] = n
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
