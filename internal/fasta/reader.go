// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"vpdesign/internal/common"
)

// Record is one FASTA sequence. Letter case is preserved: soft-masked
// (lower-case) bases mark repeats and are counted downstream.
type Record struct {
	ID  string
	Seq []byte
}

// StreamRecordsPathCtx opens path and calls emit once per record.
// Cancellation via ctx is honored between lines.
// Return a non-nil error from emit to stop early.
func StreamRecordsPathCtx(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := common.OpenReader(path)
	if err != nil {
		return err
	}
	defer rc.Close()
	return StreamRecordsCtx(ctx, rc, emit)
}

// StreamRecordsCtx parses FASTA from r and calls emit once per record.
func StreamRecordsCtx(ctx context.Context, r io.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		id   string
		seen bool
		seq  = make([]byte, 0, 1<<20)
	)
	flush := func() error {
		if !seen {
			return nil
		}
		return emit(Record{ID: id, Seq: append([]byte(nil), seq...)})
	}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			seq = seq[:0]
			id = parseHeaderID(line[1:])
			seen = true
			continue
		}
		if !seen {
			return fmt.Errorf("fasta: sequence data before first header")
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("fasta scan: %w", err)
	}
	return flush()
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
