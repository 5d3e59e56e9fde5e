package fasta

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const plain = `>seq1 first
ACGT
>seq2
NNnn
`

func writeGz(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.fa.gz")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
	return path
}

func collect(t *testing.T, path string) []Record {
	t.Helper()
	var out []Record
	err := StreamRecordsPathCtx(context.Background(), path, func(r Record) error {
		out = append(out, r)
		return nil
	})
	if err != nil {
		t.Fatalf("stream %s: %v", path, err)
	}
	return out
}

func TestStreamGzip(t *testing.T) {
	recs := collect(t, writeGz(t, plain))
	if len(recs) != 2 || recs[0].ID != "seq1" || recs[1].ID != "seq2" {
		t.Fatalf("gzip parse failed, recs=%v", recs)
	}
}

func TestStreamPreservesCase(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.fa")
	if err := os.WriteFile(fn, []byte(plain), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	recs := collect(t, fn)
	if string(recs[1].Seq) != "NNnn" {
		t.Fatalf("soft-masked bases lost: %q", recs[1].Seq)
	}
}

func TestStreamStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = io.WriteString(w, plain)
		_ = w.Close()
	}()

	if n := len(collect(t, "-")); n != 2 {
		t.Fatalf("expected 2 records from stdin, got %d", n)
	}
}

func TestStreamCancelImmediately(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "x.fa")
	if err := os.WriteFile(fn, []byte(plain), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	err := StreamRecordsPathCtx(ctx, fn, func(Record) error { n++; return nil })
	if err != context.Canceled || n != 0 {
		t.Fatalf("want canceled with 0 records, got err=%v n=%d", err, n)
	}
}
