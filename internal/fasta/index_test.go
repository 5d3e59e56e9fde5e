package fasta

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/fai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wrapped = ">chrA desc\nACGTacgtAC\nGTACGTacgt\nAAC\n>chrB\nGGGG\nCC\n"

func writeIndexed(t *testing.T, data string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), "ref.fa")
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	idx, err := BuildIndex(fn)
	require.NoError(t, err)
	fh, err := os.Create(IndexPath(fn))
	require.NoError(t, err)
	require.NoError(t, WriteIndex(fh, idx))
	require.NoError(t, fh.Close())
	return fn
}

func TestBuildIndex(t *testing.T) {
	idx, err := buildIndex(strings.NewReader(wrapped))
	require.NoError(t, err)
	require.Len(t, idx, 2)
	assert.Equal(t, fai.Record{Name: "chrA", Length: 23, Start: 11, BasesPerLine: 10, BytesPerLine: 11}, idx["chrA"])
	assert.Equal(t, 6, idx["chrB"].Length)
	assert.Equal(t, 4, idx["chrB"].BasesPerLine)
	assert.Equal(t, []string{"chrA", "chrB"}, contigOrder(idx))
}

func TestIndexRoundTrip(t *testing.T) {
	idx, err := buildIndex(strings.NewReader(wrapped))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteIndex(&buf, idx))
	assert.True(t, strings.HasPrefix(buf.String(), "chrA\t23\t11\t10\t11\n"), buf.String())
	back, err := ReadIndex(&buf)
	require.NoError(t, err)
	assert.Equal(t, idx, back)
}

func TestReadIndex_BadGeometry(t *testing.T) {
	_, err := ReadIndex(strings.NewReader("chrA\t23\t11\t0\t1\n"))
	require.Error(t, err)
}

func TestIndexedSubsequence(t *testing.T) {
	x, err := OpenIndexed(writeIndexed(t, wrapped))
	require.NoError(t, err)
	defer x.Close()

	got, err := x.Subsequence("chrA", 7, 14)
	require.NoError(t, err)
	assert.Equal(t, "gtACGTAC", string(got), "crosses a line break and keeps case")

	got, err = x.Subsequence("chrA", 21, 23)
	require.NoError(t, err)
	assert.Equal(t, "AAC", string(got))

	n, err := x.Length("chrB")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	_, err = x.Subsequence("chrA", 20, 24)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = x.Length("chrZ")
	assert.True(t, errors.Is(err, ErrUnknownContig))
}

func TestOpenIndexed_MissingIndex(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "noidx.fa")
	require.NoError(t, os.WriteFile(fn, []byte(wrapped), 0o644))
	_, err := OpenIndexed(fn)
	assert.True(t, errors.Is(err, ErrNoIndex))
}

func TestGenomeMatchesIndexed(t *testing.T) {
	g := NewGenome(Record{ID: "chrA", Seq: []byte("ACGTacgtACGTACGTacgtAAC")})
	x, err := OpenIndexed(writeIndexed(t, wrapped))
	require.NoError(t, err)
	defer x.Close()
	for _, iv := range [][2]int{{1, 1}, {1, 23}, {9, 12}, {20, 23}} {
		a, err := g.Subsequence("chrA", iv[0], iv[1])
		require.NoError(t, err)
		b, err := x.Subsequence("chrA", iv[0], iv[1])
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), "interval %v", iv)
	}
}

func TestLoadGenome(t *testing.T) {
	g, err := LoadGenome(context.Background(), writeGz(t, wrapped))
	require.NoError(t, err)
	assert.Equal(t, []string{"chrA", "chrB"}, g.Contigs())
	n, err := g.Length("chrA")
	require.NoError(t, err)
	assert.Equal(t, 23, n)
	got, err := g.Subsequence("chrB", 3, 6)
	require.NoError(t, err)
	assert.Equal(t, "GGCC", string(got))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LoadGenome(ctx, writeGz(t, wrapped))
	assert.ErrorIs(t, err, context.Canceled)
}
