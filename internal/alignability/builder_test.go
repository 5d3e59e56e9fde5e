package alignability

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bedGraph = `track type=bedGraph name=k50
chr1	0	10	1
chr1	10	20	0.5
chr1	30	40	1
chr2	5	15	0.333333
chr2	15	25	0.333333
`

const chromInfo = "chr1\t50\nchr2\t25\n"

func drain(t *testing.T, b *Builder) []*Map {
	t.Helper()
	var out []*Map
	for {
		m, err := b.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, m)
	}
}

func TestBuilder_GapsAndTrailingSentinel(t *testing.T) {
	b, err := NewBuilder(strings.NewReader(bedGraph), strings.NewReader(chromInfo), 50)
	require.NoError(t, err)
	maps := drain(t, b)
	require.Len(t, maps, 2)

	c1, s1 := maps[0].Breakpoints()
	assert.Equal(t, "chr1", maps[0].Chrom)
	assert.Equal(t, []int{1, 11, 21, 31, 41}, c1)
	assert.Equal(t, []int{1, 2, NoData, 1, NoData}, s1)
	assert.Equal(t, 50, maps[0].Length)
	assert.Equal(t, 50, maps[0].KmerSize)

	c2, s2 := maps[1].Breakpoints()
	assert.Equal(t, []int{1, 6}, c2, "leading gap flagged, equal adjacent scores merged")
	assert.Equal(t, []int{NoData, 3}, s2)
	assert.Equal(t, 25, maps[1].Length)

	_, err = b.Next()
	assert.True(t, errors.Is(err, io.EOF), "builder is single pass")
}

func TestBuilder_NoChromInfo(t *testing.T) {
	b, err := NewBuilder(strings.NewReader("chrX\t0\t4\t1\n"), nil, 5)
	require.NoError(t, err)
	maps := drain(t, b)
	require.Len(t, maps, 1)
	assert.Equal(t, 4, maps[0].Length)
	got, err := maps[0].ScoreOverRange(3, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, NoData}, got)
}

func TestBuilder_RejectsUnsorted(t *testing.T) {
	in := "chr1\t0\t10\t1\nchr2\t0\t10\t1\nchr1\t20\t30\t1\n"
	b, err := NewBuilder(strings.NewReader(in), nil, 1)
	require.NoError(t, err)
	_, err = b.Next()
	require.NoError(t, err)
	_, err = b.Next()
	require.NoError(t, err)
	_, err = b.Next()
	assert.Error(t, err)
}

func TestBuilder_RejectsOverlap(t *testing.T) {
	in := "chr1\t0\t10\t1\nchr1\t5\t15\t1\n"
	b, err := NewBuilder(strings.NewReader(in), nil, 1)
	require.NoError(t, err)
	_, err = b.Next()
	assert.Error(t, err)
}

func TestBuilder_MalformedLine(t *testing.T) {
	b, err := NewBuilder(strings.NewReader("chr1\t0\tx\t1\n"), nil, 1)
	require.NoError(t, err)
	_, err = b.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestOpenBuilder_Files(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "k50.bedGraph")
	ci := filepath.Join(dir, "chromInfo.txt")
	require.NoError(t, os.WriteFile(bg, []byte(bedGraph), 0o644))
	require.NoError(t, os.WriteFile(ci, []byte(chromInfo), 0o644))

	b, err := OpenBuilder(bg, ci, 50)
	require.NoError(t, err)
	defer b.Close()
	n, ok := b.ChromLength("chr2")
	assert.True(t, ok)
	assert.Equal(t, 25, n)
	assert.Len(t, drain(t, b), 2)
}

func TestScoreFromFraction(t *testing.T) {
	assert.Equal(t, 1, scoreFromFraction(1))
	assert.Equal(t, 3, scoreFromFraction(0.333333))
	assert.Equal(t, 4, scoreFromFraction(0.25))
	assert.Equal(t, NoData, scoreFromFraction(0))
}
