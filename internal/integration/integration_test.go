// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpdesign/internal/app"
	"vpdesign/pkg/api"
)

type fixture struct {
	genome, bedGraph, chromInfo, anchors string
}

func write(t *testing.T, fn, data string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

// newFixture writes a 300 bp chromosome with GATC sites, a flat mappability
// track and three anchors, one on a chromosome without data.
func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	seq := []byte(strings.Repeat("ACGT", 75))
	for _, p := range []int{21, 45, 69, 93, 113, 137, 161, 185, 209, 229, 259, 279} {
		copy(seq[p-1:], "GATC")
	}
	var fa strings.Builder
	fa.WriteString(">chr1 test chromosome\n")
	for i := 0; i < len(seq); i += 60 {
		fa.Write(seq[i:min(len(seq), i+60)])
		fa.WriteByte('\n')
	}
	return fixture{
		genome:    write(t, filepath.Join(dir, "ref.fa"), fa.String()),
		bedGraph:  write(t, filepath.Join(dir, "map.bedGraph"), "track type=bedGraph\nchr1\t0\t300\t1\n"),
		chromInfo: write(t, filepath.Join(dir, "chromInfo.txt"), "chr1\t300\n"),
		anchors: write(t, filepath.Join(dir, "tss.tsv"),
			"# chrom pos name strand accession\nchr1\t125\tGENE1\t+\tNM_1\nchr1\t150\tGENE2\t-\tNM_2\nchr9\t10\tLOST\t+\n"),
	}
}

func (f fixture) designArgs(extra ...string) []string {
	args := []string{
		"design",
		"--genome", f.genome,
		"--alignability", f.bedGraph,
		"--chrom-info", f.chromInfo,
		"--anchors", f.anchors,
		"--kmer-size", "1",
		"--probe-length", "8",
		"--margin-size", "10",
		"--min-bait-count", "1",
		"--min-fragment-size", "10",
		"--min-gc", "0",
		"--max-gc", "1",
		"--upstream", "115",
		"--downstream", "115",
		"--mean-fragment-length", "24",
		"--growth-step", "100",
	}
	return append(args, extra...)
}

func index(t *testing.T, f fixture) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run([]string{"index", "-q", f.genome}, &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	require.FileExists(t, f.genome+".fai")
}

func TestEndToEnd(t *testing.T) {
	f := newFixture(t)
	index(t, f)

	var out, errBuf bytes.Buffer
	code := app.Run(f.designArgs("--format", "json"), &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())

	var vps []api.ViewPointV1
	require.NoError(t, json.Unmarshal(out.Bytes(), &vps))
	require.Len(t, vps, 2)
	assert.Equal(t, "GENE1", vps[0].Name)
	assert.Equal(t, 113, vps[0].Start)
	assert.Equal(t, 136, vps[0].End)
	assert.True(t, vps[0].Resolved)
	assert.Equal(t, "GENE2", vps[1].Name)
	assert.Equal(t, "-", vps[1].Strand)
	assert.Equal(t, 137, vps[1].Start)
}

func TestEndToEnd_ExtendedBED(t *testing.T) {
	f := newFixture(t)
	index(t, f)

	out := filepath.Join(t.TempDir(), "fragments.bed")
	var stdout, errBuf bytes.Buffer
	code := app.Run(f.designArgs("--approach", "extended", "--format", "bed", "--no-header", "--genes", "GENE1", "-o", out), &stdout, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	assert.Zero(t, stdout.Len())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "chr1\t20\t44\tGENE1|NM_1\t0\t+", lines[0])
	assert.Equal(t, "chr1\t208\t228\tGENE1|NM_1\t0\t+", lines[8])
}

func TestParallelMatchesEqualSerial(t *testing.T) {
	f := newFixture(t)
	index(t, f)

	run := func(threads int) string {
		var out, errB bytes.Buffer
		code := app.Run(f.designArgs("--threads", fmt.Sprint(threads), "--format", "jsonl"), &out, &errB)
		require.Equal(t, 0, code, errB.String())
		return out.String()
	}
	assert.Equal(t, run(1), run(4))
}

func TestUnresolvedAnchorsAreLogged(t *testing.T) {
	f := newFixture(t)
	index(t, f)

	var out, errBuf bytes.Buffer
	code := app.Run(f.designArgs("--log-level", "warn"), &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	assert.Contains(t, errBuf.String(), "unresolved: chromosome not in alignability data")
	assert.Contains(t, errBuf.String(), "anchor=LOST")
}

func TestMissingIndexExits2(t *testing.T) {
	f := newFixture(t)
	var out, errBuf bytes.Buffer
	code := app.Run(f.designArgs(), &out, &errBuf)
	assert.Equal(t, 2, code)
	assert.Contains(t, errBuf.String(), "fasta index not found")
}

func TestUsageErrorsExit2(t *testing.T) {
	f := newFixture(t)
	index(t, f)
	for name, argv := range map[string][]string{
		"unknown flag":    {"design", "--bogus"},
		"unknown command": {"frobnicate"},
		"missing inputs":  {"design"},
		"bad enzyme":      f.designArgs("--enzymes", "NoSuchI"),
		"bad format":      f.designArgs("--format", "xml"),
		"bad approach":    f.designArgs("--approach", "greedy"),
	} {
		var out, errBuf bytes.Buffer
		assert.Equal(t, 2, app.Run(argv, &out, &errBuf), name)
	}
}

func TestCancelledRunExits130(t *testing.T) {
	f := newFixture(t)
	index(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errBuf bytes.Buffer
	code := app.RunContext(ctx, f.designArgs(), &out, &errBuf)
	assert.Equal(t, 130, code)
}

func TestEnzymesAndVersion(t *testing.T) {
	var out, errBuf bytes.Buffer
	require.Equal(t, 0, app.Run([]string{"enzymes"}, &out, &errBuf))
	assert.Contains(t, out.String(), "DpnII\t^GATC\tGATC")

	out.Reset()
	require.Equal(t, 0, app.Run([]string{"--version"}, &out, &errBuf))
	assert.True(t, strings.HasPrefix(out.String(), "vpdesign version "))
}

func TestDigest(t *testing.T) {
	f := newFixture(t)
	index(t, f)
	var out, errBuf bytes.Buffer
	code := app.Run([]string{"digest", "-q", "--genome", f.genome}, &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	assert.Contains(t, out.String(), "chr1\t300\t23\n")
	assert.Contains(t, out.String(), "*\t-\t23\n")
}

func TestDigestWithoutIndex(t *testing.T) {
	f := newFixture(t)
	var out, errBuf bytes.Buffer
	code := app.Run([]string{"digest", "-q", "--genome", f.genome}, &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	assert.Contains(t, out.String(), "chr1\t300\t23\n")
	assert.Contains(t, out.String(), "*\t-\t23\n")
}
