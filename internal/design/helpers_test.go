package design

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"vpdesign/internal/alignability"
	"vpdesign/internal/enzyme"
	"vpdesign/internal/fasta"
)

var gatcSites = []int{21, 45, 69, 93, 113, 137, 161, 185, 209, 229, 259, 279}

// filler repeats ACGT, which never contains GATC and has GC 0.5.
func filler(n int) []byte {
	return bytes.Repeat([]byte("ACGT"), n/4+1)[:n]
}

// gatcGenome is a 300 bp chromosome with GATC starting at gatcSites.
func gatcGenome() *fasta.Genome {
	seq := filler(300)
	for _, p := range gatcSites {
		copy(seq[p-1:], "GATC")
	}
	return fasta.NewGenome(fasta.Record{ID: "chr1", Seq: seq})
}

// flatMap scores every position of a chromosome as unique.
func flatMap(t *testing.T, chrom string, length int) *alignability.Map {
	t.Helper()
	m, err := alignability.NewMap(chrom, []int{1}, []int{1}, 1, length)
	require.NoError(t, err)
	return m
}

func dpnII(t *testing.T) []enzyme.Enzyme {
	t.Helper()
	e, ok := enzyme.Lookup("DpnII")
	require.True(t, ok)
	return []enzyme.Enzyme{e}
}

// smallParams suit the 24 bp fragments of gatcGenome.
func smallParams(t *testing.T) Params {
	p := DefaultParams()
	p.Enzymes = dpnII(t)
	p.ProbeLength = 8
	p.MarginSize = 10
	p.MinBaitCount = 1
	p.MinFragmentSize = 10
	p.MinGC, p.MaxGC = 0, 1
	p.UpstreamLength, p.DownstreamLength = 115, 115
	p.MeanFragmentLength = 24
	p.GrowthStep = 100
	return p
}

func gatcContext(t *testing.T) Context {
	return Context{
		Genome:      gatcGenome(),
		ChromLength: 300,
		Map:         flatMap(t, "chr1", 300),
		Params:      smallParams(t),
	}
}
