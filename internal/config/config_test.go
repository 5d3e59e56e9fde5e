package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vpdesign/internal/design"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterDesignFlags(fs)
	RegisterRuntimeFlags(fs)
	fs.String("genome", "", "")
	fs.String("alignability", "", "")
	fs.String("chrom-info", "", "")
	fs.String("anchors", "", "")
	return fs
}

func withInputs(c Config) Config {
	c.Genome, c.Alignability, c.ChromInfo, c.Anchors = "g.fa", "a.bg", "c.txt", "tss.tsv"
	return c
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(viper.New(), newFlags())
	require.NoError(t, err)

	d := Defaults()
	assert.Equal(t, d.ProbeLength, c.ProbeLength)
	assert.Equal(t, []string{"DpnII"}, c.Enzymes)
	assert.Equal(t, "simple", c.Approach)
	assert.Positive(t, c.Threads)

	p, err := c.Params()
	require.NoError(t, err)
	assert.Equal(t, design.DefaultParams(), p)
}

func TestLoad_Precedence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "vp.yaml")
	require.NoError(t, os.WriteFile(file, []byte("probe-length: 100\nmargin-size: 300\nenzymes: [HindIII]\n"), 0o644))
	t.Setenv("VPDESIGN_MARGIN_SIZE", "400")
	t.Setenv("VPDESIGN_MIN_GC", "0.3")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--config", file, "--min-gc", "0.35", "--approach", "extended"}))
	c, err := Load(viper.New(), fs)
	require.NoError(t, err)

	assert.Equal(t, 100, c.ProbeLength, "file")
	assert.Equal(t, 400, c.MarginSize, "env beats file")
	assert.InDelta(t, 0.35, c.MinGC, 1e-12, "flag beats env")
	assert.Equal(t, []string{"HindIII"}, c.Enzymes)
	assert.Equal(t, "extended", c.Approach)
}

func TestLoad_EnzymeList(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--enzymes", "DpnII,HindIII", "--enzymes", "Custom=G^ANTC"}))
	c, err := Load(viper.New(), fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"DpnII", "HindIII", "Custom=G^ANTC"}, c.Enzymes)

	p, err := c.Params()
	require.NoError(t, err)
	require.Len(t, p.Enzymes, 3)
	assert.Equal(t, "GANTC", p.Enzymes[2].Motif)
}

func TestLoad_BadConfigFile(t *testing.T) {
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, err := Load(viper.New(), fs)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, withInputs(Defaults()).Validate())

	err := Defaults().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--genome is required")

	c := withInputs(Defaults())
	c.Approach = "greedy"
	require.Error(t, c.Validate())

	c = withInputs(Defaults())
	c.Enzymes = []string{"NoSuchI"}
	require.Error(t, c.Validate())

	c = withInputs(Defaults())
	c.Enzymes = nil
	require.ErrorIs(t, c.Validate(), design.ErrNoEnzymes)

	c = withInputs(Defaults())
	c.MinGC, c.MaxGC = 0.8, 0.2
	require.Error(t, c.Validate())

	c = withInputs(Defaults())
	c.AnchorFormat = "bed"
	require.Error(t, c.Validate())
}

func TestAnchorFormatFor(t *testing.T) {
	tests := map[string]string{
		"genes.gff3.gz":    AnchorsGFF,
		"genes.GTF":        AnchorsGFF,
		"hg38.refGene.txt": AnchorsRefGene,
		"tss.tsv":          AnchorsTSV,
		"anchors.txt":      AnchorsTSV,
	}
	for name, want := range tests {
		c := Config{AnchorFormat: AnchorsAuto, Anchors: name}
		assert.Equal(t, want, c.AnchorFormatFor(), name)
	}
	c := Config{AnchorFormat: AnchorsTSV, Anchors: "x.gff"}
	assert.Equal(t, AnchorsTSV, c.AnchorFormatFor())
}
