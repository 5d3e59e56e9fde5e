// Package config is for run-wide settings unmarshalled from viper, which
// merges command-line flags, VPDESIGN_* environment variables and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vpdesign/internal/common"
	"vpdesign/internal/design"
	"vpdesign/internal/enzyme"
)

// EnvPrefix prefixes environment overrides, e.g. VPDESIGN_PROBE_LENGTH.
const EnvPrefix = "VPDESIGN"

// Anchor file formats.
const (
	AnchorsAuto    = "auto"
	AnchorsTSV     = "tsv"
	AnchorsGFF     = "gff"
	AnchorsRefGene = "refgene"
)

// Config is the root settings struct of a design run.
type Config struct {
	// Inputs
	Genome       string   `mapstructure:"genome"`
	Alignability string   `mapstructure:"alignability"`
	ChromInfo    string   `mapstructure:"chrom-info"`
	Anchors      string   `mapstructure:"anchors"`
	AnchorFormat string   `mapstructure:"anchor-format"`
	Genes        []string `mapstructure:"genes"`

	// Output
	Output   string `mapstructure:"output"`
	Format   string `mapstructure:"format"`
	NoHeader bool   `mapstructure:"no-header"`
	Sort     bool   `mapstructure:"sort"`

	// Design parameters
	MinFragmentSize    int      `mapstructure:"min-fragment-size"`
	ProbeLength        int      `mapstructure:"probe-length"`
	MinBaitCount       int      `mapstructure:"min-bait-count"`
	MinGC              float64  `mapstructure:"min-gc"`
	MaxGC              float64  `mapstructure:"max-gc"`
	MaxRepeat          float64  `mapstructure:"max-repeat"`
	MaxAlignability    float64  `mapstructure:"max-alignability"`
	MarginSize         int      `mapstructure:"margin-size"`
	AllowUnbalanced    bool     `mapstructure:"allow-unbalanced"`
	AllowPatching      bool     `mapstructure:"allow-patching"`
	Upstream           int      `mapstructure:"upstream"`
	Downstream         int      `mapstructure:"downstream"`
	Enzymes            []string `mapstructure:"enzymes"`
	Approach           string   `mapstructure:"approach"`
	KmerSize           int      `mapstructure:"kmer-size"`
	MeanFragmentLength int      `mapstructure:"mean-fragment-length"`
	GrowthStep         int      `mapstructure:"growth-step"`

	// Runtime
	Threads  int    `mapstructure:"threads"` // 0 = all CPUs
	Quiet    bool   `mapstructure:"quiet"`
	LogLevel string `mapstructure:"log-level"`
}

// Defaults returns the stock settings.
func Defaults() Config {
	p := design.DefaultParams()
	return Config{
		AnchorFormat:       AnchorsAuto,
		Output:             "-",
		Format:             "tsv",
		MinFragmentSize:    p.MinFragmentSize,
		ProbeLength:        p.ProbeLength,
		MinBaitCount:       p.MinBaitCount,
		MinGC:              p.MinGC,
		MaxGC:              p.MaxGC,
		MaxRepeat:          p.MaxRepeat,
		MaxAlignability:    p.MaxAlignability,
		MarginSize:         p.MarginSize,
		AllowUnbalanced:    p.AllowUnbalanced,
		AllowPatching:      p.AllowPatching,
		Upstream:           p.UpstreamLength,
		Downstream:         p.DownstreamLength,
		Enzymes:            []string{"DpnII"},
		Approach:           design.Simple.String(),
		KmerSize:           50,
		MeanFragmentLength: p.MeanFragmentLength,
		GrowthStep:         p.GrowthStep,
		LogLevel:           "info",
	}
}

// RegisterDesignFlags adds the design parameter flags to fs.
func RegisterDesignFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.Int("min-fragment-size", d.MinFragmentSize, "minimum restriction fragment length (bp)")
	fs.Int("probe-length", d.ProbeLength, "bait length (bp)")
	fs.Int("min-bait-count", d.MinBaitCount, "usable baits required per fragment margin")
	fs.Float64("min-gc", d.MinGC, "minimum bait GC content")
	fs.Float64("max-gc", d.MaxGC, "maximum bait GC content")
	fs.Float64("max-repeat", d.MaxRepeat, "maximum repeat (soft-masked) content, reported only")
	fs.Float64("max-alignability", d.MaxAlignability, "maximum mean k-mer alignability score of a bait")
	fs.Int("margin-size", d.MarginSize, "fragment margin size (bp)")
	fs.Bool("allow-unbalanced", d.AllowUnbalanced, "allow fragments whose baits sit on one margin")
	fs.Bool("allow-patching", d.AllowPatching, "simple approach: add a neighbouring fragment when the score is low")
	fs.Int("upstream", d.Upstream, "search window upstream of the anchor (bp)")
	fs.Int("downstream", d.Downstream, "search window downstream of the anchor (bp)")
	fs.StringSlice("enzymes", d.Enzymes, "restriction enzymes by name or NAME=SI^TE")
	fs.String("approach", d.Approach, "fragment selection: simple | extended")
	fs.Int("kmer-size", d.KmerSize, "k of the alignability track")
	fs.Int("mean-fragment-length", d.MeanFragmentLength, "mean fragment length for simple scoring (0 = estimate from the genome)")
	fs.Int("growth-step", d.GrowthStep, "window growth increment when too few cut sites are found (bp)")
}

// RegisterRuntimeFlags adds flags shared by every subcommand.
func RegisterRuntimeFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("config", "", "config file (yaml, toml or json)")
	fs.IntP("threads", "t", d.Threads, "worker goroutines (0 = all CPUs)")
	fs.BoolP("quiet", "q", false, "only log errors")
	fs.String("log-level", d.LogLevel, "log level: debug | info | warn | error")
}

// Load merges defaults, the config file named by the "config" flag,
// environment variables and the flags in fs, in increasing precedence.
func Load(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Defaults()
	for key, val := range map[string]any{
		"config": "", "genome": "", "alignability": "", "chrom-info": "", "anchors": "",
		"genes": []string{}, "anchor-format": d.AnchorFormat, "no-header": false, "sort": false, "output": d.Output, "format": d.Format,
		"min-fragment-size": d.MinFragmentSize, "probe-length": d.ProbeLength,
		"min-bait-count": d.MinBaitCount, "min-gc": d.MinGC, "max-gc": d.MaxGC,
		"max-repeat": d.MaxRepeat, "max-alignability": d.MaxAlignability,
		"margin-size": d.MarginSize, "allow-unbalanced": d.AllowUnbalanced,
		"allow-patching": d.AllowPatching, "upstream": d.Upstream, "downstream": d.Downstream,
		"enzymes": d.Enzymes, "approach": d.Approach, "kmer-size": d.KmerSize,
		"mean-fragment-length": d.MeanFragmentLength, "growth-step": d.GrowthStep,
		"threads": d.Threads, "quiet": d.Quiet, "log-level": d.LogLevel,
	} {
		v.SetDefault(key, val)
	}
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, err
		}
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	var enz []string
	for _, e := range c.Enzymes {
		enz = append(enz, common.SplitList(e)...)
	}
	c.Enzymes = enz
	var genes []string
	for _, g := range c.Genes {
		genes = append(genes, common.SplitList(g)...)
	}
	c.Genes = genes
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	return c, nil
}

// Params converts the design settings, resolving enzyme names.
func (c Config) Params() (design.Params, error) {
	enz, err := enzyme.ParseList(c.Enzymes)
	if err != nil {
		return design.Params{}, err
	}
	return design.Params{
		MinFragmentSize:    c.MinFragmentSize,
		ProbeLength:        c.ProbeLength,
		MinBaitCount:       c.MinBaitCount,
		MinGC:              c.MinGC,
		MaxGC:              c.MaxGC,
		MaxRepeat:          c.MaxRepeat,
		MaxAlignability:    c.MaxAlignability,
		MarginSize:         c.MarginSize,
		AllowUnbalanced:    c.AllowUnbalanced,
		AllowPatching:      c.AllowPatching,
		UpstreamLength:     c.Upstream,
		DownstreamLength:   c.Downstream,
		Enzymes:            enz,
		MeanFragmentLength: c.MeanFragmentLength,
		GrowthStep:         c.GrowthStep,
	}, nil
}

// Validate checks the design settings and required inputs of a design run.
func (c Config) Validate() error {
	var errs []error
	if c.Genome == "" {
		errs = append(errs, errors.New("--genome is required"))
	}
	if c.Alignability == "" {
		errs = append(errs, errors.New("--alignability is required"))
	}
	if c.ChromInfo == "" {
		errs = append(errs, errors.New("--chrom-info is required"))
	}
	if c.Anchors == "" {
		errs = append(errs, errors.New("--anchors is required"))
	}
	switch c.AnchorFormat {
	case AnchorsAuto, AnchorsTSV, AnchorsGFF, AnchorsRefGene:
	default:
		errs = append(errs, fmt.Errorf("invalid --anchor-format %q", c.AnchorFormat))
	}
	if _, err := design.ParseApproach(c.Approach); err != nil {
		errs = append(errs, err)
	}
	if c.KmerSize < 1 {
		errs = append(errs, fmt.Errorf("--kmer-size must be >= 1, got %d", c.KmerSize))
	}
	if p, err := c.Params(); err != nil {
		errs = append(errs, err)
	} else if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// AnchorFormatFor resolves "auto" from the file name.
func (c Config) AnchorFormatFor() string {
	if c.AnchorFormat != AnchorsAuto {
		return c.AnchorFormat
	}
	name := strings.ToLower(strings.TrimSuffix(c.Anchors, ".gz"))
	switch {
	case strings.HasSuffix(name, ".gff"), strings.HasSuffix(name, ".gff3"), strings.HasSuffix(name, ".gtf"):
		return AnchorsGFF
	case strings.Contains(name, "refgene"), strings.HasSuffix(name, ".genepred"):
		return AnchorsRefGene
	}
	return AnchorsTSV
}
