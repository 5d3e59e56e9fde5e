package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vpdesign/internal/alignability"
	"vpdesign/internal/anchor"
	"vpdesign/internal/config"
	"vpdesign/internal/design"
	"vpdesign/internal/fasta"
	"vpdesign/internal/pipeline"
	"vpdesign/internal/writers"
)

func newDesignCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design viewpoints for a list of anchors",
		Long: `Design viewpoints for a list of anchors.

Inputs are an indexed FASTA reference (see "vpdesign index"), a sorted
bedGraph of k-mer mappability with its chromosome size table, and anchors as
a TSV (chrom pos name strand [accession]), GFF/GTF or UCSC refGene file.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.load(cmd); err != nil {
				return err
			}
			return runDesign(cmd, e)
		},
	}
	fs := cmd.Flags()
	fs.StringP("genome", "g", "", "indexed reference FASTA [*]")
	fs.StringP("alignability", "a", "", "k-mer mappability bedGraph, sorted by chromosome [*]")
	fs.StringP("chrom-info", "c", "", "chromosome size table (name<TAB>length) [*]")
	fs.StringP("anchors", "i", "", "anchor file: TSV, GFF/GTF or refGene [*]")
	fs.String("anchor-format", config.AnchorsAuto, "anchor file format: auto | tsv | gff | refgene")
	fs.StringSlice("genes", nil, "only design anchors with these names or accessions")
	fs.StringP("output", "o", "-", "output file ('-' for stdout)")
	fs.StringP("format", "f", "tsv", "output format: bed | gff | json | jsonl | probes | tsv")
	fs.Bool("no-header", false, "suppress header/track lines")
	fs.Bool("sort", false, "sort output by chromosome and position")
	config.RegisterDesignFlags(fs)
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s takes no positional arguments, got %q", cmd.CommandPath(), args)
	}
	return nil
}

func runDesign(cmd *cobra.Command, e *env) error {
	cfg, log := e.cfg, e.log
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
	}
	if _, ok := writers.Writers[cfg.Format]; !ok {
		return usagef("invalid --format %q (want one of %v)", cfg.Format, writers.Formats())
	}
	params, err := cfg.Params()
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
	}
	approach, err := design.ParseApproach(cfg.Approach)
	if err != nil {
		return usageError{err}
	}

	anchors, err := loadAnchors(cfg)
	if err != nil {
		return usageError{err}
	}
	if len(cfg.Genes) > 0 {
		var missing []string
		anchors, missing = anchor.FilterByName(anchors, cfg.Genes)
		for _, m := range missing {
			log.WithField("gene", m).Warn("gene not found in anchor file")
		}
	}
	if len(anchors) == 0 {
		return usagef("no anchors to design")
	}

	genome, err := fasta.OpenIndexed(cfg.Genome)
	if err != nil {
		return err
	}
	defer genome.Close()

	builder, err := alignability.OpenBuilder(cfg.Alignability, cfg.ChromInfo, cfg.KmerSize)
	if err != nil {
		return fmt.Errorf("%w: %w", pipeline.ErrIO, err)
	}
	defer builder.Close()

	log.WithFields(logrus.Fields{
		"anchors":  len(anchors),
		"approach": approach,
		"enzymes":  cfg.Enzymes,
		"threads":  cfg.Threads,
	}).Info("designing viewpoints")

	res, runErr := pipeline.Run(cmd.Context(), pipeline.Config{
		Threads:  cfg.Threads,
		Approach: approach,
		Params:   params,
		Log:      log,
		Progress: func(done, total int, label string) {
			log.WithFields(logrus.Fields{"done": done, "total": total, "anchor": label}).Debug("progress")
		},
	}, pipeline.Request{Genome: genome, Alignability: builder, Anchors: anchors})
	if runErr != nil && !errors.Is(runErr, cmd.Context().Err()) {
		return runErr
	}

	for _, u := range res.Unresolved {
		log.WithFields(logrus.Fields{"anchor": u.Anchor.Name, "chrom": u.Anchor.Chrom, "pos": u.Anchor.Pos}).Warn("unresolved: " + u.Reason)
	}
	log.WithFields(logrus.Fields{
		"viewpoints": len(res.ViewPoints),
		"unresolved": len(res.Unresolved),
	}).Info("design finished")

	if err := writeOutput(e.stdout, cfg, res.ViewPoints); err != nil {
		return err
	}
	return runErr
}

func loadAnchors(cfg config.Config) ([]anchor.Anchor, error) {
	switch cfg.AnchorFormatFor() {
	case config.AnchorsGFF:
		return anchor.LoadGFF(cfg.Anchors)
	case config.AnchorsRefGene:
		return anchor.LoadRefGene(cfg.Anchors)
	}
	return anchor.LoadTSV(cfg.Anchors)
}

func writeOutput(stdout io.Writer, cfg config.Config, vps []*design.ViewPoint) error {
	opt := writers.Options{Header: !cfg.NoHeader, Sort: cfg.Sort}
	if cfg.Output == "" || cfg.Output == "-" {
		bw := bufio.NewWriter(stdout)
		if err := writers.Write(cfg.Format, bw, vps, opt); err != nil {
			return err
		}
		return bw.Flush()
	}
	fh, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := writers.Write(cfg.Format, fh, vps, opt); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
