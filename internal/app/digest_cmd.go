package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vpdesign/internal/enzyme"
	"vpdesign/internal/fasta"
	"vpdesign/internal/pipeline"
)

func newDigestCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Report the mean restriction fragment length of a genome",
		Long: `Digest a genome in silico and report, per contig and overall,
the mean restriction fragment length used by the simple scoring approach.
An indexed FASTA is read in place; otherwise the whole file (plain or
gzip) is loaded into memory.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.load(cmd); err != nil {
				return err
			}
			if e.cfg.Genome == "" {
				return usagef("--genome is required")
			}
			enz, err := enzyme.ParseList(e.cfg.Enzymes)
			if err != nil {
				return err
			}
			g, closeGenome, err := openDigestGenome(cmd.Context(), e.cfg.Genome, e.log)
			if err != nil {
				return err
			}
			defer closeGenome()

			contigs := g.Contigs()
			bw := bufio.NewWriter(e.stdout)
			fmt.Fprintln(bw, "contig\tlength\tmean_fragment_length")
			for _, c := range contigs {
				n, _ := g.Length(c)
				if n == 0 {
					continue
				}
				mean, err := pipeline.EstimateMeanFragmentLength(cmd.Context(), g, []string{c}, enz)
				if err != nil {
					return err
				}
				fmt.Fprintf(bw, "%s\t%d\t%d\n", c, n, mean)
			}
			all, err := pipeline.EstimateMeanFragmentLength(cmd.Context(), g, contigs, enz)
			if err != nil {
				return err
			}
			fmt.Fprintf(bw, "*\t-\t%d\n", all)
			return bw.Flush()
		},
	}
	cmd.Flags().StringP("genome", "g", "", "reference FASTA, indexed or not [*]")
	cmd.Flags().StringSlice("enzymes", []string{"DpnII"}, "restriction enzymes by name or NAME=SI^TE")
	return cmd
}

type contigGenome interface {
	Contigs() []string
	Length(contig string) (int, error)
	Subsequence(contig string, start, end int) ([]byte, error)
}

// openDigestGenome prefers the .fai index and falls back to loading path
// into memory.
func openDigestGenome(ctx context.Context, path string, log logrus.FieldLogger) (contigGenome, func(), error) {
	x, err := fasta.OpenIndexed(path)
	if err == nil {
		return x, func() { _ = x.Close() }, nil
	}
	if !errors.Is(err, fasta.ErrNoIndex) {
		return nil, nil, err
	}
	log.WithField("genome", path).Info("no index found; loading the genome into memory")
	g, err := fasta.LoadGenome(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	return g, func() {}, nil
}
