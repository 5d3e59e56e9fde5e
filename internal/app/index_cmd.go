package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vpdesign/internal/fasta"
)

func newIndexCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "index <genome.fa>...",
		Short: "Write a .fai index next to each FASTA file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("index needs at least one FASTA file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.load(cmd); err != nil {
				return err
			}
			for _, path := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				idx, err := fasta.BuildIndex(path)
				if err != nil {
					return fmt.Errorf("index %s: %w", path, err)
				}
				if err := writeIndexFile(fasta.IndexPath(path), idx); err != nil {
					return err
				}
				e.log.WithField("file", path).WithField("sequences", len(idx)).Info("indexed")
			}
			return nil
		},
	}
}

func writeIndexFile(path string, idx fasta.Index) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fasta.WriteIndex(fh, idx); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
