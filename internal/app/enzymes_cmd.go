package app

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"vpdesign/internal/enzyme"
)

func newEnzymesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "enzymes",
		Short: "List the built-in restriction enzymes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bw := bufio.NewWriter(e.stdout)
			fmt.Fprintln(bw, "name\tsite\tmotif")
			for _, z := range enzyme.Catalogue() {
				fmt.Fprintf(bw, "%s\t%s\t%s\n", z.Name, z.Site, z.Motif)
			}
			return bw.Flush()
		},
	}
}
