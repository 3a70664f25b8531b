package cli

import (
	"fmt"

	"github.com/ppiankov/sitespectre/internal/analyzer"
	"github.com/spf13/cobra"
)

func newRegulationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "regulations",
		Short: "Print the regulation citation tables used in reports",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, fam := range analyzer.Regulations() {
				_, _ = fmt.Fprintf(out, "%s\n", fam.Name)
				for _, c := range fam.Citations {
					_, _ = fmt.Fprintf(out, "  %-16s %s\n", c.Key, c.Title)
				}
				_, _ = fmt.Fprintln(out)
			}
		},
	}
}
