package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verbose bool

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitespectre",
		Short: "HTML compliance issue mapper and remediation prioritizer",
		Long:  "Maps rule-violation detections to located DOM elements, regulatory citations, and severity-weighted remediation priorities.",
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output on stderr")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newAuditCmd(version))
	root.AddCommand(newInspectCmd())
	root.AddCommand(newRegulationsCmd())
	root.AddCommand(newInitCmd())

	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sitespectre "+version)
		},
	}
}

// Execute runs the root command.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}
