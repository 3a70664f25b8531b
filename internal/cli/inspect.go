package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/sitespectre/internal/analyzer"
	"github.com/ppiankov/sitespectre/internal/dom"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show where each issue category would bind on a page, without a violations file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page == "" {
				return fmt.Errorf("--page is required")
			}

			f, err := os.Open(page)
			if err != nil {
				return fmt.Errorf("open page: %w", err)
			}
			doc, err := dom.Parse(f)
			_ = f.Close()
			if err != nil {
				return fmt.Errorf("parse page: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Candidate bindings for %s\n\n", page)

			rows := []struct {
				category analyzer.Category
				loc      dom.Location
			}{
				{analyzer.CategoryMissingAlt, doc.ImagesMissingAlt()},
				{analyzer.CategoryUnlabeledInputs, doc.UnlabeledInputs()},
				{analyzer.CategoryKeyboardAccess, doc.KeyboardInaccessible()},
				{analyzer.CategoryCookieConsent, doc.BodyRoot()},
				{analyzer.CategoryNoHTTPS, doc.HTMLRoot()},
			}

			for _, row := range rows {
				_, _ = fmt.Fprintf(out, "  %-18s matches:%-3d path:%s selector:%s\n",
					row.category, row.loc.Count, row.loc.Path, row.loc.Selector)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "path to the HTML page to inspect")

	return cmd
}
