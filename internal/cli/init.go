package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create starter .sitespectre.yml and .sitespectreignore in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getwd: %w", err)
			}

			wrote := 0
			for _, f := range initFiles {
				path := filepath.Join(cwd, f.name)
				if _, err := os.Stat(path); err == nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "skip: %s already exists\n", f.name)
					continue
				}
				if err := os.WriteFile(path, []byte(f.content), 0o600); err != nil {
					return fmt.Errorf("write %s: %w", f.name, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", f.name)
				wrote++
			}

			if wrote == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do — all config files already exist.")
			}
			return nil
		},
	}
	return cmd
}

type initFile struct {
	name    string
	content string
}

var initFiles = []initFile{
	{
		name: ".sitespectre.yml",
		content: `# sitespectre configuration
# See: https://github.com/ppiankov/sitespectre

defaults:
  format: text
  # Exit 2 when the compliance score drops below this value (0 disables the gate)
  fail_under: 0

exclude:
  # Issue categories to skip entirely, e.g. [KEYBOARD_ACCESS]
  categories: []

# Optional baseline diff notifications (used by: sitespectre audit --baseline ... --notify)
# notifications:
#   - id: team-slack
#     type: slack
#     url: ${SLACK_WEBHOOK_URL}
#     events: [new_critical, new_high]
#   - id: alerts
#     type: webhook
#     url: https://alerts.example.com/sitespectre
#     events: [new_critical]
#   - id: compliance-mail
#     type: email
#     smtp_host: smtp.example.com
#     smtp_port: 587
#     from: audits@example.com
#     to: ["compliance@example.com"]
#     events: [new_critical, resolved]
`,
	},
	{
		name: ".sitespectreignore",
		content: `# sitespectre ignore rules
# Format: CATEGORY selector
#   CATEGORY — issue category (e.g. MISSING_ALT_TEXT) or * for any
#   selector — element selector to suppress (supports trailing * glob) or *
#
# Examples:
# MISSING_ALT_TEXT img.tracking-pixel
# KEYBOARD_ACCESS a.js-*
# * #legacy-footer
`,
	},
}
