package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/sitespectre/internal/analyzer"
	"github.com/ppiankov/sitespectre/internal/config"
	"github.com/ppiankov/sitespectre/internal/dom"
	"github.com/ppiankov/sitespectre/internal/notify"
	"github.com/ppiankov/sitespectre/internal/reporter"
	"github.com/spf13/cobra"
)

// osExit is swapped in tests to capture exit codes.
var osExit = os.Exit

func newAuditCmd(version string) *cobra.Command {
	var (
		page            string
		violationsPath  string
		format          string
		baseline        string
		failUnder       int
		noIgnore        bool
		notifyChannels  bool
		notifyDryRun    bool
		interactiveFlag bool
		noInteractive   bool
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Map detected violations onto a page and produce a prioritized compliance report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if page == "" {
				return fmt.Errorf("--page is required")
			}
			if violationsPath == "" {
				return fmt.Errorf("--violations is required")
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getwd: %w", err)
			}
			cfg, err := config.Load(cwd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if format == "" {
				format = cfg.Defaults.Format
			}
			if !cmd.Flags().Changed("fail-under") {
				failUnder = cfg.Defaults.FailUnder
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

			violations, err := analyzer.LoadViolations(violationsPath)
			if err != nil {
				return fmt.Errorf("load violations: %w", err)
			}
			if verbose {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %d violations from %s\n", len(violations), violationsPath)
			}

			// Drop categories excluded via config before mapping.
			kept := violations[:0]
			for _, v := range violations {
				if cfg.ExcludesCategory(string(v.Category())) {
					if verbose {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Excluded %s (%s) via config\n", v.RuleID, v.Category())
					}
					continue
				}
				kept = append(kept, v)
			}

			issues, err := analyzer.MapViolations(doc, kept)
			if err != nil {
				return fmt.Errorf("map violations: %w", err)
			}

			if !noIgnore {
				il, ilErr := analyzer.LoadIgnoreFile(cwd)
				if ilErr != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", ilErr)
				}
				var suppressed int
				issues, suppressed = il.Filter(issues)
				if verbose && suppressed > 0 {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Suppressed %d issues via .sitespectreignore\n", suppressed)
				}
			}

			runID := uuid.NewString()

			if baseline != "" {
				baselineIssues, blErr := analyzer.LoadBaseline(baseline)
				if blErr != nil {
					return fmt.Errorf("load baseline: %w", blErr)
				}
				diff := analyzer.DiffBaseline(issues, baselineIssues)
				reporter.WriteBaselineDiff(cmd.OutOrStdout(), diff)

				if notifyChannels {
					if err := dispatchNotifications(cmd, cfg.Notifications, diff, runID, page, notifyDryRun); err != nil {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: notifications: %v\n", err)
					}
				}
			}

			report := reporter.NewReport(issues)
			report.Metadata = reporter.Metadata{
				RunID:     runID,
				Version:   version,
				Command:   "audit",
				Page:      page,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}

			rendered, err := maybeRenderInteractive(cmd, &report, interactiveConfig{
				force:   interactiveFlag,
				disable: noInteractive,
				format:  format,
				issues:  len(issues),
			})
			if err != nil {
				return err
			}
			if !rendered {
				if err := reporter.Write(cmd.OutOrStdout(), report, reporter.Format(format)); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
			}

			if failUnder > 0 && report.ComplianceScore < failUnder {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "compliance score %d below threshold %d\n",
					report.ComplianceScore, failUnder)
				osExit(2)
			}

			code := analyzer.ExitCode(report.MaxSeverity)
			if code != 0 {
				osExit(code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&page, "page", "", "path to the HTML page to audit")
	cmd.Flags().StringVar(&violationsPath, "violations", "", "path to detected violations (YAML or JSON)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, json, or sarif (default from config, text)")
	cmd.Flags().StringVar(&baseline, "baseline", "", "path to previous JSON report for diff comparison")
	cmd.Flags().IntVar(&failUnder, "fail-under", 0, "exit 2 if the compliance score is below this value")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "bypass .sitespectreignore file")
	cmd.Flags().BoolVar(&notifyChannels, "notify", false, "send baseline diff events to configured notification channels")
	cmd.Flags().BoolVar(&notifyDryRun, "notify-dry-run", false, "log notification payloads instead of sending them")
	cmd.Flags().BoolVarP(&interactiveFlag, "interactive", "i", false, "force the interactive issue explorer")
	cmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "never launch the interactive explorer")

	return cmd
}

func dispatchNotifications(cmd *cobra.Command, cfgs []config.Notification, diff []analyzer.BaselineIssue, runID, page string, dryRun bool) error {
	events := notify.EventsFromDiff(diff, time.Now())
	if len(events) == 0 {
		return nil
	}
	for i := range events {
		events[i].RunID = runID
		events[i].Page = page
	}

	dispatcher, err := notify.NewDispatcher(cfgs, notify.DispatcherOptions{
		DryRun: dryRun,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	return dispatcher.Notify(cmd.Context(), events)
}
