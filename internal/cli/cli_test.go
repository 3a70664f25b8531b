package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/sitespectre/internal/reporter"
)

const testPage = `<html><head><title>Shop</title></head><body>
<img src="hero.png">
<img src="logo.png" alt="logo">
<form><input type="email" name="mail"></form>
<a class="js-menu">Menu</a>
</body></html>`

const testViolations = `violations:
  - rule_id: wcag_missing_alt
  - rule_id: gdpr_cookie_consent
`

// execCLI runs the root command with captured output and a stubbed exit.
// The recorded code is the first exit request, matching what a real run
// would terminate with.
func execCLI(t *testing.T, args ...string) (string, string, int, error) {
	t.Helper()

	prevExit := osExit
	exitCode := 0
	exited := false
	osExit = func(code int) {
		if !exited {
			exited = true
			exitCode = code
		}
	}
	t.Cleanup(func() { osExit = prevExit })

	root := newRootCmd("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), exitCode, err
}

// chdirTemp moves the test into an empty temp dir so no ambient config,
// ignore file, or baseline leaks in.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
	if err := os.Chdir(tmp); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	return tmp
}

func writeTestInputs(t *testing.T, dir string) (pagePath, violationsPath string) {
	t.Helper()
	pagePath = filepath.Join(dir, "page.html")
	violationsPath = filepath.Join(dir, "violations.yml")
	if err := os.WriteFile(pagePath, []byte(testPage), 0o600); err != nil {
		t.Fatalf("write page: %v", err)
	}
	if err := os.WriteFile(violationsPath, []byte(testViolations), 0o600); err != nil {
		t.Fatalf("write violations: %v", err)
	}
	return pagePath, violationsPath
}

func TestVersionCommand(t *testing.T) {
	stdout, _, _, err := execCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, "sitespectre test") {
		t.Fatalf("unexpected version output: %q", stdout)
	}
}

func TestAuditRequiresFlags(t *testing.T) {
	_, _, _, err := execCLI(t, "audit")
	if err == nil || !strings.Contains(err.Error(), "--page is required") {
		t.Fatalf("expected missing --page error, got %v", err)
	}

	_, _, _, err = execCLI(t, "audit", "--page", "x.html")
	if err == nil || !strings.Contains(err.Error(), "--violations is required") {
		t.Fatalf("expected missing --violations error, got %v", err)
	}
}

func TestAuditJSONOutput(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, violationsPath := writeTestInputs(t, tmp)

	stdout, _, exitCode, err := execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath, "--format", "json")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}

	var report reporter.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid report JSON: %v\n%s", err, stdout)
	}
	if report.TotalIssues != 2 {
		t.Fatalf("total issues = %d, want 2", report.TotalIssues)
	}
	if report.SeverityBreakdown.Critical != 1 || report.SeverityBreakdown.High != 1 {
		t.Fatalf("unexpected breakdown: %+v", report.SeverityBreakdown)
	}
	if report.ComplianceScore != 60 {
		t.Fatalf("compliance score = %d, want 60", report.ComplianceScore)
	}
	// Cookie consent (priority 1) sorts before missing alt (priority 2).
	if report.Issues[0].FixPriority > report.Issues[1].FixPriority {
		t.Fatal("issues not ordered by fix priority")
	}
	if report.Metadata.RunID == "" {
		t.Fatal("run id not set")
	}
	// One critical issue means exit 3.
	if exitCode != 3 {
		t.Fatalf("exit code = %d, want 3", exitCode)
	}
}

func TestAuditFailUnder(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, violationsPath := writeTestInputs(t, tmp)

	_, stderr, exitCode, err := execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath,
		"--format", "json", "--fail-under", "90")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}
	if !strings.Contains(stderr, "below threshold 90") {
		t.Fatalf("missing threshold message: %q", stderr)
	}
}

func TestAuditIgnoreFile(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, violationsPath := writeTestInputs(t, tmp)

	ignore := "MISSING_ALT_TEXT *\n"
	if err := os.WriteFile(filepath.Join(tmp, ".sitespectreignore"), []byte(ignore), 0o600); err != nil {
		t.Fatalf("write ignore: %v", err)
	}

	stdout, _, _, err := execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath, "--format", "json")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}

	var report reporter.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid report JSON: %v", err)
	}
	if report.TotalIssues != 1 {
		t.Fatalf("total issues = %d, want 1 after ignore", report.TotalIssues)
	}

	// --no-ignore bypasses the file.
	stdout, _, _, err = execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath, "--format", "json", "--no-ignore")
	if err != nil {
		t.Fatalf("audit --no-ignore: %v", err)
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid report JSON: %v", err)
	}
	if report.TotalIssues != 2 {
		t.Fatalf("total issues = %d, want 2 with --no-ignore", report.TotalIssues)
	}
}

func TestAuditConfigExcludesCategory(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, violationsPath := writeTestInputs(t, tmp)

	cfg := "exclude:\n  categories: [COOKIE_CONSENT]\n"
	if err := os.WriteFile(filepath.Join(tmp, ".sitespectre.yml"), []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	stdout, _, exitCode, err := execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath, "--format", "json")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}

	var report reporter.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("invalid report JSON: %v", err)
	}
	if report.TotalIssues != 1 {
		t.Fatalf("total issues = %d, want 1 after exclusion", report.TotalIssues)
	}
	// No critical left, only the high missing-alt issue.
	if exitCode != 2 {
		t.Fatalf("exit code = %d, want 2", exitCode)
	}
}

func TestAuditBaselineDiff(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, violationsPath := writeTestInputs(t, tmp)

	// First run produces the baseline.
	stdout, _, _, err := execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath, "--format", "json")
	if err != nil {
		t.Fatalf("baseline run: %v", err)
	}
	baselinePath := filepath.Join(tmp, "baseline.json")
	if err := os.WriteFile(baselinePath, []byte(stdout), 0o600); err != nil {
		t.Fatalf("write baseline: %v", err)
	}

	// Second run against the baseline: everything unchanged.
	stdout, _, _, err = execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath,
		"--format", "json", "--baseline", baselinePath)
	if err != nil {
		t.Fatalf("diff run: %v", err)
	}
	if !strings.Contains(stdout, "unchanged") {
		t.Fatalf("expected unchanged summary before report: %q", stdout)
	}
}

func TestAuditMissingBaseline(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, violationsPath := writeTestInputs(t, tmp)

	_, _, _, err := execCLI(t,
		"audit", "--page", pagePath, "--violations", violationsPath,
		"--baseline", filepath.Join(tmp, "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "load baseline") {
		t.Fatalf("expected baseline load error, got %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	tmp := chdirTemp(t)
	pagePath, _ := writeTestInputs(t, tmp)

	stdout, _, _, err := execCLI(t, "inspect", "--page", pagePath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"MISSING_ALT_TEXT", "UNLABELED_INPUTS", "KEYBOARD_ACCESS", "//html"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("inspect output missing %q: %q", want, stdout)
		}
	}
}

func TestRegulationsCommand(t *testing.T) {
	stdout, _, _, err := execCLI(t, "regulations")
	if err != nil {
		t.Fatalf("regulations: %v", err)
	}
	for _, want := range []string{"GDPR", "WCAG 2.1", "ADA Title III", "Article 7", "2.1.1"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("regulations output missing %q: %q", want, stdout)
		}
	}
}

func TestInitCommand(t *testing.T) {
	tmp := chdirTemp(t)

	stdout, _, _, err := execCLI(t, "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(stdout, "created .sitespectre.yml") {
		t.Fatalf("unexpected init output: %q", stdout)
	}
	for _, name := range []string{".sitespectre.yml", ".sitespectreignore"} {
		if _, err := os.Stat(filepath.Join(tmp, name)); err != nil {
			t.Fatalf("%s not created: %v", name, err)
		}
	}

	// Second run skips existing files.
	stdout, stderr, _, err := execCLI(t, "init")
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	if !strings.Contains(stderr, "already exists") {
		t.Fatalf("expected skip notice, got stderr %q", stderr)
	}
	if !strings.Contains(stdout, "Nothing to do") {
		t.Fatalf("expected nothing-to-do notice, got %q", stdout)
	}
}
