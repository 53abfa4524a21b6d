package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

// resetFlags clears values and Changed state left behind by earlier runs.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(fl *pflag.Flag) {
		if fl.Value.Type() != "stringSlice" {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	insGroupBy = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"SHEETLOOM_THEME", "SHEETLOOM_PALETTE", "SHEETLOOM_SCHEMA"} {
		t.Setenv(k, "")
	}
	return home
}

func TestCLI_SampleThenRender(t *testing.T) {
	home := isolate(t)
	xlsx := filepath.Join(home, "data", "sample.xlsx")
	out := mustRun(t, "sample", "-o", xlsx)
	if !strings.Contains(out, "✓ Wrote sample workbook") {
		t.Fatalf("unexpected output: %q", out)
	}
	wb, err := workbook.LoadFile(xlsx)
	if err != nil {
		t.Fatalf("load written sample: %v", err)
	}
	if wb.Len() != 6 {
		t.Fatalf("sheets = %d, want 6", wb.Len())
	}

	page := filepath.Join(home, "out", "dashboard.html")
	out = mustRun(t, "render", xlsx, "-o", page, "--theme", "light", "--palette", "set2")
	if !strings.Contains(out, "(6 of 6 charts)") {
		t.Fatalf("unexpected render output: %q", out)
	}
	b, err := os.ReadFile(page)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	html := string(b)
	if n := strings.Count(html, "data:image/svg+xml;base64,"); n != 6 {
		t.Fatalf("inline charts = %d, want 6", n)
	}
	if strings.Contains(html, "<form") {
		t.Fatalf("static page should have no forms")
	}
	if !strings.Contains(html, `<body class="light">`) {
		t.Fatalf("theme flag not applied")
	}
	if !strings.Contains(html, "12,927") {
		t.Fatalf("annual total missing from page")
	}
}

func TestCLI_RenderSampleToStdoutKorean(t *testing.T) {
	isolate(t)
	out := mustRun(t, "render", "--schema", "ko")
	if !strings.Contains(out, "시각화 대시보드") || !strings.Contains(out, "연간 총 매출") {
		t.Fatalf("expected Korean labels in page")
	}
}

func TestCLI_RenderRejectsBadTheme(t *testing.T) {
	isolate(t)
	if _, err := runCmd(t, "render", "--theme", "neon"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
	if _, err := runCmd(t, "render", filepath.Join(t.TempDir(), "missing.xlsx")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCLI_InspectCoverage(t *testing.T) {
	home := isolate(t)
	csv := filepath.Join(home, "pareto.csv")
	if err := os.WriteFile(csv, []byte("department,revenue\nSales,10\nHR,4\nOps,7\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := mustRun(t, "inspect", csv)
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"Sheet: pareto",
		"[CHART COVERAGE]",
		"✓ pareto",
		"⚠ bar: missing month, total_revenue",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q\n%s", want, out)
		}
	}

	if _, err := runCmd(t, "inspect", csv, "--sheet", "nope"); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}

func TestCLI_InspectJSONToFile(t *testing.T) {
	home := isolate(t)
	xlsx := filepath.Join(home, "sample.xlsx")
	mustRun(t, "sample", "-o", xlsx)
	dest := filepath.Join(home, "profile.json")
	out := mustRun(t, "inspect", xlsx, "--sheet", "pareto", "--json", "-o", dest, "--correlations")
	if !strings.Contains(out, "✓ Wrote inspection of 1 sheet(s)") {
		t.Fatalf("unexpected output: %q", out)
	}
	b, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var reports []struct {
		Name string
		Rows int
	}
	if err := json.Unmarshal(b, &reports); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(reports) != 1 || reports[0].Name != "pareto" || reports[0].Rows == 0 {
		t.Fatalf("unexpected reports: %+v", reports)
	}
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)
	if out := mustRun(t, "config", "set", "theme", "plotly_white"); !strings.Contains(out, "✓ Saved theme = light") {
		t.Fatalf("unexpected set output: %q", out)
	}
	mustRun(t, "config", "set", "palette", "pastel")
	if _, err := os.Stat(filepath.Join(home, ".sheetloom", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := mustRun(t, "config", "show")
	if !strings.Contains(out, "theme: light") || !strings.Contains(out, "palette: Pastel") {
		t.Fatalf("unexpected config show: %q", out)
	}
	if got := strings.TrimSpace(mustRun(t, "config", "get", "palette")); got != "Pastel" {
		t.Fatalf("config get palette = %q", got)
	}
	if _, err := runCmd(t, "config", "get", "nope"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := runCmd(t, "config", "set", "theme", "neon"); err == nil {
		t.Fatalf("expected error for invalid theme")
	}

	// saved defaults now drive render
	page := mustRun(t, "render")
	if !strings.Contains(page, `<body class="light">`) {
		t.Fatalf("saved theme not applied to render")
	}
}
