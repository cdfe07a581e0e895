package parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/KaramelBytes/inflammation/internal/parser"
)

func TestAnalyzeFileCSV_Summary(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "inflammation-03.csv")
	content := "0,0,1,3\n" +
		"0,1,2,1\n" +
		"0,1,1,3\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep, err := parser.AnalyzeFile(p, analysis.DefaultOptions())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	out := rep.Markdown()
	if !strings.Contains(out, "## Dataset summary") {
		t.Fatalf("expected dataset summary header, got: %q", out)
	}
	if !strings.Contains(out, "| 4 | 2.33 | 3.00 | 1.00 |") {
		t.Fatalf("expected day 4 statistics, got: %q", out)
	}
}
