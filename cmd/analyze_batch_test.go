package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/KaramelBytes/inflammation/internal/study"
)

func TestAnalyzeBatch_AttachAvoidsOverwrite(t *testing.T) {
	home := isolateHome(t)

	// Two files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	if err := os.MkdirAll(d1, 0o755); err != nil {
		t.Fatalf("mkdir d1: %v", err)
	}
	if err := os.MkdirAll(d2, 0o755); err != nil {
		t.Fatalf("mkdir d2: %v", err)
	}
	writeReadings(t, d1, "trial.csv", "0,1,2\n3,4,5\n")
	writeReadings(t, d2, "trial.csv", "1,1,1\n2,2,2\n")

	runCmd(t, "init", "batchs", "-d", "batch study")
	runCmd(t, "analyze-batch", filepath.Join(home, "d*", "trial.csv"), "-s", "batchs", "--sample-rows-study", "0", "--jobs", "2")

	dir, err := resolveStudyDir("batchs")
	if err != nil {
		t.Fatalf("resolve study: %v", err)
	}
	sumDir := filepath.Join(dir, "summaries")
	b1 := filepath.Join(sumDir, "trial.summary.md")
	b2 := filepath.Join(sumDir, "trial__2.summary.md")
	body1, err := os.ReadFile(b1)
	if err != nil {
		t.Fatalf("missing first summary: %v", err)
	}
	body2, err := os.ReadFile(b2)
	if err != nil {
		t.Fatalf("missing second summary: %v", err)
	}
	// Input order is preserved: d1 is written first.
	if !strings.Contains(string(body1), "| 3 | 3.50 | 5.00 | 2.00 |") {
		t.Fatalf("first summary should describe d1:\n%s", body1)
	}
	if !strings.Contains(string(body2), "| 3 | 1.50 | 2.00 | 1.00 |") {
		t.Fatalf("second summary should describe d2:\n%s", body2)
	}
	for _, b := range [][]byte{body1, body2} {
		if strings.Contains(string(b), "## Sample patients") {
			t.Fatalf("expected no sample patients:\n%s", b)
		}
	}
}

func TestAnalyzeBatch_StdoutInInputOrder(t *testing.T) {
	home := isolateHome(t)
	a := writeReadings(t, home, "a.csv", "1,2\n")
	b := writeReadings(t, home, "b.csv", "3,4\n")

	out := runCmd(t, "analyze-batch", b, a, "--format", "json")
	ib := strings.Index(out, "[1/2] b.csv")
	ia := strings.Index(out, "[2/2] a.csv")
	if ib < 0 || ia < 0 || ib > ia {
		t.Fatalf("progress should follow argument order:\n%s", out)
	}

	out = runCmd(t, "analyze-batch", a, b, "--quiet")
	if strings.TrimSpace(out) != "" {
		t.Fatalf("quiet batch without study should print nothing, got %q", out)
	}
}

func TestAnalyzeBatch_NoMatches(t *testing.T) {
	home := isolateHome(t)
	if _, err := execCmd(t, "analyze-batch", filepath.Join(home, "*.csv")); err == nil {
		t.Fatalf("expected error when no files match")
	}
}

func TestAnalyzeAll_FirstErrorWins(t *testing.T) {
	dir := t.TempDir()
	good := writeReadings(t, dir, "good.csv", "1,2\n3,4\n")
	bad := writeReadings(t, dir, "bad.csv", "1,x\n")

	reports, err := analyzeAll(context.Background(), []string{good, good, good}, analysis.DefaultOptions(), 2)
	if err != nil {
		t.Fatalf("analyzeAll: %v", err)
	}
	if len(reports) != 3 || reports[2] == nil || reports[2].DailyMax[1] != 4 {
		t.Fatalf("reports = %+v", reports)
	}

	_, err = analyzeAll(context.Background(), []string{good, bad}, analysis.DefaultOptions(), 1)
	if !errors.Is(err, models.ErrType) {
		t.Fatalf("expected type error, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.csv") {
		t.Fatalf("error should name the file: %v", err)
	}
}

func TestAnalyzeBatch_FailedAttachLeavesStudyUnchanged(t *testing.T) {
	home := isolateHome(t)
	a := writeReadings(t, home, "a.csv", "1,2\n")
	b := writeReadings(t, home, "b.csv", "3,4\n")

	runCmd(t, "init", "rollback")
	runCmd(t, "add", "-s", "rollback", a)
	dir, err := resolveStudyDir("rollback")
	if err != nil {
		t.Fatalf("resolve study: %v", err)
	}
	// A directory in the way of b's temp file makes the second write fail.
	sumDir := filepath.Join(dir, "summaries")
	if err := os.MkdirAll(filepath.Join(sumDir, "b.summary.md.tmp"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := execCmd(t, "analyze-batch", a, b, "-s", "rollback"); err == nil {
		t.Fatalf("expected attach failure")
	}
	if _, err := os.Stat(filepath.Join(sumDir, "a.summary.md")); !os.IsNotExist(err) {
		t.Fatalf("summary for a.csv should be removed, stat err = %v", err)
	}
	s, err := study.Load(dir)
	if err != nil {
		t.Fatalf("load study: %v", err)
	}
	d, ok := s.DatasetByPath(a)
	if !ok {
		t.Fatalf("dataset not registered")
	}
	if d.Summary != "" {
		t.Fatalf("study should not link a summary, got %q", d.Summary)
	}
}
