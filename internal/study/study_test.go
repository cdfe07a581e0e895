package study_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/KaramelBytes/inflammation/internal/study"
)

func TestAddDatasetSaveAndLoad(t *testing.T) {
	tdir := t.TempDir()
	p1 := filepath.Join(tdir, "inflammation-01.csv")
	p2 := filepath.Join(tdir, "inflammation-02.csv")
	if err := os.WriteFile(p1, []byte("0,1,2\n1,2,nan\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p2, []byte("0,1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := study.New("trial", "phase one", filepath.Join(tdir, "trial"))
	d1, err := s.AddDataset(p1, "first", analysis.DefaultOptions())
	if err != nil {
		t.Fatalf("add dataset 1: %v", err)
	}
	if d1.Patients != 2 || d1.Days != 3 || d1.Missing != 1 {
		t.Fatalf("dataset metadata = %+v", d1)
	}
	if _, err := s.AddDataset(p2, "second", analysis.DefaultOptions()); err != nil {
		t.Fatalf("add dataset 2: %v", err)
	}
	if _, err := s.AddDataset(p1, "again", analysis.DefaultOptions()); err == nil {
		t.Fatalf("expected duplicate dataset error")
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := study.Load(s.RootDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ds := loaded.SortedDatasets()
	if len(ds) != 2 || ds[0].Name != "inflammation-01.csv" || ds[1].Name != "inflammation-02.csv" {
		t.Fatalf("datasets = %+v", ds)
	}
	if loaded.Description != "phase one" {
		t.Fatalf("description = %q", loaded.Description)
	}
}

func TestAddDatasetRejectsBadData(t *testing.T) {
	tdir := t.TempDir()
	p := filepath.Join(tdir, "words.csv")
	if err := os.WriteFile(p, []byte("Hello,there\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := study.New("bad", "", filepath.Join(tdir, "bad"))
	if _, err := s.AddDataset(p, "", analysis.DefaultOptions()); err == nil {
		t.Fatalf("expected load error")
	}
	if len(s.Datasets) != 0 {
		t.Fatalf("failed dataset should not be recorded")
	}
}

func TestAttachSummaryAvoidsOverwrite(t *testing.T) {
	tdir := t.TempDir()
	src := filepath.Join(tdir, "inflammation-01.csv")
	if err := os.WriteFile(src, []byte("1,2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := study.New("sum", "", filepath.Join(tdir, "sum"))
	d, err := s.AddDataset(src, "", analysis.DefaultOptions())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	first, err := s.AttachSummary(src, "one", "")
	if err != nil {
		t.Fatalf("attach 1: %v", err)
	}
	second, err := s.AttachSummary(src, "two", ".md")
	if err != nil {
		t.Fatalf("attach 2: %v", err)
	}
	if filepath.Base(first) != "inflammation-01.summary.md" || filepath.Base(second) != "inflammation-01__2.summary.md" {
		t.Fatalf("summary files = %s, %s", first, second)
	}
	if d.Summary != filepath.Join("summaries", "inflammation-01__2.summary.md") {
		t.Fatalf("dataset summary = %q", d.Summary)
	}
}
