package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Precision != 2 || c.OutputFormat != "markdown" || c.BatchJobs != 4 {
		t.Fatalf("defaults = %+v", c)
	}
	if len(c.MissingTokens) != 4 {
		t.Fatalf("missing tokens = %v", c.MissingTokens)
	}
	if c.StudiesDir != filepath.Join(home, ".inflammation", "studies") {
		t.Fatalf("studies dir = %q", c.StudiesDir)
	}
}

func TestSaveLoadRoundTripAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	c := &Global{Precision: 4, OutputFormat: "json", Delimiter: ";", HasHeader: true, BatchJobs: 2}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Precision != 4 || got.OutputFormat != "json" || got.Delimiter != ";" || !got.HasHeader {
		t.Fatalf("loaded = %+v", got)
	}

	t.Setenv("INFLAMMATION_PRECISION", "1")
	got, err = Load(path)
	if err != nil {
		t.Fatalf("Load with env: %v", err)
	}
	if got.Precision != 1 {
		t.Fatalf("env override precision = %d, want 1", got.Precision)
	}
}
