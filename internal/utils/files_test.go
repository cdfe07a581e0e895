package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/inflammation/internal/utils"
)

func TestSafeWriteFileReplacesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := utils.SafeWriteFile(path, []byte("old")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := utils.SafeWriteFile(path, []byte("new")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "new" {
		t.Fatalf("content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone, stat err = %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"days": 40})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"days\": 40") {
		t.Fatalf("unexpected json: %s", b)
	}
}

func TestFindStudyRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, utils.StudyFileName), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	nested := filepath.Join(root, "data", "raw")
	if err := utils.EnsureDir(nested); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	got, err := utils.FindStudyRoot(nested)
	if err != nil {
		t.Fatalf("FindStudyRoot: %v", err)
	}
	if got != root {
		t.Fatalf("root = %q, want %q", got, root)
	}
	if _, err := utils.FindStudyRoot(t.TempDir()); err == nil {
		t.Fatalf("expected error outside a study")
	}
}
