package tableio

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/KaramelBytes/inflammation/internal/utils"
)

// WriteFile writes t to path in the format named by its extension: .parquet,
// .xlsx, or delimited text (.tsv uses tabs, anything else commas).
func WriteFile(path string, t *models.Table, prec int) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return WriteParquet(path, t)
	case ".xlsx":
		return WriteXLSX(path, t, "")
	}
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	var b strings.Builder
	if err := WriteDelimited(&b, t, prec, comma); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, []byte(b.String())); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// EnsureParent creates the directory that will hold path.
func EnsureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

func formatCell(v float64, prec int) string {
	if models.IsMissing(v) {
		return "nan"
	}
	if prec < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
