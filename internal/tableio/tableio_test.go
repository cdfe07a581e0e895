package tableio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/parquet-go/parquet-go"
)

func mustTable(t *testing.T, rows [][]float64) *models.Table {
	t.Helper()
	tbl, err := models.NewTable(rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestWriteCSVPrecision(t *testing.T) {
	tbl := mustTable(t, [][]float64{{1.0 / 3.0, 1}, {models.Missing(), 0.5}})
	var b strings.Builder
	if err := WriteCSV(&b, tbl, 2); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got, want := b.String(), "0.33,1.00\nnan,0.50\n"; got != want {
		t.Fatalf("csv = %q, want %q", got, want)
	}

	b.Reset()
	if err := WriteDelimited(&b, tbl, -1, '\t'); err != nil {
		t.Fatalf("WriteDelimited: %v", err)
	}
	if !strings.HasPrefix(b.String(), "0.3333333333333333\t1\n") {
		t.Fatalf("tsv = %q", b.String())
	}
}

func TestParquetRoundTrip(t *testing.T) {
	tbl := mustTable(t, [][]float64{{0, 1, 2}, {3, models.Missing(), 5}})
	path := filepath.Join(t.TempDir(), "readings.parquet")
	if err := WriteParquet(path, tbl); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	got, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	patients, days := got.Dims()
	if patients != 2 || days != 3 {
		t.Fatalf("dims = %dx%d", patients, days)
	}
	if got.At(1, 2) != 5 || !models.IsMissing(got.At(1, 1)) {
		t.Fatalf("rows = %v", got.Rows())
	}
}

func TestReadParquetSparseCellsAreMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.parquet")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := parquet.NewGenericWriter[ReadingRow](f)
	rows := []ReadingRow{{Patient: 0, Day: 0, Value: 4}, {Patient: 2, Day: 1, Value: 8}}
	if _, err := w.Write(rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	tbl, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	patients, days := tbl.Dims()
	if patients != 3 || days != 2 {
		t.Fatalf("dims = %dx%d, want 3x2", patients, days)
	}
	if tbl.MissingCount() != 4 {
		t.Fatalf("missing = %d, want 4", tbl.MissingCount())
	}
}

func TestWriteXLSXNamedSheet(t *testing.T) {
	tbl := mustTable(t, [][]float64{{1, 2}})
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := WriteXLSX(path, tbl, "Normalised"); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}
