package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/sirupsen/logrus"
)

// Options controls how reading tables are loaded and reports rendered.
type Options struct {
	// MaxRows limits patients loaded; 0 means unlimited.
	MaxRows int
	// SampleRows determines how many patients are shown in the report.
	SampleRows int
	// Delimiter for CSV. If 0, picked from the file extension (tab for .tsv, else comma).
	Delimiter rune
	// HasHeader skips the first record.
	HasHeader bool
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// MissingTokens are cell values (case-insensitive) read as a missing reading.
	MissingTokens []string
	// Sheet selects an XLSX sheet by name; SheetIndex (1-based) is used when Sheet is empty.
	Sheet      string
	SheetIndex int
	// Precision is the number of decimals used when rendering; negative means shortest.
	Precision int
}

// DefaultOptions returns reasonable defaults for inflammation datasets.
func DefaultOptions() Options {
	return Options{
		MaxRows:       100000,
		SampleRows:    5,
		MissingTokens: []string{"", "nan", "na", "n/a"},
		SheetIndex:    1,
		Precision:     2,
	}
}

// Dataset is a loaded Reading Table plus where it came from.
type Dataset struct {
	Name  string
	Table *models.Table
	// Rows counts data records in the source, including any beyond MaxRows.
	Rows int
}

// Truncated reports whether MaxRows dropped patients from the source.
func (d *Dataset) Truncated() bool {
	patients, _ := d.Table.Dims()
	return d.Rows > patients
}

// LoadCSV reads a delimited file with one patient per record and one day per
// field. Missing cells become NaN; any other non-numeric cell is a
// models.TypeError.
func LoadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	ds, err := buildDataset(filepath.Base(path), records, opt, false)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("loaded %s: %s from %d rows", ds.Name, ds.Table, ds.Rows)
	return ds, nil
}

// buildDataset converts raw records into a Dataset. When pad is set, short
// records are padded with missing readings (spreadsheets drop trailing blank
// cells); otherwise a short or long record is a TypeError.
func buildDataset(name string, records [][]string, opt Options, pad bool) (*Dataset, error) {
	if opt.HasHeader && len(records) > 0 {
		records = records[1:]
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	ds := &Dataset{Name: name, Rows: len(records)}
	records = records[:min(len(records), maxRows)]
	width := 0
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}
	rows := make([][]float64, 0, len(records))
	for i, rec := range records {
		if len(rec) != width && !pad {
			return nil, &models.TypeError{
				Op:     "load " + name,
				Reason: fmt.Sprintf("ragged table: row %d has %d cells, want %d", i+1, len(rec), width),
			}
		}
		row := make([]float64, width)
		for j := range row {
			if j >= len(rec) {
				row[j] = models.Missing()
				continue
			}
			v, err := parseCell(rec[j], opt)
			if err != nil {
				return nil, &models.TypeError{
					Op:     "load " + name,
					Reason: fmt.Sprintf("row %d, column %d: %v", i+1, j+1, err),
				}
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	t, err := models.NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	ds.Table = t
	return ds, nil
}

func parseCell(s string, opt Options) (float64, error) {
	v := strings.TrimSpace(s)
	for _, tok := range opt.MissingTokens {
		if strings.EqualFold(v, strings.TrimSpace(tok)) {
			return models.Missing(), nil
		}
	}
	x, ok := parseNumeric(v, opt)
	if !ok {
		return 0, fmt.Errorf("non-numeric cell %q", v)
	}
	if math.IsInf(x, 0) {
		return 0, fmt.Errorf("non-finite cell %q", v)
	}
	return x, nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Default to comma; using filename heuristic only to avoid reading twice in restricted env.
	return ','
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// Decide decimal separator
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		// auto detect
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	// Remove thousands separators (common: ',', '.', space) if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
