package analysis

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// LoadXLSX reads the sheet selected by opt.Sheet (by name) or opt.SheetIndex
// (1-based, defaulting to the first sheet) as a Reading Table. Trailing blank
// cells are treated as missing readings.
func LoadXLSX(path string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	sheet, err := resolveSheet(f.GetSheetList(), opt, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	name := filepath.Base(path)
	if opt.Sheet != "" {
		name = fmt.Sprintf("%s (sheet: %s)", name, sheet)
	}
	ds, err := buildDataset(name, records, opt, true)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("loaded %s: %s from %d rows", ds.Name, ds.Table, ds.Rows)
	return ds, nil
}

func resolveSheet(sheets []string, opt Options, file string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook '%s' has no sheets", file)
	}
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.Sheet, file, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range in workbook '%s' (%d sheets)", idx, file, len(sheets))
	}
	return sheets[idx-1], nil
}
