package tableio

import (
	"fmt"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes t to a new workbook with a single sheet. Missing readings
// are left as blank cells.
func WriteXLSX(path string, t *models.Table, sheet string) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}
	patients, days := t.Dims()
	for i := 0; i < patients; i++ {
		row := make([]any, days)
		for j := 0; j < days; j++ {
			if v := t.At(i, j); !models.IsMissing(v) {
				row[j] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	logrus.Debugf("wrote %s to %s", t, path)
	return nil
}
