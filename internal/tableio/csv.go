package tableio

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/inflammation/internal/models"
)

// WriteCSV writes t as headerless comma-separated rows. prec is the number of
// decimals; a negative prec writes the shortest exact representation. Missing
// readings are written as "nan".
func WriteCSV(w io.Writer, t *models.Table, prec int) error {
	return WriteDelimited(w, t, prec, ',')
}

// WriteDelimited is WriteCSV with a custom field separator.
func WriteDelimited(w io.Writer, t *models.Table, prec int, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	patients, days := t.Dims()
	rec := make([]string, days)
	for i := 0; i < patients; i++ {
		for j := 0; j < days; j++ {
			rec[j] = formatCell(t.At(i, j), prec)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
