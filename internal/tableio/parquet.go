package tableio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
)

// ReadingRow is one cell of a Reading Table in long format.
type ReadingRow struct {
	Patient int64   `parquet:"patient"`
	Day     int64   `parquet:"day"`
	Value   float64 `parquet:"value"`
}

const readBatch = 1024

// WriteParquet writes every cell of t, missing readings included, as a
// Snappy-compressed Parquet file.
func WriteParquet(path string, t *models.Table) error {
	output, err := os.Create(path)
	if err != nil {
		return err
	}
	schema := parquet.SchemaOf(new(ReadingRow))
	writer := parquet.NewGenericWriter[ReadingRow](output, schema, parquet.Compression(&parquet.Snappy))

	patients, days := t.Dims()
	rows := make([]ReadingRow, 0, days)
	for i := 0; i < patients; i++ {
		rows = rows[:0]
		for j := 0; j < days; j++ {
			rows = append(rows, ReadingRow{Patient: int64(i), Day: int64(j), Value: t.At(i, j)})
		}
		if _, err := writer.Write(rows); err != nil {
			_ = writer.Close()
			_ = output.Close()
			return fmt.Errorf("write patient %d: %w", i, err)
		}
	}
	if err := writer.Close(); err != nil {
		_ = output.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	if err := output.Close(); err != nil {
		return err
	}
	logrus.Debugf("wrote %s to %s", t, path)
	return nil
}

// ReadParquet reads a long-format Parquet file into a Reading Table. The table
// spans every patient and day index seen; cells absent from the file are
// missing readings.
func ReadParquet(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Error(err)
		}
	}()

	reader := parquet.NewGenericReader[ReadingRow](f)
	defer reader.Close()

	var cells []ReadingRow
	buf := make([]ReadingRow, readBatch)
	for {
		n, err := reader.Read(buf)
		cells = append(cells, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}

	var patients, days int64
	for _, c := range cells {
		if c.Patient < 0 || c.Day < 0 {
			return nil, fmt.Errorf("read parquet: negative index (patient %d, day %d)", c.Patient, c.Day)
		}
		patients = max(patients, c.Patient+1)
		days = max(days, c.Day+1)
	}
	rows := make([][]float64, patients)
	for i := range rows {
		rows[i] = make([]float64, days)
		for j := range rows[i] {
			rows[i][j] = math.NaN()
		}
	}
	for _, c := range cells {
		rows[c.Patient][c.Day] = c.Value
	}
	t, err := models.NewTable(rows)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	logrus.Debugf("read %s from %s (%d cells)", t, path, len(cells))
	return t, nil
}
