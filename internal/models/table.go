package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Table is a rectangular matrix of inflammation readings: one row per patient,
// one column per day. Missing readings are stored as NaN. A Table is never
// modified after construction; accessors hand out copies.
type Table struct {
	m *mat.Dense
}

// Missing returns the sentinel used for a missing reading.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-reading sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// NewTable copies rows into a new Table. Rows must be non-empty and of equal
// length.
func NewTable(rows [][]float64) (*Table, error) {
	return fromRows("NewTable", rows)
}

// AsTable converts any supported table-like value into a Table.
//
// Accepted: *Table, any gonum mat.Matrix, nested slices of any Go integer or
// float type, and [][]any holding Go numbers. Everything else, including
// nil, strings, scalars, one-dimensional slices, ragged rows and non-numeric
// entries, is a TypeError. Empty tables and infinite readings are a
// ValueError.
func AsTable(v any) (*Table, error) {
	return asTable("AsTable", v)
}

func asTable(op string, v any) (*Table, error) {
	switch t := v.(type) {
	case nil:
		return nil, typeErrorf(op, "expected a numeric table, got nil")
	case *Table:
		if t == nil || t.m == nil {
			return nil, typeErrorf(op, "expected a numeric table, got nil *Table")
		}
		return t, nil
	case *mat.Dense:
		if t == nil {
			return nil, typeErrorf(op, "expected a numeric table, got nil *mat.Dense")
		}
		if t.IsEmpty() {
			return nil, valueErrorf(op, "empty table")
		}
		return fromMatrix(op, t)
	case mat.Matrix:
		r, c := t.Dims()
		if r == 0 || c == 0 {
			return nil, valueErrorf(op, "empty table")
		}
		return fromMatrix(op, t)
	case [][]float64:
		return fromRows(op, t)
	case [][]float32:
		return fromRows(op, t)
	case [][]int:
		return fromRows(op, t)
	case [][]int32:
		return fromRows(op, t)
	case [][]int64:
		return fromRows(op, t)
	case [][]int8:
		return fromRows(op, t)
	case [][]int16:
		return fromRows(op, t)
	case [][]uint:
		return fromRows(op, t)
	case [][]uint8:
		return fromRows(op, t)
	case [][]uint16:
		return fromRows(op, t)
	case [][]uint32:
		return fromRows(op, t)
	case [][]uint64:
		return fromRows(op, t)
	case [][]any:
		rows := make([][]float64, len(t))
		for i, row := range t {
			rows[i] = make([]float64, len(row))
			for j, cell := range row {
				f, ok := toFloat(cell)
				if !ok {
					return nil, typeErrorf(op, "non-numeric entry %v (%T) at [%d][%d]", cell, cell, i, j)
				}
				rows[i][j] = f
			}
		}
		return fromRows(op, rows)
	case [][]string:
		return nil, typeErrorf(op, "entries must be numeric, got strings")
	case string:
		return nil, typeErrorf(op, "expected a numeric table, got string %q", t)
	default:
		if _, ok := toFloat(v); ok {
			return nil, typeErrorf(op, "expected a numeric table, got scalar %v", v)
		}
		return nil, typeErrorf(op, "expected a numeric table, got %T", v)
	}
}

type number interface {
	~float32 | ~float64 |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func fromRows[T number](op string, rows [][]T) (*Table, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, valueErrorf(op, "empty table")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, typeErrorf(op, "ragged table: row %d has %d entries, want %d", i, len(row), cols)
		}
		for j, v := range row {
			f := float64(v)
			if math.IsInf(f, 0) {
				return nil, valueErrorf(op, "infinite reading at [%d][%d]", i, j)
			}
			data = append(data, f)
		}
	}
	return &Table{m: mat.NewDense(len(rows), cols, data)}, nil
}

func fromMatrix(op string, m mat.Matrix) (*Table, error) {
	d := mat.DenseCopyOf(m)
	r, _ := d.Dims()
	for i := 0; i < r; i++ {
		for j, v := range d.RawRowView(i) {
			if math.IsInf(v, 0) {
				return nil, valueErrorf(op, "infinite reading at [%d][%d]", i, j)
			}
		}
	}
	return &Table{m: d}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Dims returns the number of patients (rows) and days (columns).
func (t *Table) Dims() (patients, days int) { return t.m.Dims() }

// At returns the reading for patient i on day j.
func (t *Table) At(i, j int) float64 { return t.m.At(i, j) }

// Row returns a copy of patient i's readings.
func (t *Table) Row(i int) []float64 {
	return append([]float64(nil), t.m.RawRowView(i)...)
}

// Col returns a copy of every patient's reading for day j.
func (t *Table) Col(j int) []float64 { return mat.Col(nil, j, t.m) }

// Rows returns a copy of the whole table as row slices.
func (t *Table) Rows() [][]float64 {
	r, _ := t.m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = t.Row(i)
	}
	return out
}

// Values returns a copy of every reading in row-major order.
func (t *Table) Values() []float64 {
	r, c := t.m.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, t.m.RawRowView(i)...)
	}
	return out
}

// Matrix returns a copy of the underlying matrix.
func (t *Table) Matrix() *mat.Dense { return mat.DenseCopyOf(t.m) }

// MissingCount counts missing readings.
func (t *Table) MissingCount() int {
	var n int
	r, _ := t.m.Dims()
	for i := 0; i < r; i++ {
		for _, v := range t.m.RawRowView(i) {
			if IsMissing(v) {
				n++
			}
		}
	}
	return n
}

func (t *Table) String() string {
	r, c := t.m.Dims()
	return fmt.Sprintf("Table(%d patients x %d days)", r, c)
}
