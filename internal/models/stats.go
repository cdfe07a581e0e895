package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DailyMax returns the maximum reading of each day across all patients.
// Missing readings are skipped; a day with no readings yields NaN.
func DailyMax(data any) ([]float64, error) {
	t, err := asTable("DailyMax", data)
	if err != nil {
		return nil, err
	}
	return reduceDays(t, floats.Max), nil
}

// DailyMin returns the minimum reading of each day across all patients.
// Missing readings are skipped; a day with no readings yields NaN.
func DailyMin(data any) ([]float64, error) {
	t, err := asTable("DailyMin", data)
	if err != nil {
		return nil, err
	}
	return reduceDays(t, floats.Min), nil
}

// DailyMean returns the arithmetic mean of each day across all patients,
// ignoring missing readings.
func DailyMean(data any) ([]float64, error) {
	t, err := asTable("DailyMean", data)
	if err != nil {
		return nil, err
	}
	return reduceDays(t, func(x []float64) float64 { return stat.Mean(x, nil) }), nil
}

// DailyStdDev returns the population standard deviation of each day across all
// patients, ignoring missing readings.
func DailyStdDev(data any) ([]float64, error) {
	t, err := asTable("DailyStdDev", data)
	if err != nil {
		return nil, err
	}
	return reduceDays(t, func(x []float64) float64 { return math.Sqrt(stat.PopVariance(x, nil)) }), nil
}

// PatientNormalise rescales every patient's readings by that patient's maximum
// so that each row lies in [0, 1]. The maximum ignores missing readings; missing
// positions, and positions in a row whose maximum is 0, come out as 0.
//
// Negative readings are a ValueError. The input is never modified.
func PatientNormalise(data any) (*Table, error) {
	const op = "PatientNormalise"
	t, err := asTable(op, data)
	if err != nil {
		return nil, err
	}
	patients, days := t.Dims()
	for i := 0; i < patients; i++ {
		for j := 0; j < days; j++ {
			if v := t.At(i, j); v < 0 {
				return nil, valueErrorf(op, "negative reading %g for patient %d on day %d", v, i, j)
			}
		}
	}

	out := mat.NewDense(patients, days, nil)
	for i := 0; i < patients; i++ {
		row := t.Row(i)
		valid := present(row)
		if len(valid) == 0 {
			continue
		}
		rowMax := floats.Max(valid)
		for j, v := range row {
			q := v / rowMax
			if math.IsNaN(q) {
				q = 0
			}
			out.Set(i, j, q)
		}
	}
	return &Table{m: out}, nil
}

func reduceDays(t *Table, reduce func([]float64) float64) []float64 {
	_, days := t.Dims()
	out := make([]float64, days)
	for j := range out {
		vals := present(t.Col(j))
		if len(vals) == 0 {
			out[j] = Missing()
			continue
		}
		out[j] = reduce(vals)
	}
	return out
}

// present returns the non-missing values of vals in a new slice.
func present(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}
