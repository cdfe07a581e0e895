package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/KaramelBytes/inflammation/internal/utils"
	"github.com/gomarkdown/markdown"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
)

// maxReportDays caps the day columns shown in the sample table.
const maxReportDays = 12

// Vector is a Daily Aggregate Vector. Missing and non-finite entries encode
// as JSON null.
type Vector []float64

func (v Vector) MarshalJSON() ([]byte, error) {
	b := []byte{'['}
	for i, x := range v {
		if i > 0 {
			b = append(b, ',')
		}
		if models.IsMissing(x) || math.IsInf(x, 0) {
			b = append(b, "null"...)
			continue
		}
		b = strconv.AppendFloat(b, x, 'g', -1, 64)
	}
	return append(b, ']'), nil
}

// Summary describes every non-missing reading in a table.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// Report is a rendering-friendly analysis of one Reading Table.
type Report struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Rows        int      `json:"rows"`
	Patients    int      `json:"patients"`
	Days        int      `json:"days"`
	Missing     int      `json:"missing"`
	DailyMean   Vector   `json:"daily_mean"`
	DailyMax    Vector   `json:"daily_max"`
	DailyMin    Vector   `json:"daily_min"`
	DailyStdDev Vector   `json:"daily_std_dev"`
	Overall     Summary  `json:"overall"`
	Samples     []Vector `json:"samples,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`

	precision int
}

// Analyze computes the daily statistics of t.
func Analyze(name string, t *models.Table, opt Options) (*Report, error) {
	patients, days := t.Dims()
	rep := &Report{
		ID:        uuid.NewString(),
		Name:      name,
		Rows:      patients,
		Patients:  patients,
		Days:      days,
		Missing:   t.MissingCount(),
		precision: opt.Precision,
	}
	var err error
	if rep.DailyMean, err = models.DailyMean(t); err != nil {
		return nil, err
	}
	if rep.DailyMax, err = models.DailyMax(t); err != nil {
		return nil, err
	}
	if rep.DailyMin, err = models.DailyMin(t); err != nil {
		return nil, err
	}
	if rep.DailyStdDev, err = models.DailyStdDev(t); err != nil {
		return nil, err
	}
	if rep.Overall, err = summarize(t.Values()); err != nil {
		return nil, err
	}
	sampleRows := opt.SampleRows
	if sampleRows > patients {
		sampleRows = patients
	}
	for i := 0; i < sampleRows; i++ {
		rep.Samples = append(rep.Samples, Vector(t.Row(i)))
	}
	if rep.Missing > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d missing readings were excluded from the statistics", rep.Missing))
	}
	return rep, nil
}

// AnalyzeDataset analyzes a loaded dataset, noting any MaxRows truncation.
func AnalyzeDataset(ds *Dataset, opt Options) (*Report, error) {
	rep, err := Analyze(ds.Name, ds.Table, opt)
	if err != nil {
		return nil, err
	}
	rep.Rows = ds.Rows
	if ds.Truncated() {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", rep.Patients, ds.Rows))
	}
	return rep, nil
}

// AnalyzeCSV loads and analyzes a delimited file.
func AnalyzeCSV(path string, opt Options) (*Report, error) {
	ds, err := LoadCSV(path, opt)
	if err != nil {
		return nil, err
	}
	return AnalyzeDataset(ds, opt)
}

// AnalyzeXLSX loads and analyzes a worksheet.
func AnalyzeXLSX(path string, opt Options) (*Report, error) {
	ds, err := LoadXLSX(path, opt)
	if err != nil {
		return nil, err
	}
	return AnalyzeDataset(ds, opt)
}

func summarize(values []float64) (Summary, error) {
	var s Summary
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !models.IsMissing(v) {
			data = append(data, v)
		}
	}
	s.Count = data.Len()
	if s.Count == 0 {
		return s, nil
	}
	var err error
	if s.Min, err = stats.Min(data); err != nil {
		return s, fmt.Errorf("overall min: %w", err)
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, fmt.Errorf("overall max: %w", err)
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, fmt.Errorf("overall mean: %w", err)
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, fmt.Errorf("overall median: %w", err)
	}
	if s.P90, err = stats.Percentile(data, 90); err != nil {
		return s, fmt.Errorf("overall p90: %w", err)
	}
	return s, nil
}

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("## Dataset summary\n\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("- File: %s\n", r.Name))
	}
	if r.Rows > r.Patients {
		b.WriteString(fmt.Sprintf("- Patients: %d (of %d rows)\n", r.Patients, r.Rows))
	} else {
		b.WriteString(fmt.Sprintf("- Patients: %d\n", r.Patients))
	}
	b.WriteString(fmt.Sprintf("- Days: %d\n", r.Days))
	total := r.Patients * r.Days
	missPct := 0.0
	if total > 0 {
		missPct = float64(r.Missing) * 100.0 / float64(total)
	}
	b.WriteString(fmt.Sprintf("- Missing readings: %d (%.1f%%)\n", r.Missing, missPct))

	b.WriteString("\n## Daily statistics\n\n")
	b.WriteString("| Day | Mean | Max | Min | Std dev |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for j := 0; j < r.Days; j++ {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n", j+1,
			r.num(r.DailyMean[j]), r.num(r.DailyMax[j]), r.num(r.DailyMin[j]), r.num(r.DailyStdDev[j])))
	}

	if r.Overall.Count > 0 {
		o := r.Overall
		b.WriteString("\n## Overall\n\n")
		b.WriteString(fmt.Sprintf("- Readings: %d\n", o.Count))
		b.WriteString(fmt.Sprintf("- Min %s, max %s, mean %s\n", r.num(o.Min), r.num(o.Max), r.num(o.Mean)))
		b.WriteString(fmt.Sprintf("- Median %s, 90th percentile %s\n", r.num(o.Median), r.num(o.P90)))
	}

	if len(r.Samples) > 0 {
		days := r.Days
		if days > maxReportDays {
			days = maxReportDays
		}
		b.WriteString("\n## Sample patients\n\n")
		b.WriteString("| Patient |")
		for j := 0; j < days; j++ {
			b.WriteString(fmt.Sprintf(" Day %d |", j+1))
		}
		b.WriteString("\n| --- |")
		for j := 0; j < days; j++ {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for i, row := range r.Samples {
			b.WriteString(fmt.Sprintf("| %d |", i+1))
			for j := 0; j < days && j < len(row); j++ {
				b.WriteString(" ")
				b.WriteString(r.num(row[j]))
				b.WriteString(" |")
			}
			b.WriteString("\n")
		}
		if r.Days > days {
			b.WriteString(fmt.Sprintf("\n_%d more days not shown._\n", r.Days-days))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML renders the Markdown report as an HTML fragment.
func (r *Report) HTML() string {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	return string(markdown.ToHTML([]byte(r.Markdown()), p, nil))
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

// SetPrecision changes the number of decimals used by Markdown and HTML.
func (r *Report) SetPrecision(p int) { r.precision = p }

func (r *Report) num(v float64) string { return FormatReading(v, r.precision) }

// FormatReading formats a reading with prec decimals, or the shortest exact
// representation when prec is negative. Missing readings render as "n/a".
func FormatReading(v float64, prec int) string {
	if models.IsMissing(v) {
		return "n/a"
	}
	if prec < 0 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
