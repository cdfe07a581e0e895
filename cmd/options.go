package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/spf13/cobra"
)

// loadFlags are the table loading flags shared by every command that reads
// a readings file.
type loadFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	header     bool
	maxRows    int
	sampleRows int
	sheetName  string
	sheetIndex int
	precision  int
}

func (f *loadFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	fs.StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.BoolVar(&f.header, "header", false, "first record is a header row")
	fs.IntVar(&f.maxRows, "max-rows", 100000, "maximum patients to load (0 = unlimited)")
	fs.IntVar(&f.sampleRows, "sample-rows", 5, "number of sample patients to include in reports")
	fs.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	fs.IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	fs.IntVar(&f.precision, "precision", 2, "decimals used when rendering readings (-1 = shortest)")
}

// options merges built-in defaults, the loaded config and any flags the user
// set explicitly, in that order.
func (f *loadFlags) options(cmd *cobra.Command) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		if err := applyConfig(&opt); err != nil {
			return opt, err
		}
	}
	fs := cmd.Flags()
	var err error
	if fs.Changed("delimiter") {
		if opt.Delimiter, err = parseDelimiter(f.delimiter); err != nil {
			return opt, err
		}
	}
	if fs.Changed("decimal") {
		if opt.DecimalSeparator, err = parseDecimal(f.decimal); err != nil {
			return opt, err
		}
	}
	if fs.Changed("thousands") {
		if opt.ThousandsSeparator, err = parseThousands(f.thousands); err != nil {
			return opt, err
		}
	}
	if fs.Changed("header") {
		opt.HasHeader = f.header
	}
	if fs.Changed("max-rows") {
		if f.maxRows < 0 {
			return opt, fmt.Errorf("--max-rows must be >= 0")
		}
		opt.MaxRows = f.maxRows
	}
	if fs.Changed("sample-rows") {
		if f.sampleRows < 0 {
			return opt, fmt.Errorf("--sample-rows must be >= 0")
		}
		opt.SampleRows = f.sampleRows
	}
	if fs.Changed("sheet-name") {
		opt.Sheet = f.sheetName
	}
	if fs.Changed("sheet-index") {
		if f.sheetIndex < 1 {
			return opt, fmt.Errorf("--sheet-index must be >= 1")
		}
		opt.SheetIndex = f.sheetIndex
	}
	if fs.Changed("precision") {
		opt.Precision = f.precision
	}
	return opt, nil
}

func applyConfig(opt *analysis.Options) error {
	var err error
	if cfg.Delimiter != "" {
		if opt.Delimiter, err = parseDelimiter(cfg.Delimiter); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if cfg.DecimalSeparator != "" {
		if opt.DecimalSeparator, err = parseDecimal(cfg.DecimalSeparator); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if cfg.ThousandsSeparator != "" {
		if opt.ThousandsSeparator, err = parseThousands(cfg.ThousandsSeparator); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	opt.HasHeader = cfg.HasHeader
	if len(cfg.MissingTokens) > 0 {
		opt.MissingTokens = cfg.MissingTokens
	}
	if cfg.MaxRows >= 0 {
		opt.MaxRows = cfg.MaxRows
	}
	if cfg.SampleRows > 0 {
		opt.SampleRows = cfg.SampleRows
	}
	opt.Precision = cfg.Precision
	return nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case ",", "comma":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported delimiter: %s (use ','|';'|'tab'|'|')", s)
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	}
	return 0, fmt.Errorf("unsupported decimal separator: %s (use '.'|'comma')", s)
}

func parseThousands(s string) (rune, error) {
	switch strings.ToLower(s) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "space", " ":
		return ' ', nil
	}
	return 0, fmt.Errorf("unsupported thousands separator: %s (use ','|'.'|'space')", s)
}

// outputFormat resolves the report format from the flag or the config.
func outputFormat(cmd *cobra.Command, flag string) (string, error) {
	format := "markdown"
	if cfg != nil && cfg.OutputFormat != "" {
		format = cfg.OutputFormat
	}
	if cmd.Flags().Changed("format") {
		format = flag
	}
	switch strings.ToLower(format) {
	case "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	case "html":
		return "html", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown|json|html)", format)
}

// render returns the report in the given format plus the file extension
// used when it is saved.
func render(rep *analysis.Report, format string) (string, string, error) {
	switch format {
	case "json":
		b, err := rep.JSON()
		if err != nil {
			return "", "", err
		}
		return string(b) + "\n", ".json", nil
	case "html":
		return rep.HTML(), ".html", nil
	}
	return rep.Markdown(), ".md", nil
}
