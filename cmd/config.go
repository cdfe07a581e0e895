package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/inflammation/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		fmt.Fprintf(out, "decimal_separator: %q\n", cfg.DecimalSeparator)
		fmt.Fprintf(out, "thousands_separator: %q\n", cfg.ThousandsSeparator)
		fmt.Fprintf(out, "has_header: %t\n", cfg.HasHeader)
		fmt.Fprintf(out, "missing_tokens: %s\n", strings.Join(quoteAll(cfg.MissingTokens), ", "))
		fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		fmt.Fprintf(out, "sample_rows: %d\n", cfg.SampleRows)
		fmt.Fprintf(out, "precision: %d\n", cfg.Precision)
		fmt.Fprintf(out, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "batch_jobs: %d\n", cfg.BatchJobs)
		fmt.Fprintf(out, "studies_dir: %s\n", cfg.StudiesDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "delimiter":
		if _, err := parseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "decimal_separator":
		if _, err := parseDecimal(val); err != nil {
			return err
		}
		c.DecimalSeparator = val
	case "thousands_separator":
		if _, err := parseThousands(val); err != nil {
			return err
		}
		c.ThousandsSeparator = val
	case "has_header":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for has_header: %w", err)
		}
		c.HasHeader = b
	case "missing_tokens":
		toks := strings.Split(val, ",")
		for i := range toks {
			toks[i] = strings.TrimSpace(toks[i])
		}
		c.MissingTokens = toks
	case "max_rows", "sample_rows", "precision", "batch_jobs":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %w", key, err)
		}
		switch key {
		case "max_rows":
			if i < 0 {
				return fmt.Errorf("max_rows must be >= 0")
			}
			c.MaxRows = i
		case "sample_rows":
			if i < 0 {
				return fmt.Errorf("sample_rows must be >= 0")
			}
			c.SampleRows = i
		case "precision":
			c.Precision = i
		case "batch_jobs":
			if i < 1 {
				return fmt.Errorf("batch_jobs must be >= 1")
			}
			c.BatchJobs = i
		}
	case "output_format":
		switch strings.ToLower(val) {
		case "markdown", "md", "json", "html":
			c.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output_format: %s (use markdown, json or html)", val)
		}
	case "log_level":
		if _, err := logrus.ParseLevel(val); err != nil {
			return fmt.Errorf("invalid log_level: %w", err)
		}
		c.LogLevel = val
	case "studies_dir":
		c.StudiesDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strconv.Quote(s)
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
