package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/inflammation/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	verbose bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "inflammation",
	Short: "Inflammation CLI: daily statistics for patient inflammation readings",
	Long: `Inflammation loads tables of daily inflammation readings (one patient per row,
one day per column) from CSV, TSV, XLSX or Parquet files, reports the daily
mean, maximum, minimum and standard deviation, and writes per-patient
normalised tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.inflammation/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable info logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
	} else {
		cfg = c
	}
	configureLogging()
}

func configureLogging() {
	logrus.SetOutput(os.Stderr)
	switch {
	case debug:
		logrus.SetLevel(logrus.DebugLevel)
	case verbose:
		logrus.SetLevel(logrus.InfoLevel)
	case cfg != nil && cfg.LogLevel != "":
		lvl, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logrus.Warnf("invalid log_level %q, using warn", cfg.LogLevel)
			lvl = logrus.WarnLevel
		}
		logrus.SetLevel(lvl)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}
