package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/inflammation/internal/parser"
	"github.com/KaramelBytes/inflammation/internal/tableio"
	"github.com/KaramelBytes/inflammation/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	anaStudy      string
	anaOutputPath string
	anaFormat     string
	anaLoad       loadFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Report daily statistics for a readings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := anaLoad.options(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd, anaFormat)
		if err != nil {
			return err
		}
		logrus.WithField("file", path).Debug("analyzing")
		rep, err := parser.AnalyzeFile(path, opt)
		if err != nil {
			return err
		}
		for _, w := range rep.Warnings {
			logrus.WithField("file", filepath.Base(path)).Info(w)
		}
		out, ext, err := render(rep, format)
		if err != nil {
			return err
		}

		// Decide where to write: --output path, or attach to study, or stdout
		written := false
		if anaOutputPath != "" {
			if err := tableio.EnsureParent(anaOutputPath); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := utils.SafeWriteFile(anaOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if anaStudy != "" {
			s, err := loadStudy(anaStudy)
			if err != nil {
				return err
			}
			outFile, err := s.AttachSummary(path, out, ext)
			if err != nil {
				return err
			}
			if err := s.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added analysis to study '%s' as %s\n", s.Name, filepath.Base(outFile))
			written = true
		}
		if !written {
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaStudy, "study", "s", "", "study name to attach the summary to")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "report format: markdown|json|html")
	anaLoad.register(analyzeCmd)
}
