package cmd

import (
	"fmt"

	"github.com/KaramelBytes/inflammation/internal/models"
	"github.com/KaramelBytes/inflammation/internal/parser"
	"github.com/KaramelBytes/inflammation/internal/tableio"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	normOutputPath string
	normLoad       loadFlags
)

var normaliseCmd = &cobra.Command{
	Use:     "normalise <file>",
	Aliases: []string{"normalize"},
	Short:   "Scale each patient's readings by that patient's maximum",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt, err := normLoad.options(cmd)
		if err != nil {
			return err
		}
		// Full precision unless asked otherwise.
		prec := -1
		if cmd.Flags().Changed("precision") {
			prec = opt.Precision
		}
		ds, err := parser.LoadFile(path, opt)
		if err != nil {
			return err
		}
		if ds.Truncated() {
			patients, _ := ds.Table.Dims()
			logrus.Warnf("processed only %d/%d rows due to MaxRows", patients, ds.Rows)
		}
		norm, err := models.PatientNormalise(ds.Table)
		if err != nil {
			return err
		}
		if normOutputPath == "" {
			return tableio.WriteCSV(cmd.OutOrStdout(), norm, prec)
		}
		if err := tableio.EnsureParent(normOutputPath); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := tableio.WriteFile(normOutputPath, norm, prec); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote normalised table to %s\n", normOutputPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normaliseCmd)
	normaliseCmd.Flags().StringVarP(&normOutputPath, "output", "o", "", "output path; extension picks .csv, .tsv, .xlsx or .parquet (default CSV on stdout)")
	normLoad.register(normaliseCmd)
}
