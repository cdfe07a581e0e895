package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addStudyName string
	addDesc      string
	addLoad      loadFlags
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a readings file with a study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		s, err := loadStudy(addStudyName)
		if err != nil {
			return err
		}
		opt, err := addLoad.options(cmd)
		if err != nil {
			return err
		}
		d, err := s.AddDataset(file, addDesc, opt)
		if err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset added: %s (%d patients x %d days)\n", d.Name, d.Patients, d.Days)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addStudyName, "study", "s", "", "study name (default: study in the working directory)")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "dataset description")
	addLoad.register(addCmd)
}
