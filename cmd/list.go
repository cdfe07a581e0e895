package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/inflammation/internal/utils"
	"github.com/spf13/cobra"
)

var (
	listStudies   bool
	listDatasets  bool
	listStudyName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies or the datasets of a study",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listStudies == listDatasets { // either both true or both false
			return fmt.Errorf("specify exactly one of --studies or --datasets")
		}
		out := cmd.OutOrStdout()
		if listStudies {
			return listAllStudies(out)
		}
		s, err := loadStudy(listStudyName)
		if err != nil {
			return err
		}
		if len(s.Datasets) == 0 {
			fmt.Fprintln(out, "(no datasets)")
			return nil
		}
		for _, d := range s.SortedDatasets() {
			fmt.Fprintf(out, "- %s: %s, %d patients x %d days", d.ID, d.Name, d.Patients, d.Days)
			if d.Missing > 0 {
				fmt.Fprintf(out, ", %d missing", d.Missing)
			}
			if d.Description != "" {
				fmt.Fprintf(out, " (%s)", d.Description)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func listAllStudies(out io.Writer) error {
	root, err := defaultStudiesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), utils.StudyFileName)); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no studies)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listStudies, "studies", false, "list studies")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a study")
	listCmd.Flags().StringVarP(&listStudyName, "study", "s", "", "study name for --datasets")
}
