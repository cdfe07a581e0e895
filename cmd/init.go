package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/inflammation/internal/study"
	"github.com/KaramelBytes/inflammation/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <study-name>",
	Short: "Initialize a new study",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
			return fmt.Errorf("invalid study name: %s", name)
		}
		root, err := defaultStudiesDir()
		if err != nil {
			return err
		}
		studyDir := filepath.Join(root, name)
		// Refuse to overwrite an existing study.
		if info, err := os.Stat(studyDir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(studyDir, utils.StudyFileName)); err == nil {
				return fmt.Errorf("study already exists at %s", studyDir)
			}
			entries, err := os.ReadDir(studyDir)
			if err != nil {
				return fmt.Errorf("inspect study directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize study", studyDir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat study directory: %w", err)
		}
		s := study.New(name, initDescription, studyDir)
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Study initialized: %s\n", studyDir)
		return nil
	},
}

func defaultStudiesDir() (string, error) {
	var dir string
	if cfg != nil && cfg.StudiesDir != "" {
		dir = cfg.StudiesDir
		if strings.HasPrefix(dir, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			dir = strings.TrimPrefix(dir, "~")
			dir = strings.TrimPrefix(dir, string(os.PathSeparator))
			dir = strings.TrimPrefix(dir, "/")
			dir = filepath.Join(home, dir)
		}
		dir = filepath.Clean(dir)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".inflammation", "studies")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// resolveStudyDir maps a study name to its directory. With no name it looks
// for a study.json in the working directory or one of its parents.
func resolveStudyDir(name string) (string, error) {
	if name == "" {
		dir, err := utils.FindStudyRoot("")
		if err != nil {
			return "", errors.New("study name is required (no study.json found from the working directory)")
		}
		return dir, nil
	}
	root, err := defaultStudiesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func loadStudy(name string) (*study.Study, error) {
	dir, err := resolveStudyDir(name)
	if err != nil {
		return nil, err
	}
	return study.Load(dir)
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "study description")
}
