package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/inflammation/internal/analysis"
	"github.com/KaramelBytes/inflammation/internal/parser"
	"github.com/KaramelBytes/inflammation/internal/study"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abStudy           string
	abFormat          string
	abJobs            int
	abSampleRowsStudy int
	abQuiet           bool
	abLoad            loadFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple readings files concurrently with optional study attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, err := abLoad.options(cmd)
		if err != nil {
			return err
		}
		format, err := outputFormat(cmd, abFormat)
		if err != nil {
			return err
		}

		var s *study.Study
		if abStudy != "" {
			if s, err = loadStudy(abStudy); err != nil {
				return err
			}
			if abSampleRowsStudy >= 0 {
				opt.SampleRows = abSampleRowsStudy
			}
		}

		jobs := abJobs
		if !cmd.Flags().Changed("jobs") && cfg != nil && cfg.BatchJobs > 0 {
			jobs = cfg.BatchJobs
		}
		if jobs < 1 {
			jobs = 1
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		reports, err := analyzeAll(ctx, files, opt, jobs)
		if err != nil {
			return err
		}

		bodies := make([]string, len(reports))
		var ext string
		for i, rep := range reports {
			if bodies[i], ext, err = render(rep, format); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		total := len(files)
		if s == nil {
			for i, path := range files {
				if !abQuiet {
					fmt.Fprintf(out, "[%d/%d] %s\n", i+1, total, filepath.Base(path))
					fmt.Fprintln(out, bodies[i])
				}
			}
			return nil
		}
		written, err := attachAll(s, files, bodies, ext)
		if err != nil {
			return err
		}
		if !abQuiet {
			for i, path := range files {
				fmt.Fprintf(out, "[%d/%d] %s\n", i+1, total, filepath.Base(path))
				fmt.Fprintf(out, "✓ Added analysis to study '%s' as %s\n", s.Name, filepath.Base(written[i]))
			}
		}
		return nil
	},
}

// attachAll writes every summary and saves the study. On failure the
// summaries written so far are removed and study.json is left untouched.
func attachAll(s *study.Study, files, bodies []string, ext string) ([]string, error) {
	written := make([]string, 0, len(files))
	rollback := func() {
		for _, w := range written {
			if err := os.Remove(w); err != nil {
				logrus.Warnf("remove %s: %v", w, err)
			}
		}
	}
	for i, path := range files {
		outFile, err := s.AttachSummary(path, bodies[i], ext)
		if err != nil {
			rollback()
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		written = append(written, outFile)
	}
	if err := s.Save(); err != nil {
		rollback()
		return nil, err
	}
	return written, nil
}

// analyzeAll runs the analyses with at most jobs in flight. Reports come back
// in the order of files; the first failure cancels the remaining work.
func analyzeAll(ctx context.Context, files []string, opt analysis.Options, jobs int) ([]*analysis.Report, error) {
	reports := make([]*analysis.Report, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			logrus.WithField("file", path).Debug("analyzing")
			rep, err := parser.AnalyzeFile(path, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			for _, w := range rep.Warnings {
				logrus.WithField("file", filepath.Base(path)).Info(w)
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// expandInputs resolves globs and literal paths, dropping duplicates.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abStudy, "study", "s", "", "study name to attach summaries to")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "markdown", "report format: markdown|json|html")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 4, "number of files analyzed concurrently")
	analyzeBatchCmd.Flags().IntVar(&abSampleRowsStudy, "sample-rows-study", -1, "when attaching (-s), override sample rows for summaries (0 disables samples)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abLoad.register(analyzeBatchCmd)
}
