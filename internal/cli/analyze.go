package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	stenerrors "github.com/fpicetti/stenfront/pkg/errors"
	"github.com/fpicetti/stenfront/pkg/pipeline"
)

// analyzeOpts holds the command-line flags for the analyze command.
type analyzeOpts struct {
	formats  string // comma-separated output formats
	output   string // output directory (print summary only if empty)
	detailed bool   // detailed node labels in dot/svg output
	noCache  bool   // disable the report cache
	refresh  bool   // bypass cached reports
	pick     bool   // interactively pick one model when several match
}

// analyzeCommand creates the analyze command.
//
// Arguments are model files or doublestar glob patterns, so a whole
// directory tree of models can be analyzed in one invocation:
//
//	stenfront analyze heat.toml
//	stenfront analyze "models/**/*.toml" -o out --format json,svg
func (c *CLI) analyzeCommand() *cobra.Command {
	opts := analyzeOpts{}

	cmd := &cobra.Command{
		Use:   "analyze <model-file-or-glob>...",
		Short: "Analyze stencil model files",
		Long: `Analyze stencil model files: derive the dimension ordering of every
equation, extract access stencils, and report the results.

Arguments may be file paths or doublestar glob patterns (quote them to
keep the shell from expanding):

Examples:
  stenfront analyze heat.toml
  stenfront analyze heat.toml wave.yaml
  stenfront analyze "models/**/*.{toml,yaml}" -o reports --format json,svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := expandModelArgs(args)
			if err != nil {
				return err
			}
			if opts.pick && len(paths) > 1 {
				path, err := pickModel(paths)
				if err != nil {
					return err
				}
				if path == "" {
					printDetail("No selection made")
					return nil
				}
				paths = []string{path}
			}
			return c.runAnalyze(cmd.Context(), paths, opts)
		},
	}

	cmd.Flags().StringVar(&opts.formats, "format", "json", "output formats, comma-separated (json, dot, svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory for artifacts (summary only if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include kind and parent in rendered node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached reports")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "interactively pick one model when several match")

	return cmd
}

// expandModelArgs resolves each argument to a sorted list of model files.
// Arguments containing glob metacharacters go through doublestar; plain
// paths are kept as-is so a missing file surfaces as a load error with the
// name the user typed.
func expandModelArgs(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return paths, nil
}

// runAnalyze analyzes every model and prints summaries and artifacts.
func (c *CLI) runAnalyze(ctx context.Context, paths []string, opts analyzeOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if opts.output != "" {
		if err := stenerrors.ValidateOutputPath(opts.output); err != nil {
			return err
		}
		if err := os.MkdirAll(opts.output, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	logger := loggerFromContext(ctx)
	for _, path := range paths {
		prog := newProgress(logger)

		spin := newSpinnerWithContext(ctx, fmt.Sprintf("Analyzing %s...", path))
		spin.Start()
		result, err := runner.Execute(ctx, pipeline.Options{
			Path:     path,
			Formats:  parseFormats(opts.formats),
			Detailed: opts.detailed,
			Refresh:  opts.refresh,
			Logger:   logger,
		})
		if err != nil {
			spin.StopWithError(fmt.Sprintf("%s: %s", path, stenerrors.UserMessage(err)))
			return err
		}
		spin.Stop()

		prog.done(fmt.Sprintf("Analyzed %d equations in %s", result.Stats.EquationCount, path))
		printSummary(result)

		if opts.output != "" {
			if err := writeArtifacts(result, opts.output); err != nil {
				return err
			}
		}
	}
	return nil
}

// printSummary prints the per-equation orderings and stencils.
func printSummary(result *pipeline.Result) {
	fmt.Println(StyleTitle.Render(result.Report.Model))
	printStats(result.Stats.EquationCount, result.Stats.DimensionCount, result.CacheHit)

	for _, eq := range result.Report.Equations {
		printInfo("%s", eq.Source)
		printKeyValue("ordering", strings.Join(eq.Ordering, " "))
		for _, dim := range eq.Dimensions {
			printDetail("%s: %s", dim, formatOffsets(eq.Stencil[dim]))
		}
	}
}

// formatOffsets renders a sorted offset list as "{-1, 0, 1}".
func formatOffsets(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = fmt.Sprintf("%d", o)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// writeArtifacts writes each rendered format next to the model stem in dir.
func writeArtifacts(result *pipeline.Result, dir string) error {
	stem := result.Report.Model
	for format, data := range result.Artifacts {
		name := stem + "." + format
		if format == pipeline.FormatJSON {
			name = stem + ".report.json"
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
