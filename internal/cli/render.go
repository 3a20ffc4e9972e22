package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpicetti/stenfront/pkg/graph"
	"github.com/fpicetti/stenfront/pkg/pipeline"
	"github.com/fpicetti/stenfront/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format   string // output format (dot or svg)
	output   string // output file path (stdout if empty)
	detailed bool   // detailed node labels
}

// renderCommand creates the render command, which converts a saved report
// into a precedence graph visualization without re-running the analysis.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <report.json>",
		Short: "Render a saved report's precedence graph",
		Long: `Render the dimension precedence graph of a saved analysis report
as Graphviz DOT or SVG.

Examples:
  stenfront render heat.report.json --format dot
  stenfront render heat.report.json --format svg -o heat.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", pipeline.FormatDOT, "output format (dot or svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include kind and parent in node labels")

	return cmd
}

func (c *CLI) runRender(reportPath string, opts renderOpts) error {
	report, err := graph.ReadReportFile(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	dot := render.ToDOT(report.Precedence, render.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = render.SVG(dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	default:
		return fmt.Errorf("invalid format: %q (must be dot or svg)", opts.format)
	}

	if opts.output == "" {
		_, err = os.Stdout.Write(data)
		if err == nil && !strings.HasSuffix(string(data), "\n") {
			fmt.Println()
		}
		return err
	}

	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %s graph for %s", opts.format, report.Model)
	printFile(opts.output)
	return nil
}
