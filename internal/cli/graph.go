package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/io"
	"github.com/matzehuels/graphshake/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format   string // "dot" or "svg"
	output   string // output path (default: stdout)
	detailed bool   // include format and size details in labels
}

// graphCommand creates the graph command for rendering module graphs.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph <graph.json>",
		Short: "Render a module graph as Graphviz DOT or SVG",
		Example: `  graphshake graph graph.json | dot -Tpng > graph.png
  graphshake graph shaken.json -f svg -o graph.svg --detailed`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show format, dependants and emitted size per module")
	_ = cmd.RegisterFlagCompletionFunc("format", completeGraphFormat)

	return cmd
}

func runGraph(ctx context.Context, path string, opts graphOpts) error {
	if opts.format != formatDOT && opts.format != formatSVG {
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be dot or svg)", opts.format)
	}

	g, err := io.ImportJSON(path)
	if err != nil {
		return err
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})

	data := []byte(dot)
	if opts.format == formatSVG {
		sp := startSpinner(ctx, os.Stderr, "Rendering SVG...")
		data, err = nodelink.RenderSVG(ctx, dot)
		sp.stop()
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Rendered %d modules", g.Len())
	printFile(opts.output)
	return nil
}
