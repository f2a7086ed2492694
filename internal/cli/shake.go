package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/io"
	"github.com/matzehuels/graphshake/pkg/treeshake"
)

// shakeOpts holds the command-line flags for the shake command.
type shakeOpts struct {
	config     string        // config file path (default: nearest graphshake.toml)
	output     string        // output graph path, "-" for stdout
	env        string        // loader environment override
	sourceMaps bool          // store source maps for emitted code
	noCache    bool          // disable the transpile cache
	noPrime    bool          // skip transpiling reachable modules before bundling
	timeout    time.Duration // overall run timeout (0 = none)
}

// shakeCommand creates the shake command.
func (c *CLI) shakeCommand() *cobra.Command {
	var opts shakeOpts

	cmd := &cobra.Command{
		Use:   "shake <graph.json>",
		Short: "Tree-shake a module graph and write emitted code back into it",
		Long: `Tree-shake a resolved module graph.

Every ES module reachable from the graph's first entry point is transpiled
and bundled on its own, with imports of other modules kept as imports of
their canonical ids. Non-ES modules are replaced by shims exporting the
names their importers use. The emitted code and surviving imports of each
ES module are written to the output graph.`,
		Example: `  graphshake shake graph.json
  graphshake shake graph.json -o shaken.json --env production --source-maps`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShake(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file (default: nearest "+appName+".toml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output graph file, - for stdout (default: <input>.shaken.json)")
	cmd.Flags().StringVar(&opts.env, "env", "", "loader environment selecting transform overrides")
	cmd.Flags().BoolVar(&opts.sourceMaps, "source-maps", false, "store a source map for every emitted module")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the transpile cache")
	cmd.Flags().BoolVar(&opts.noPrime, "no-prime", false, "shim with only the importers bundled so far")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort the run after this duration (e.g. 30s)")

	return cmd
}

func (c *CLI) runShake(ctx context.Context, path string, opts shakeOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.config, path)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	g, err := io.ImportJSON(path)
	if err != nil {
		return err
	}
	prog.done("Loaded %d modules", g.Len())

	cfg.Apply(g)
	if opts.env != "" {
		g.Loader.Env = opts.env
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	shaker, closeCache, err := c.newShaker(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer closeCache()

	sp := startSpinner(ctx, os.Stderr, fmt.Sprintf("Shaking %d modules...", g.Len()))
	res, err := shaker.Run(ctx, g, treeshake.Options{
		SourceMaps: opts.sourceMaps || cfg.Engine.SourceMaps,
		NoPrime:    opts.noPrime || cfg.Engine.NoPrime,
	})
	sp.stop()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.Wrap(errors.ErrCodeTimeout, err, "shake %s: timed out after %s", path, opts.timeout)
		}
		return err
	}

	logStages(logger, res.Stats)

	out := opts.output
	if out == "" {
		out = defaultOutputPath(path)
	}
	if out == "-" {
		return io.WriteJSON(g, os.Stdout)
	}
	if err := io.ExportJSON(g, out); err != nil {
		return err
	}

	printSuccess("Tree-shook %s", StyleHighlight.Render(res.Entry))
	printStats(
		fmt.Sprintf("%d modules", res.Stats.Nodes),
		fmt.Sprintf("%d chunks", res.Stats.Chunks),
		fmt.Sprintf("%d merged", res.Stats.Merged),
		res.Stats.TotalTime.Round(time.Millisecond).String(),
	)
	printDiagnostics(res.Diagnostics)
	printFile(out)
	printNextStep("Inspect the result", appName+" browse "+out)
	return nil
}

// defaultOutputPath derives "<name>.shaken.json" from the input path.
func defaultOutputPath(path string) string {
	return strings.TrimSuffix(path, ".json") + ".shaken.json"
}
