package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for graphshake.

Completions cover the shake, graph, browse and cache commands. Graph file
arguments complete to *.json files, and graph --format completes to dot
or svg.

Bash:
  $ source <(graphshake completion bash)

  # Load for every session:
  $ graphshake completion bash > /etc/bash_completion.d/graphshake

Zsh:
  # Requires compinit; run once if completion is not yet enabled:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ graphshake completion zsh > "${fpath[1]}/_graphshake"

Fish:
  $ graphshake completion fish > ~/.config/fish/completions/graphshake.fish

PowerShell:
  PS> graphshake completion powershell | Out-String | Invoke-Expression`,
		Example: `  graphshake completion zsh > "${fpath[1]}/_graphshake"
  graphshake shake <TAB>          # lists *.json graph files
  graphshake graph in.json -f <TAB>`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeGraphFile completes the single graph file argument of shake,
// graph and browse.
func completeGraphFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeGraphFormat completes graph --format.
func completeGraphFormat(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{
		formatDOT + "\tGraphviz source",
		formatSVG + "\trendered image",
	}, cobra.ShellCompDirectiveNoFileComp
}
