package keyward

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/detectors"
)

func init() {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts for keyward",
		Long: "Print a completion script for the given shell. Besides subcommands and flags, " +
			"it completes plugin names for --disable-plugin.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(out, true)
			case "zsh":
				return rootCmd.GenZshCompletion(out)
			case "fish":
				return rootCmd.GenFishCompletion(out, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
		Example: `  source <(keyward completion bash)
  keyward completion zsh > "${fpath[1]}/_keyward"
  keyward completion fish > ~/.config/fish/completions/keyward.fish`,
	}
	rootCmd.AddCommand(cmd)
}

// completePlugins offers plugin display names for --disable-plugin.
func completePlugins(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return detectors.Available(), cobra.ShellCompDirectiveNoFileComp
}
