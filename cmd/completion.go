package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate a completion script for your shell.

Bash:
  source <(breathe completion bash)

  Persist it by writing the script to the completion directory:
    breathe completion bash > /etc/bash_completion.d/breathe        # Linux
    breathe completion bash > $(brew --prefix)/etc/bash_completion.d/breathe  # macOS

Zsh:
  Enable completion once if you have not already:
    echo "autoload -U compinit; compinit" >> ~/.zshrc
  Then install the script:
    breathe completion zsh > "${fpath[1]}/_breathe"
  Open a new shell afterwards.

Fish:
  breathe completion fish | source

  Persist with:
    breathe completion fish > ~/.config/fish/completions/breathe.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
