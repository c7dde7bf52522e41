package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/billmal071/booksearch/internal/db"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for booksearch.

To load completions:

Bash:
  $ source <(booksearch completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ booksearch completion bash > /etc/bash_completion.d/booksearch
  # macOS:
  $ booksearch completion bash > /usr/local/etc/bash_completion.d/booksearch

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it.  You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ booksearch completion zsh > "${fpath[1]}/_booksearch"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ booksearch completion fish | source

  # To load completions for each session, execute once:
  $ booksearch completion fish > ~/.config/fish/completions/booksearch.fish

PowerShell:
  PS> booksearch completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> booksearch completion powershell > booksearch.ps1
  # and source this file from your PowerShell profile.`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

// completeHistoryQueries offers past queries when history is enabled
func completeHistoryQueries(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if !db.IsOpen() {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	history, err := db.GetUniqueSearchHistory(50)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var completions []string
	for _, h := range history {
		if !strings.HasPrefix(h.Query, toComplete) {
			continue
		}
		// Format: "query\tN results"
		completions = append(completions, fmt.Sprintf("%s\t%d results", h.Query, h.ResultCount))
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}
