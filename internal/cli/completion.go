package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gdcross.

To load completions:

Bash:
  $ source <(gdcross completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ gdcross completion bash > /etc/bash_completion.d/gdcross
  # macOS:
  $ gdcross completion bash > $(brew --prefix)/etc/bash_completion.d/gdcross

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ gdcross completion zsh > "${fpath[1]}/_gdcross"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ gdcross completion fish | source

  # To load completions for each session, execute once:
  $ gdcross completion fish > ~/.config/fish/completions/gdcross.fish

PowerShell:
  PS> gdcross completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> gdcross completion powershell > gdcross.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// drawingFiles completes arguments with drawing files.
func drawingFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json", "geojson"}, cobra.ShellCompDirectiveFilterFileExt
}
