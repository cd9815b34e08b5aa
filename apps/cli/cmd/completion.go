package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

var completionNoDescFlag bool

type completionWriter func(root *cobra.Command, w io.Writer, descriptions bool) error

var completionWriters = map[string]completionWriter{
	"bash": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenBashCompletionV2(w, descriptions)
	},
	"zsh": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenZshCompletion(w)
		}
		return root.GenZshCompletionNoDesc(w)
	},
	"fish": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		return root.GenFishCompletion(w, descriptions)
	},
	"powershell": func(root *cobra.Command, w io.Writer, descriptions bool) error {
		if descriptions {
			return root.GenPowerShellCompletionWithDesc(w)
		}
		return root.GenPowerShellCompletion(w)
	},
}

func completionShells() []string {
	shells := make([]string, 0, len(completionWriters))
	for shell := range completionWriters {
		shells = append(shells, shell)
	}
	sort.Strings(shells)
	return shells
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for bash, zsh, fish or powershell.

Completions cover subcommands, flags and shell names. Assertion file
arguments fall back to the shell's own file completion, for example:

  source <(hitcheck completion bash)
  hitcheck completion fish > ~/.config/fish/completions/hitcheck.fish`,
	ValidArgs: completionShells(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout(), !completionNoDescFlag)
	},
}

func init() {
	completionCmd.Flags().BoolVar(&completionNoDescFlag, "no-descriptions", false, "Omit command and flag descriptions from the script")
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer, descriptions bool) error {
	gen, ok := completionWriters[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q (want one of %v)", shell, completionShells())
	}
	return gen(root, w, descriptions)
}
