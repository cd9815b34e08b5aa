package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/core/loader"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List the assertions in batch files",
	Long: `List the assertions defined in assertion batch files.

Examples:
  hitcheck list assertions.yaml
  hitcheck list ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return exitWith(ExitUsageError, fmt.Errorf("no .json, .yaml or .yml files found"))
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		configs, err := loader.LoadAssertions(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(out, "\n%s:\n", file)
		for i := range configs {
			c := &configs[i]
			line := fmt.Sprintf("  - %s", c.Label())
			if !c.IsEnabled() {
				line += " (disabled)"
			}
			fmt.Fprintln(out, line)

			var details []string
			if c.Condition != "" {
				details = append(details, fmt.Sprintf("when: %s", c.Condition))
			}
			if c.Extraction != nil {
				details = append(details, fmt.Sprintf("expected from: %s %s", c.Extraction.Method, c.Extraction.Expression))
				if c.Extraction.Variable != "" {
					details = append(details, fmt.Sprintf("defines: ${%s}", c.Extraction.Variable))
				}
			}
			if len(details) > 0 {
				fmt.Fprintf(out, "    %s\n", strings.Join(details, " | "))
			}
		}
	}

	return nil
}
