package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/core/loader"
	"github.com/spf13/cobra"
)

var validateSnapshotFlags []string

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Validate assertion files without evaluating them",
	Long: `Validate assertion batch files against the batch schema and check each
assertion for problems the engine would report at evaluation time.

Examples:
  hitcheck validate assertions.yaml
  hitcheck validate ./checks/
  hitcheck validate assertions.json --snapshot snapshot.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateSnapshotFlags, "snapshot", nil, "Snapshot files to validate as well")
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 && len(validateSnapshotFlags) == 0 {
		return exitWith(ExitUsageError, fmt.Errorf("no .json, .yaml or .yml files found"))
	}

	hasErrors := false
	for _, file := range validateSnapshotFlags {
		if _, err := loader.LoadSnapshot(file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %v\n", err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
	}

	for _, file := range files {
		if err := validateAssertionFile(file); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
	}

	if hasErrors {
		return exitWith(ExitLoadError, fmt.Errorf("validation failed"))
	}

	return nil
}

func validateAssertionFile(path string) error {
	configs, err := loader.LoadAssertions(path)
	if err != nil {
		return err
	}
	return assertions.Validate(configs)
}
