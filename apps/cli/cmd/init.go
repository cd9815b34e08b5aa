package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitcheck/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hitcheck project",
	Long: `Initialize a new hitcheck project in the current directory.

This creates:
  - .hitcheck.yaml    - Configuration file
  - snapshot.json     - Example captured exchange
  - assertions.yaml   - Example assertion batch

Examples:
  hitcheck init
  hitcheck init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleSnapshot = `{
  "status": 201,
  "duration": 84,
  "responseHeader": {
    "Content-Type": "application/json; charset=utf-8",
    "Location": "/users/42"
  },
  "responseBody": {
    "data": {"id": 42, "name": "Ada", "roles": ["admin", "dev"]},
    "size": 51
  },
  "requestHeader": {"Content-Type": "application/json"},
  "requestQuery": {"notify": "true"}
}
`

const exampleAssertions = `assertions:
  - name: user created
    type: STATUS
    assertionCondition: EQUAL
    expected: 201

  - name: fast enough
    type: DURATION
    assertionCondition: LESS_THAN
    expected: 500

  - name: json response
    type: HEADER
    parameterName: Content-Type
    assertionCondition: CONTAIN
    expected: application/json

  - name: user id
    type: BODY
    assertionCondition: JSON_PATH_MATCH
    expression: $.id
    extraction:
      method: REGEX
      source: HEADER
      header: Location
      expression: '/users/(\d+)'
      matchItem: 0
      variable: userId

  - name: admin role
    type: BODY
    assertionCondition: CONTAIN
    expected: admin
    condition: '${userId} == 42'

  - name: notification sent
    type: HEADER
    parameterName: X-Notification-Id
    assertionCondition: NOT_EMPTY
    condition: '${request.query.notify} == false'
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".hitcheck.yaml")
	snapshotFile := filepath.Join(cwd, "snapshot.json")
	assertionsFile := filepath.Join(cwd, "assertions.yaml")

	if !forceInit {
		for _, f := range []string{configFile, snapshotFile, assertionsFile} {
			if _, err := os.Stat(f); err == nil {
				return exitWith(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.Store = defaultStorePath
	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	for path, content := range map[string]string{snapshotFile: exampleSnapshot, assertionsFile: exampleAssertions} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitcheck project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'hitcheck eval -s snapshot.json -a assertions.yaml' to evaluate the example.\n")

	return nil
}
