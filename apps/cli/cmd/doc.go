// Package cmd implements the hitcheck CLI commands using Cobra.
//
// Available commands:
//   - eval: Evaluate an assertion batch against a snapshot
//   - validate: Check assertion and snapshot files without evaluating
//   - list: Display the assertions defined in files
//   - bench: Measure evaluation latency
//   - history: Browse runs recorded with --store
//   - init: Create example config, snapshot and assertion files
//   - version: Show hitcheck version information
//
// Flags fall back to HITCHECK_* environment variables, then to the config
// file, then to built-in defaults.
package cmd
