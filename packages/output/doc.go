// Package output provides formatters for evaluation reports.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//   - HTML: Standalone HTML report
//
// Each formatter implements the Formatter interface and can optionally
// implement Flushable for formats that accumulate reports before output.
package output
