package cmd

import "strconv"

// Exit codes for hitcheck CLI
const (
	// ExitSuccess indicates no assertion failed
	ExitSuccess = 0

	// ExitAssertionFailure indicates one or more assertions failed
	ExitAssertionFailure = 1

	// ExitLoadError indicates a snapshot or assertion file could not be loaded
	ExitLoadError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitStoreError indicates the history database could not be used
	ExitStoreError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code out of a command. err may be nil
// when the command already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return "exit status " + strconv.Itoa(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func exitWith(code int, err error) error {
	return &exitError{code: code, err: err}
}
