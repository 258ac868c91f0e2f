package main

import "fmt"

// Exit codes for the drover CLI.
const (
	ExitOK          = 0 // Command succeeded.
	ExitFailure     = 1 // Invalid arguments or unexpected error.
	ExitRunFailure  = 2 // Prompt execution or health check failed.
	ExitConfigError = 3 // No usable provider configuration.
)

// exitCodeError carries a specific process exit code up to main.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. An empty format produces a silent
// exit: the code is set but nothing extra is printed.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &exitCodeError{code: code, msg: msg}
}
