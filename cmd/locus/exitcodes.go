// Copyright 2026 The Locus Authors
// SPDX-License-Identifier: MIT

package main

import "fmt"

// Exit codes for the locus CLI.
const (
	ExitOK               = 0 // Detection or validation succeeded.
	ExitInvalidArgs      = 1 // Invalid arguments or bad root path.
	ExitDegradedOrFailed = 2 // Degraded detection (--fail-degraded) or failed validation.
	ExitInternal         = 3 // Internal failure, no usable output.
)

// exitCodeError carries a non-zero exit code through cobra's error handling.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string { return e.msg }

// ExitCode returns the exit code for this error.
func (e *exitCodeError) ExitCode() int { return e.code }

// exitError creates an exitCodeError. If msg is empty, the error message is
// set to a generic description of the exit code.
func exitError(code int, format string, args ...any) *exitCodeError {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		switch code {
		case ExitDegradedOrFailed:
			msg = "locus: result is degraded or invalid"
		case ExitInternal:
			msg = "locus: internal failure"
		default:
			msg = "locus: error"
		}
	}
	return &exitCodeError{code: code, msg: msg}
}
