package main

import "errors"

const (
	ExitCodeSuccess      = 0
	ExitCodeGeneralError = 1
	ExitCodeConfigError  = 2
	// ExitCodeStorageError covers an unreachable database and schema failures.
	ExitCodeStorageError = 3
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e == nil || e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

func exitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	var coded *exitError
	if errors.As(err, &coded) {
		return coded.code
	}
	return ExitCodeGeneralError
}
