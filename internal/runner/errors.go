package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCommandFailed is matched by every *ExitError.
var ErrCommandFailed = errors.New("command failed")

// ExitError reports a command that could not start or exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit code %d", e.Command, e.ExitCode)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func (e *ExitError) Is(target error) bool {
	return target == ErrCommandFailed
}
