// Package execx runs external commands with captured output.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result holds the output and exit status of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ErrNotFound reports that the program is not installed.
var ErrNotFound = exec.ErrNotFound

// Run executes program with args and captures stdout and stderr.
// A non-zero exit still returns the captured Result alongside the error.
func Run(ctx context.Context, program string, args ...string) (*Result, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}

	if err != nil {
		return result, fmt.Errorf("%s: %w", program, err)
	}
	return result, nil
}
