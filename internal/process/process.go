// Package process wraps external tool invocations. A Spec describes one
// invocation; running it yields the combined output and exit status. The
// Runner interface exists so the grading engine can be exercised against a
// stub toolchain in tests.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// StdinMode selects how the child process's stdin is wired.
type StdinMode int

const (
	// StdinNull leaves stdin disconnected.
	StdinNull StdinMode = iota
	// StdinInherit passes the parent's stdin through.
	StdinInherit
	// StdinBytes feeds the Spec's Input bytes and then closes stdin.
	StdinBytes
)

// Spec describes a single external invocation.
type Spec struct {
	Program string
	Args    []string
	// Dir is the working directory; empty means the current directory.
	Dir   string
	Stdin StdinMode
	// Input is consumed only when Stdin is StdinBytes.
	Input []byte
}

// Collected is the outcome of a completed invocation: the interleaved
// stdout/stderr stream and the exit code.
type Collected struct {
	ExitCode int
	Output   string
}

// Success reports whether the process exited zero.
func (c Collected) Success() bool {
	return c.ExitCode == 0
}

// Runner executes a Spec to completion. A non-zero exit is not an error;
// errors are reserved for spawn and I/O failures, which callers treat as
// fatal. Invocations carry no timeout: a hung tool hangs the caller.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Collected, error)
}

// ExecRunner is the os/exec backed Runner used outside of tests.
type ExecRunner struct{}

// NewExecRunner constructs an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run spawns the program, waits for it to finish, and collects its output.
func (r *ExecRunner) Run(ctx context.Context, spec Spec) (Collected, error) {
	cmd := exec.CommandContext(ctx, spec.Program, spec.Args...)
	cmd.Dir = spec.Dir

	var combined bytes.Buffer

	cmd.Stdout = &combined
	cmd.Stderr = &combined

	switch spec.Stdin {
	case StdinInherit:
		cmd.Stdin = os.Stdin
	case StdinBytes:
		cmd.Stdin = bytes.NewReader(spec.Input)
	case StdinNull:
		// exec leaves stdin connected to the null device by default.
	}

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Collected{ExitCode: exitErr.ExitCode(), Output: combined.String()}, nil
		}

		return Collected{}, fmt.Errorf("failed to run %s: %w", spec.Program, err)
	}

	return Collected{ExitCode: 0, Output: combined.String()}, nil
}
