package java

import (
	"fmt"

	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// FailKind classifies how a source-file operation failed.
type FailKind int

const (
	// FailUnknown covers infrastructure failures: the tool could not be
	// spawned or its output could not be read. Always fatal to the caller.
	FailUnknown FailKind = iota
	// DuringCompilation means javac rejected the file.
	DuringCompilation
	// AtRuntime means the main class exited with an error.
	AtRuntime
	// FailedTests means the test runner reported failures.
	FailedTests
)

func (k FailKind) String() string {
	switch k {
	case DuringCompilation:
		return "during compilation"
	case AtRuntime:
		return "at runtime"
	case FailedTests:
		return "failed tests"
	default:
		return "unknown"
	}
}

// OpError is the failure of one compile, run, or test operation on a source
// file. It carries the tool's output alongside whatever diagnostics could be
// parsed out of it; graders branch on Kind to turn it into a scored result.
type OpError struct {
	Kind FailKind
	// Output is the tool transcript: raw for compilation and runtime
	// failures, filtered for test failures.
	Output string
	// CompilerDiags are parsed javac diagnostic lines, set for
	// DuringCompilation.
	CompilerDiags []m.CompilerDiagnostic
	// Refs are parsed stack-frame references, set for AtRuntime and
	// FailedTests.
	Refs []m.LineRef
	// Err is the underlying cause, set for FailUnknown.
	Err error
}

func (e *OpError) Error() string {
	switch e.Kind {
	case DuringCompilation:
		return "something went wrong while compiling the Java file"
	case AtRuntime:
		return "something went wrong while running the Java file"
	case FailedTests:
		return "something went wrong while testing the Java file"
	default:
		if e.Err != nil {
			return fmt.Sprintf("java operation failed: %v", e.Err)
		}

		return "java operation failed"
	}
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func unknownErr(err error) *OpError {
	return &OpError{Kind: FailUnknown, Err: err}
}
