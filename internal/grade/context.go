// Package grade implements the six graders that turn a discovered project
// plus a configuration into a scored, explained GradeResult. Grader
// configurations are immutable value objects; Run consumes them exactly once
// and never mutates them.
package grade

import (
	"context"
	"io"
	"os"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

// Context carries the per-run grading state every grader consumes: the
// project under grade, the process runner for external tools, and the
// feedback toggle. It replaces ambient process-wide state so concurrent
// grading runs cannot observe each other.
type Context struct {
	Project *java.Project
	Runner  process.Runner
	// WithFeedback enables feedback-context assembly on imperfect scores.
	WithFeedback bool
	// Out receives human-readable grading tables; defaults to stderr.
	Out io.Writer
}

// NewContext builds a grading context over a discovered project.
func NewContext(project *java.Project, runner process.Runner) *Context {
	return &Context{
		Project: project,
		Runner:  runner,
	}
}

func (c *Context) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}

	return os.Stderr
}

// Grader is one scored requirement. Run spawns whatever external tools the
// requirement needs and always resolves student-code failure to a scored
// result; only infrastructure failures surface as errors.
type Grader interface {
	Run(ctx context.Context, gc *Context) (m.GradeResult, error)
}
