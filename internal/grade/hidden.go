package grade

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// hiddenMu serializes hidden-test runs in-process so no concurrent grader
// can observe the downloaded test file.
var hiddenMu sync.Mutex

// HiddenTestGrader downloads one instructor-provided test source into the
// project root, grades it with a throwaway unit-test grader over a fresh
// discovery, and deletes the file again on every exit path.
type HiddenTestGrader struct {
	Requirement string
	OutOf       float64
	// URL serves the test source over plain HTTP GET.
	URL string
	// TestClassName is the hidden test's class name; the file lands at
	// <root>/<TestClassName>.java.
	TestClassName string
}

// Run performs the download-grade-delete sequence. Download and discovery
// failures are infrastructure errors; everything after that scores like the
// visible unit-test grader.
func (g HiddenTestGrader) Run(ctx context.Context, gc *Context) (m.GradeResult, error) {
	hiddenMu.Lock()
	defer hiddenMu.Unlock()

	dest := filepath.Join(gc.Project.Paths().Root, g.TestClassName+".java")

	if err := java.DownloadFile(ctx, g.URL, dest); err != nil {
		return m.GradeResult{}, fmt.Errorf("failed to download hidden test: %w", err)
	}

	defer func() {
		if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(gc.out(), "failed to remove hidden test source %s: %v\n", dest, err)
		}
	}()

	project, err := java.Discover(ctx, gc.Project.Paths().Root, gc.Runner)
	if err != nil {
		return m.GradeResult{}, fmt.Errorf("failed to rediscover project with hidden test: %w", err)
	}

	inner := UnitTestGrader{
		Requirement: g.Requirement,
		OutOf:       g.OutOf,
		TestFiles:   []string{g.TestClassName},
	}

	innerCtx := &Context{
		Project:      project,
		Runner:       gc.Runner,
		WithFeedback: gc.WithFeedback,
		Out:          gc.Out,
	}

	return inner.Run(ctx, innerCtx)
}
