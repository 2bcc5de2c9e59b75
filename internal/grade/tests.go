package grade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
	"github.com/DhruvDh/umm-next-sub000/internal/parse"
)

// UnitTestGrader runs the visible tests in the named test files and scores
// proportionally to how many pass. When ExpectedTests is set, the declared
// test set must equal it exactly before anything runs.
type UnitTestGrader struct {
	Requirement string
	OutOf       float64
	TestFiles   []string
	// ExpectedTests are fully qualified "Class#method" selectors, or bare
	// method names. Any mismatch against the declared set scores zero
	// without spawning a test process.
	ExpectedTests []string
}

// Run executes the configured test files and sums their summary counters.
func (g UnitTestGrader) Run(ctx context.Context, gc *Context) (m.GradeResult, error) {
	files := make([]*java.SourceFile, 0, len(g.TestFiles))

	for _, name := range g.TestFiles {
		file, err := gc.Project.Identify(name)
		if err != nil {
			return m.GradeResult{}, fmt.Errorf("failed to identify test file %q: %w", name, err)
		}

		files = append(files, file)
	}

	if reasons := expectedMismatches(files, g.ExpectedTests); len(reasons) > 0 {
		reasons = append(reasons, "Tests will not be run until above is fixed.")
		body := strings.Join(reasons, "\n")

		return m.GradeResult{
			Requirement: g.Requirement,
			Grade:       m.NewGrade(0, g.OutOf),
			Reason:      body,
			Feedback:    failureFeedback(gc, body, nil),
		}, nil
	}

	var (
		totalPassed float64
		totalTests  float64
		feedback    *m.FeedbackContext
	)

	for _, file := range files {
		passed, total, fb, err := g.runTestFile(ctx, gc, file)
		if err != nil {
			return m.GradeResult{}, err
		}

		totalPassed += passed
		totalTests += total

		if feedback == nil {
			feedback = fb
		} else if fb != nil {
			feedback.Messages = append(feedback.Messages, fb.Messages...)
		}
	}

	score := 0.0
	if totalTests > 0 {
		score = totalPassed / totalTests * g.OutOf
	}

	return m.GradeResult{
		Requirement: g.Requirement,
		Grade:       m.NewGrade(score, g.OutOf),
		Reason:      fmt.Sprintf("- %v/%v tests passing.", totalPassed, totalTests),
		Feedback:    feedback,
	}, nil
}

// runTestFile executes one test file and extracts its pass/found counters.
// Student-code failures become partial counts plus feedback; only
// infrastructure failures return an error.
func (g UnitTestGrader) runTestFile(
	ctx context.Context, gc *Context, file *java.SourceFile,
) (passed, total float64, fb *m.FeedbackContext, err error) {
	output, err := file.Test(ctx, nil, gc.Project)
	if err == nil {
		passed, total = summaryCounts(output)
		return passed, total, nil, nil
	}

	var opErr *java.OpError
	if !errors.As(err, &opErr) || opErr.Kind == java.FailUnknown {
		return 0, 0, nil, err
	}

	switch opErr.Kind {
	case java.FailedTests:
		transcript := stopAtSummary(opErr.Output)
		passed, total = summaryCounts(opErr.Output)
		fb = failureFeedback(gc,
			fmt.Sprintf("Failed tests -\n```\n%s\n```", transcript),
			opErr.Refs)

		return passed, total, fb, nil
	case java.DuringCompilation:
		fb = failureFeedback(gc,
			fmt.Sprintf("Compiler error -\n```\n%s\n```", opErr.Output),
			compilerRefs(opErr.CompilerDiags))

		return 0, 0, fb, nil
	default:
		fb = failureFeedback(gc,
			fmt.Sprintf("Error at runtime -\n```\n%s\n```", opErr.Output),
			opErr.Refs)

		return 0, 0, fb, nil
	}
}

// expectedMismatches lists every expected test that is missing and every
// declared test that was not expected. Expected entries may be fully
// qualified "Class#method" or bare method names.
func expectedMismatches(files []*java.SourceFile, expected []string) []string {
	if len(expected) == 0 {
		return nil
	}

	var actual []string
	for _, file := range files {
		actual = append(actual, file.TestMethods()...)
	}

	sort.Strings(actual)

	sortedExpected := make([]string, len(expected))
	copy(sortedExpected, expected)
	sort.Strings(sortedExpected)

	expectedFull := map[string]bool{}
	expectedMethods := map[string]bool{}

	for _, entry := range sortedExpected {
		if strings.Contains(entry, "#") {
			expectedFull[entry] = true
		} else {
			expectedMethods[entry] = true
		}
	}

	var reasons []string

	for _, entry := range sortedExpected {
		method := methodName(entry)

		missing := false
		if strings.Contains(entry, "#") {
			missing = !contains(actual, entry)
		} else {
			missing = true
			for _, a := range actual {
				if methodName(a) == method {
					missing = false
					break
				}
			}
		}

		if missing {
			reasons = append(reasons, fmt.Sprintf("- %s not found.", method))
		}
	}

	for _, a := range actual {
		method := methodName(a)
		if !expectedFull[a] && !expectedMethods[method] {
			reasons = append(reasons, fmt.Sprintf("- Unexpected test called %s", method))
		}
	}

	return reasons
}

func methodName(selector string) string {
	if _, method, ok := strings.Cut(selector, "#"); ok {
		return method
	}

	return selector
}

func contains(list []string, value string) bool {
	for _, entry := range list {
		if entry == value {
			return true
		}
	}

	return false
}

// summaryCounts pulls the passed/found counters out of a test transcript.
func summaryCounts(output string) (passed, total float64) {
	for _, line := range strings.Split(output, "\n") {
		if value, err := parse.TestsPassed(line); err == nil {
			passed = float64(value)
		}

		if value, err := parse.TestsFound(line); err == nil {
			total = float64(value)
		}
	}

	return passed, total
}

// stopAtSummary cuts the transcript at the closing summary banner; the
// tables after it repeat what the counters already say.
func stopAtSummary(output string) string {
	var kept []string

	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Test run finished after") {
			break
		}

		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}
