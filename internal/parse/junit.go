package parse

import (
	"fmt"
	"regexp"
	"strconv"

	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

var (
	stackFramePattern = regexp.MustCompile(`\(([A-Za-z0-9_$-]+)\.java:(\d+)\)`)

	testsPassedPattern = regexp.MustCompile(`^\s*\[\s*(\d+) tests successful\s*\]\s*$`)
	testsFoundPattern  = regexp.MustCompile(`^\s*\[\s*(\d+) tests found\s*\]\s*$`)
)

// StackFrameRef extracts the "(Name.java:NN)" reference from one test-runner
// stack trace line. Lines without a reference fail, which is how callers
// separate frames from surrounding prose.
func StackFrameRef(line string) (m.LineRef, error) {
	groups := stackFramePattern.FindStringSubmatch(line)
	if groups == nil {
		return m.LineRef{}, fmt.Errorf("not a stack frame reference: %q", line)
	}

	lineNo, err := strconv.Atoi(groups[2])
	if err != nil {
		return m.LineRef{}, fmt.Errorf("bad line number in stack frame %q: %w", line, err)
	}

	return m.LineRef{FileName: groups[1] + ".java", Line: lineNo}, nil
}

// TestsPassed parses the test runner's "[ N tests successful ]" summary line.
func TestsPassed(line string) (int, error) {
	return summaryCount(testsPassedPattern, line)
}

// TestsFound parses the test runner's "[ N tests found ]" summary line.
func TestsFound(line string) (int, error) {
	return summaryCount(testsFoundPattern, line)
}

func summaryCount(pattern *regexp.Regexp, line string) (int, error) {
	groups := pattern.FindStringSubmatch(line)
	if groups == nil {
		return 0, fmt.Errorf("not a summary line: %q", line)
	}

	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, fmt.Errorf("bad count in summary line %q: %w", line, err)
	}

	return n, nil
}
