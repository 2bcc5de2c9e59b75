package grade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// DiffCase pairs optional stdin with the output a correct submission
// produces for it.
type DiffCase struct {
	// Input is fed to the program's stdin; nil runs with empty stdin.
	Input *string
	// Expected is the output a correct program prints.
	Expected string
}

// DiffGrader runs a main class against each case and compares outputs with
// a word-level diff. All-or-nothing: the first mismatch, compile failure,
// or runtime failure scores zero immediately.
type DiffGrader struct {
	Requirement string
	OutOf       float64
	File        string
	Cases       []DiffCase
	// IgnoreCase lowercases both sides before comparing.
	IgnoreCase bool
	// PreserveWhitespace makes whitespace-only differences count as
	// mismatches; the default treats them as equal.
	PreserveWhitespace bool
}

// Run grades the configured file against every case in order.
func (g DiffGrader) Run(ctx context.Context, gc *Context) (m.GradeResult, error) {
	if len(g.Cases) == 0 {
		return m.GradeResult{}, errors.New(
			"at least one diff case (input-expected pair) must be provided")
	}

	file, err := gc.Project.Identify(g.File)
	if err != nil {
		return m.GradeResult{}, err
	}

	for _, c := range g.Cases {
		actual, err := file.RunWithInput(ctx, c.Input)
		if err != nil {
			return g.executionFailure(gc, err)
		}

		expected := g.normalize(c.Expected)
		actual = g.normalize(actual)

		if equal, rendered := g.compare(expected, actual); !equal {
			fmt.Fprintf(gc.out(),
				"Comparing expected and actual output for %s:\n%s\n",
				file.FileName(), rendered)

			reason := g.mismatchReason(file.FileName(), c.Input, expected, actual)

			return m.GradeResult{
				Requirement: g.Requirement,
				Grade:       m.NewGrade(0, g.OutOf),
				Reason:      reason,
				Feedback:    failureFeedback(gc, rendered, nil),
			}, nil
		}
	}

	return m.GradeResult{
		Requirement: g.Requirement,
		Grade:       m.NewGrade(g.OutOf, g.OutOf),
		Reason:      "Got expected output",
	}, nil
}

func (g DiffGrader) executionFailure(gc *Context, err error) (m.GradeResult, error) {
	var opErr *java.OpError
	if !errors.As(err, &opErr) || opErr.Kind == java.FailUnknown {
		return m.GradeResult{}, err
	}

	var (
		reason string
		body   string
		refs   []m.LineRef
	)

	switch opErr.Kind {
	case java.DuringCompilation:
		reason = "Error compiling file for some cases."
		body = fmt.Sprintf("Error while compiling -\n```\n%s\n```", opErr.Output)
		refs = compilerRefs(opErr.CompilerDiags)
	default:
		reason = "Error running file for some cases."
		body = fmt.Sprintf("Error while running -\n```\n%s\n```", opErr.Output)
		refs = opErr.Refs
	}

	return m.GradeResult{
		Requirement: g.Requirement,
		Grade:       m.NewGrade(0, g.OutOf),
		Reason:      reason,
		Feedback:    failureFeedback(gc, body, refs),
	}, nil
}

// normalize applies the configured whitespace and case rules.
func (g DiffGrader) normalize(text string) string {
	if !g.PreserveWhitespace {
		text = strings.TrimSpace(text)
	}

	if g.IgnoreCase {
		text = strings.ToLower(text)
	}

	return text
}

// compare diffs the two outputs word by word. The outputs are equal when
// every inserted or deleted chunk is pure whitespace, unless whitespace is
// preserved. Returns a rendered two-sided diff for explanations.
func (g DiffGrader) compare(expected, actual string) (bool, string) {
	expectedTokens := splitWords(expected)
	actualTokens := splitWords(actual)

	matcher := difflib.NewMatcher(expectedTokens, actualTokens)

	equal := true

	var expectedSide, actualSide strings.Builder

	for _, op := range matcher.GetOpCodes() {
		switch op.Tag {
		case 'e':
			chunk := strings.Join(expectedTokens[op.I1:op.I2], "")
			expectedSide.WriteString(chunk)
			actualSide.WriteString(chunk)
		default:
			deleted := strings.Join(expectedTokens[op.I1:op.I2], "")
			inserted := strings.Join(actualTokens[op.J1:op.J2], "")
			expectedSide.WriteString(deleted)
			actualSide.WriteString(inserted)

			if g.PreserveWhitespace ||
				strings.TrimSpace(deleted) != "" || strings.TrimSpace(inserted) != "" {
				equal = false
			}
		}
	}

	rendered := fmt.Sprintf("```\nExpected:\n%s\nActual:\n%s\n```",
		expectedSide.String(), actualSide.String())

	return equal, rendered
}

func (g DiffGrader) mismatchReason(fileName string, input *string, expected, actual string) string {
	if input != nil && *input != "" {
		return fmt.Sprintf(
			"First mismatch for %s (input: `%s`): expected %q; got %q",
			fileName, preview(*input), preview(expected), preview(actual),
		)
	}

	return fmt.Sprintf(
		"First mismatch for %s: expected %q; got %q",
		fileName, preview(expected), preview(actual),
	)
}

// splitWords tokenizes into alternating word and whitespace runs so the
// diff can treat whitespace-only changes separately.
func splitWords(text string) []string {
	var tokens []string

	start := 0
	inSpace := false

	for i, r := range text {
		isSpace := unicode.IsSpace(r)
		if i == 0 {
			inSpace = isSpace
			continue
		}

		if isSpace != inSpace {
			tokens = append(tokens, text[start:i])
			start = i
			inSpace = isSpace
		}
	}

	if start < len(text) {
		tokens = append(tokens, text[start:])
	}

	return tokens
}

// preview trims a payload to its first non-empty line, capped at 80 runes.
func preview(text string) string {
	snippet := strings.TrimSpace(text)

	firstLine := snippet
	if i := strings.IndexByte(snippet, '\n'); i >= 0 {
		firstLine = snippet[:i]
	}

	runes := []rune(firstLine)
	if len(runes) > 80 {
		return string(runes[:80]) + "…"
	}

	if firstLine == "" {
		return "[empty]"
	}

	return firstLine
}
