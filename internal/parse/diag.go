// Package parse implements the diagnostic grammar: small pure parsers that
// turn single lines (or records) of external tool output into typed
// diagnostics. Each parser recognizes exactly one shape and returns an error
// for everything else, so callers can separate structured signal from prose
// by attempting a parse per line.
package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// compilerDiagPattern matches the first line of a compiler diagnostic block:
// <path>:<line>:<error|warning>: <message>. Continuation lines carry no
// ":<line>:" marker and deliberately fail to match.
var compilerDiagPattern = regexp.MustCompile(`^\s*(.+?):(\d+):\s*(error|warning):\s*(.*)$`)

// CompilerDiagnostic parses one line of compiler output. Both path separator
// styles are accepted; the stored path is normalized to forward slashes with
// a leading ".". Error messages gain an "Error: " prefix so they stand out in
// student-facing reports.
func CompilerDiagnostic(line string) (m.CompilerDiagnostic, error) {
	groups := compilerDiagPattern.FindStringSubmatch(line)
	if groups == nil {
		return m.CompilerDiagnostic{}, fmt.Errorf("not a compiler diagnostic: %q", line)
	}

	lineNo, err := strconv.Atoi(groups[2])
	if err != nil {
		return m.CompilerDiagnostic{}, fmt.Errorf("bad line number in diagnostic %q: %w", line, err)
	}

	segments := splitPath(groups[1])
	if len(segments) == 0 {
		return m.CompilerDiagnostic{}, fmt.Errorf("empty path in diagnostic: %q", line)
	}

	isError := groups[3] == "error"

	message := groups[4]
	if isError {
		message = "Error: " + message
	}

	return m.CompilerDiagnostic{
		Path:     "./" + strings.Join(segments, "/"),
		FileName: segments[len(segments)-1],
		Line:     lineNo,
		IsError:  isError,
		Message:  message,
	}, nil
}

// splitPath breaks a path on either separator style and drops empty and "."
// segments, leaving only the meaningful components.
func splitPath(path string) []string {
	raw := strings.FieldsFunc(strings.TrimSpace(path), func(r rune) bool {
		return r == '/' || r == '\\'
	})

	segments := make([]string, 0, len(raw))

	for _, segment := range raw {
		if segment == "" || segment == "." {
			continue
		}

		segments = append(segments, segment)
	}

	return segments
}
