package grade

import (
	"fmt"
	"sort"
	"strings"

	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// Snippet assembly parameters. Offsets are in lines; the ratio decides when
// a snippet is close enough to the whole file to just include all of it.
const (
	snippetStartOffset  = 3
	snippetLines        = 6
	maxSnippetRefs      = 12
	fullFileRatio       = 0.75
	feedbackTruncateLen = 9000
)

// filterKnownRefs keeps references that point at files the project can
// identify, dropping library-internal frames.
func filterKnownRefs(gc *Context, refs []m.LineRef) []m.LineRef {
	var known []m.LineRef

	for _, ref := range refs {
		if gc.Project.Contains(ref.FileName) {
			known = append(known, ref)
		}
	}

	return known
}

// failureFeedback assembles the feedback context for a failed requirement:
// the student-facing body plus source snippets around the referenced lines.
// Returns nil when feedback is disabled.
func failureFeedback(gc *Context, body string, refs []m.LineRef) *m.FeedbackContext {
	if !gc.WithFeedback {
		return nil
	}

	fb := &m.FeedbackContext{}
	fb.Add(m.RoleStudent, truncateFeedback(body))

	if context := sourceContext(gc, refs); context != "" {
		fb.Add(m.RoleInstructor, context)
	}

	return fb
}

type snippetRange struct {
	ref   m.LineRef
	start int
	end   int
}

// sourceContext renders numbered source snippets around each referenced
// line, plus the bodies of methods invoked inside those snippets.
func sourceContext(gc *Context, refs []m.LineRef) string {
	refs = filterKnownRefs(gc, refs)
	if len(refs) == 0 {
		return ""
	}

	merged := mergeRefs(gc, refs)
	if len(merged) > maxSnippetRefs {
		merged = merged[:maxSnippetRefs]
	}

	lines := []string{
		"Here are some snippets of code the stacktrace indicates might be relevant:",
	}

	invoked := map[string]map[string]bool{}

	for _, r := range merged {
		file, err := gc.Project.Identify(r.ref.FileName)
		if err != nil {
			continue
		}

		code := file.Code()
		codeLines := strings.Split(code, "\n")
		total := len(codeLines)

		start, end := snippetBounds(total, r.start, r.end)

		lines = append(lines, fmt.Sprintf(
			"- Lines %d to %d from %s -", start+1, end+1, r.ref.FileName,
		))
		lines = append(lines, "```")

		width := numberWidth(total)
		for i := start; i <= end; i++ {
			lines = append(lines, fmt.Sprintf("%*d|%s", width, i+1, codeLines[i]))
		}

		lines = append(lines, "```")

		if invocations, err := file.MethodInvocations(); err == nil {
			for _, inv := range invocations {
				if inv.Line-1 >= start && inv.Line-1 <= end {
					if invoked[file.ProperName()] == nil {
						invoked[file.ProperName()] = map[string]bool{}
					}

					invoked[file.ProperName()][inv.Text] = true
				}
			}
		}
	}

	lines = append(lines, methodBodySections(gc, invoked)...)

	return truncateFeedback(strings.Join(lines, "\n"))
}

// mergeRefs expands refs into line ranges and coalesces overlapping ranges
// within the same file.
func mergeRefs(gc *Context, refs []m.LineRef) []snippetRange {
	expanded := make([]snippetRange, 0, len(refs))

	for _, ref := range refs {
		start := ref.Line - 1 - snippetStartOffset
		if start < 0 {
			start = 0
		}

		expanded = append(expanded, snippetRange{
			ref:   ref,
			start: start,
			end:   start + snippetLines,
		})
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		if expanded[i].ref.FileName != expanded[j].ref.FileName {
			return expanded[i].ref.FileName < expanded[j].ref.FileName
		}

		return expanded[i].start < expanded[j].start
	})

	var merged []snippetRange

	for _, r := range expanded {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if last.ref.FileName == r.ref.FileName && r.start <= last.end+snippetLines {
				if r.end > last.end {
					last.end = r.end
				}

				continue
			}
		}

		merged = append(merged, r)
	}

	return merged
}

// methodBodySections renders the body of every method invoked inside an
// included snippet, grouped by file.
func methodBodySections(gc *Context, invoked map[string]map[string]bool) []string {
	if len(invoked) == 0 {
		return nil
	}

	properNames := make([]string, 0, len(invoked))
	for name := range invoked {
		properNames = append(properNames, name)
	}

	sort.Strings(properNames)

	var sections []string

	for _, properName := range properNames {
		file, err := gc.Project.Identify(properName)
		if err != nil {
			continue
		}

		methods := make([]string, 0, len(invoked[properName]))
		for method := range invoked[properName] {
			methods = append(methods, method)
		}

		sort.Strings(methods)

		for _, method := range methods {
			bodies, err := file.MethodBodiesNamed(method)
			if err != nil || len(bodies) == 0 {
				continue
			}

			sections = append(sections, fmt.Sprintf(
				"Method body from student's submission `%s#%s`:", properName, method,
			))
			sections = append(sections, fmt.Sprintf("\n```\n%s\n```\n", bodies[0].Text))
		}
	}

	return sections
}

func snippetBounds(total, start, end int) (int, int) {
	if total == 0 {
		return 0, 0
	}

	if float64(end-start+1) >= fullFileRatio*float64(total) {
		return 0, total - 1
	}

	if start >= total {
		start = total - 1
	}

	if end >= total {
		end = total - 1
	}

	if end < start {
		end = start
	}

	return start, end
}

func numberWidth(total int) int {
	width := 1
	for total >= 10 {
		total /= 10
		width++
	}

	return width
}

func truncateFeedback(content string) string {
	if len(content) <= feedbackTruncateLen {
		return content
	}

	return content[:feedbackTruncateLen] + "...[TRUNCATED]"
}
