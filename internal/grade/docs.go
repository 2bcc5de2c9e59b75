package grade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
	"github.com/DhruvDh/umm-next-sub000/internal/parse"
)

// DefaultDocsPenalty is the deduction per documentation nit when a grader
// config does not override it.
const DefaultDocsPenalty = 3.0

// DocsGrader scores documentation quality by running javac's doc-lint mode
// over each file and deducting a penalty per reported nit.
type DocsGrader struct {
	Requirement string
	OutOf       float64
	Files       []string
	// Penalty is the deduction per nit; zero means DefaultDocsPenalty.
	Penalty float64
}

// Run grades documentation. Files that fail to compile score zero
// immediately; otherwise the score is out_of minus penalty per nit, floored
// at zero.
func (g DocsGrader) Run(ctx context.Context, gc *Context) (m.GradeResult, error) {
	if len(g.Files) == 0 {
		return m.GradeResult{}, errors.New("docs grader requires at least one file to grade")
	}

	penalty := g.Penalty
	if penalty == 0 {
		penalty = DefaultDocsPenalty
	}

	var diags []m.CompilerDiagnostic

	for _, name := range g.Files {
		file, err := gc.Project.Identify(name)
		if err != nil {
			return m.GradeResult{}, err
		}

		output, err := file.DocCheck(ctx)
		if err != nil {
			var opErr *java.OpError
			if errors.As(err, &opErr) && opErr.Kind == java.DuringCompilation {
				return m.GradeResult{
					Requirement: g.Requirement,
					Grade:       m.NewGrade(0, g.OutOf),
					Reason:      "See above.",
					Feedback: failureFeedback(gc,
						fmt.Sprintf("Compiler error -\n```\n%s\n```", opErr.Output),
						compilerRefs(opErr.CompilerDiags)),
				}, nil
			}

			return m.GradeResult{}, err
		}

		for _, line := range strings.Split(output, "\n") {
			if diag, err := parse.CompilerDiagnostic(line); err == nil {
				if diag.FileName == file.FileName() {
					diags = append(diags, diag)
				}
			}
		}
	}

	deduction := float64(len(diags)) * penalty

	g.printNits(gc, diags, deduction)

	var feedback *m.FeedbackContext

	if len(diags) > 0 {
		refs := make([]m.LineRef, 0, len(diags))
		for _, diag := range diags {
			refs = append(refs, diag.Ref())
		}

		var body strings.Builder
		for _, diag := range diags {
			fmt.Fprintf(&body, "%s:%d: %s\n", diag.FileName, diag.Line, diag.Message)
		}

		feedback = failureFeedback(gc, body.String(), refs)
	}

	return m.GradeResult{
		Requirement: g.Requirement,
		Grade:       m.NewGrade(g.OutOf-deduction, g.OutOf),
		Reason:      "See above.",
		Feedback:    feedback,
	}, nil
}

func (g DocsGrader) printNits(gc *Context, diags []m.CompilerDiagnostic, deduction float64) {
	table := tablewriter.NewWriter(gc.out())
	table.SetHeader([]string{"File", "Line", "Message"})
	table.SetCaption(true, fmt.Sprintf(
		"Check javadoc for %s: -%.2f due to %d nits",
		strings.Join(g.Files, ", "), deduction, len(diags),
	))

	for _, diag := range diags {
		table.Append([]string{diag.FileName, fmt.Sprintf("%d", diag.Line), diag.Message})
	}

	table.Render()
}

func compilerRefs(diags []m.CompilerDiagnostic) []m.LineRef {
	refs := make([]m.LineRef, 0, len(diags))
	for _, diag := range diags {
		refs = append(refs, diag.Ref())
	}

	return refs
}
