package grade

import (
	"context"
	"fmt"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	"github.com/DhruvDh/umm-next-sub000/internal/java/queries"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// Query is one step of a structural-query chain: the query source, the
// capture whose matches become candidates, and an optional predicate that
// narrows them. The filter is an injected capability; evaluation is
// single-threaded.
type Query struct {
	Query   string
	Capture string
	Filter  func(string) bool
}

// ConstraintKind decides how the final candidate count scores.
type ConstraintKind int

const (
	// MustMatchAtLeastOnce passes when any candidate remains.
	MustMatchAtLeastOnce ConstraintKind = iota
	// MustMatchExactlyN passes when exactly N candidates remain.
	MustMatchExactlyN
	// MustNotMatch passes when no candidate remains.
	MustNotMatch
)

// Constraint pairs a kind with its count, used only by MustMatchExactlyN.
type Constraint struct {
	Kind  ConstraintKind
	Count int
}

func (c Constraint) describe() string {
	switch c.Kind {
	case MustMatchExactlyN:
		return fmt.Sprintf("Query Constraint: Must match exactly %d times.", c.Count)
	case MustNotMatch:
		return "Query Constraint: Must not match."
	default:
		return "Query Constraint: Must match at least once."
	}
}

// satisfied evaluates the constraint against the final candidate count.
func (c Constraint) satisfied(count int) bool {
	switch c.Kind {
	case MustMatchExactlyN:
		return count == c.Count
	case MustNotMatch:
		return count == 0
	default:
		return count > 0
	}
}

// QueryGrader scores a file by running an ordered chain of structural
// queries. The first query runs against the file; each later query re-parses
// every candidate string as a standalone fragment and narrows the set. The
// constraint then evaluates the final candidate count.
type QueryGrader struct {
	Requirement string
	OutOf       float64
	File        string
	Queries     []Query
	Constraint  Constraint
	// Reason is the student-facing explanation used for both outcomes.
	// Empty falls back to a description of the constraint.
	Reason string
}

// Run evaluates the chain. A step with no capture name, or a step that
// leaves zero candidates before the chain ends, is a parse-level failure:
// zero score with the query error in the feedback, not a constraint result.
func (g QueryGrader) Run(ctx context.Context, gc *Context) (m.GradeResult, error) {
	reason := g.Reason
	if reason == "" {
		reason = g.Constraint.describe()
	}

	matches, queryErr := g.runChain(gc)
	if queryErr != nil {
		return m.GradeResult{
			Requirement: g.Requirement,
			Grade:       m.NewGrade(0, g.OutOf),
			Reason:      reason,
			Feedback: feedbackNote(gc, fmt.Sprintf(
				"Something went wrong when using treesitter queries to grade `%s`. "+
					"Error message:\n\n```\n%v\n```\n", g.File, queryErr)),
		}, nil
	}

	if g.Constraint.satisfied(len(matches)) {
		return m.GradeResult{
			Requirement: g.Requirement,
			Grade:       m.NewGrade(g.OutOf, g.OutOf),
			Reason:      reason,
		}, nil
	}

	return m.GradeResult{
		Requirement: g.Requirement,
		Grade:       m.NewGrade(0, g.OutOf),
		Reason:      reason,
		Feedback: feedbackNote(gc, fmt.Sprintf(
			"For file `%s`: %s", g.File, reason)),
	}, nil
}

// runChain executes the queries in order, narrowing the candidate set.
func (g QueryGrader) runChain(gc *Context) ([]string, error) {
	if len(g.Queries) == 0 {
		return nil, fmt.Errorf("no queries to run")
	}

	file, err := gc.Project.Identify(g.File)
	if err != nil {
		return nil, fmt.Errorf("could not find file %q: %w", g.File, err)
	}

	first := g.Queries[0]
	if first.Capture == "" {
		return nil, fmt.Errorf("no capture selected for query %q", first.Query)
	}

	rows, err := file.Query(first.Query)
	if err != nil {
		return nil, err
	}

	matches := capturesFrom(rows, first)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no matches found for query %q", first.Query)
	}

	for _, q := range g.Queries[1:] {
		if q.Capture == "" {
			return nil, fmt.Errorf("no capture selected for query %q", q.Query)
		}

		var narrowed []string

		for _, snippet := range matches {
			parser, err := java.NewParser(snippet)
			if err != nil {
				return nil, fmt.Errorf("failed to parse candidate for query %q: %w", q.Query, err)
			}

			rows, err := parser.Query(q.Query)
			if err != nil {
				return nil, err
			}

			narrowed = append(narrowed, capturesFrom(rows, q)...)
		}

		if len(narrowed) == 0 {
			return nil, fmt.Errorf("no matches found for query %q", q.Query)
		}

		matches = narrowed
	}

	return matches, nil
}

func capturesFrom(rows []map[string]string, q Query) []string {
	var captured []string

	for _, row := range rows {
		value, ok := row[q.Capture]
		if !ok {
			continue
		}

		if q.Filter != nil && !q.Filter(value) {
			continue
		}

		captured = append(captured, value)
	}

	return captured
}

// feedbackNote wraps a single instructor note, honoring the feedback
// toggle.
func feedbackNote(gc *Context, content string) *m.FeedbackContext {
	if !gc.WithFeedback {
		return nil
	}

	fb := &m.FeedbackContext{}

	return fb.Add(m.RoleInstructor, content)
}

// Convenience constructors mirroring the common query shapes.

// MainMethodQuery selects the entire main method.
func MainMethodQuery() Query {
	return Query{Query: queries.MainMethod, Capture: "body"}
}

// MethodBodyWithNameQuery selects declarations of the named method.
func MethodBodyWithNameQuery(name string) Query {
	return Query{Query: queries.MethodBodyWithName(name), Capture: "body"}
}

// ClassBodyWithNameQuery selects the declaration of the named class.
func ClassBodyWithNameQuery(name string) Query {
	return Query{Query: queries.ClassWithName(name), Capture: "body"}
}

// LocalVariablesQuery selects local variable declaration statements.
func LocalVariablesQuery() Query {
	return Query{Query: "((local_variable_declaration) @var)", Capture: "var"}
}

// LocalVariablesWithNameQuery selects local variables introducing name.
func LocalVariablesWithNameQuery(name string) Query {
	return Query{Query: queries.LocalVariableWithName(name), Capture: "body"}
}

// LocalVariablesWithTypeQuery selects local variables of the given type.
func LocalVariablesWithTypeQuery(typeName string) Query {
	return Query{Query: queries.LocalVariableWithType(typeName), Capture: "body"}
}

// IfStatementsQuery selects if statements, including else branches.
func IfStatementsQuery() Query {
	return Query{Query: "((if_statement) @if)", Capture: "if"}
}

// ForLoopsQuery selects for statements.
func ForLoopsQuery() Query {
	return Query{Query: "((for_statement) @for)", Capture: "for"}
}

// WhileLoopsQuery selects while statements.
func WhileLoopsQuery() Query {
	return Query{Query: "((while_statement) @while)", Capture: "while"}
}

// MethodInvocationsQuery selects every method invocation.
func MethodInvocationsQuery() Query {
	return Query{Query: queries.MethodInvocation, Capture: "body"}
}

// MethodInvocationsWithNameQuery selects invocations of the named method.
func MethodInvocationsWithNameQuery(name string) Query {
	return Query{Query: queries.MethodInvocationsWithName(name), Capture: "body"}
}
