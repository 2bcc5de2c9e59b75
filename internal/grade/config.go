package grade

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawGrader is the union of every grader's configurable fields; Type picks
// which grader the entry builds.
type rawGrader struct {
	Type        string  `yaml:"type"`
	Requirement string  `yaml:"requirement"`
	OutOf       float64 `yaml:"out_of"`

	// docs
	Files   []string `yaml:"files"`
	Penalty float64  `yaml:"penalty"`

	// unit_test
	TestFiles     []string `yaml:"test_files"`
	ExpectedTests []string `yaml:"expected_tests"`

	// mutation
	TargetTests     []string `yaml:"target_tests"`
	TargetClasses   []string `yaml:"target_classes"`
	ExcludedMethods []string `yaml:"excluded_methods"`
	AvoidCallsTo    []string `yaml:"avoid_calls_to"`

	// diff
	File               string        `yaml:"file"`
	Cases              []rawDiffCase `yaml:"cases"`
	IgnoreCase         bool          `yaml:"ignore_case"`
	PreserveWhitespace bool          `yaml:"preserve_whitespace"`

	// query
	Queries    []rawQuery    `yaml:"queries"`
	Constraint rawConstraint `yaml:"constraint"`
	Reason     string        `yaml:"reason"`

	// hidden_test
	URL           string `yaml:"url"`
	TestClassName string `yaml:"test_class_name"`
}

type rawDiffCase struct {
	Input    *string `yaml:"input"`
	Expected string  `yaml:"expected"`
}

type rawQuery struct {
	Query   string `yaml:"query"`
	Capture string `yaml:"capture"`
}

type rawConstraint struct {
	Kind  string `yaml:"kind"`
	Count int    `yaml:"count"`
}

// ParseConfig decodes a YAML list of grader configurations into runnable
// graders, in document order.
func ParseConfig(data []byte) ([]Grader, error) {
	var raw []rawGrader

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grading config: %w", err)
	}

	graders := make([]Grader, 0, len(raw))

	for i, entry := range raw {
		grader, err := entry.build()
		if err != nil {
			return nil, fmt.Errorf("grading config entry %d (%q): %w", i+1, entry.Requirement, err)
		}

		graders = append(graders, grader)
	}

	return graders, nil
}

func (r rawGrader) build() (Grader, error) {
	switch r.Type {
	case "docs":
		return DocsGrader{
			Requirement: r.Requirement,
			OutOf:       r.OutOf,
			Files:       r.Files,
			Penalty:     r.Penalty,
		}, nil
	case "unit_test":
		return UnitTestGrader{
			Requirement:   r.Requirement,
			OutOf:         r.OutOf,
			TestFiles:     r.TestFiles,
			ExpectedTests: r.ExpectedTests,
		}, nil
	case "mutation":
		return MutationGrader{
			Requirement:     r.Requirement,
			OutOf:           r.OutOf,
			TargetTests:     r.TargetTests,
			TargetClasses:   r.TargetClasses,
			ExcludedMethods: r.ExcludedMethods,
			AvoidCallsTo:    r.AvoidCallsTo,
		}, nil
	case "diff":
		cases := make([]DiffCase, 0, len(r.Cases))
		for _, c := range r.Cases {
			cases = append(cases, DiffCase{Input: c.Input, Expected: c.Expected})
		}

		return DiffGrader{
			Requirement:        r.Requirement,
			OutOf:              r.OutOf,
			File:               r.File,
			Cases:              cases,
			IgnoreCase:         r.IgnoreCase,
			PreserveWhitespace: r.PreserveWhitespace,
		}, nil
	case "query":
		queries := make([]Query, 0, len(r.Queries))
		for _, q := range r.Queries {
			queries = append(queries, Query{Query: q.Query, Capture: q.Capture})
		}

		constraint, err := r.Constraint.build()
		if err != nil {
			return nil, err
		}

		return QueryGrader{
			Requirement: r.Requirement,
			OutOf:       r.OutOf,
			File:        r.File,
			Queries:     queries,
			Constraint:  constraint,
			Reason:      r.Reason,
		}, nil
	case "hidden_test":
		return HiddenTestGrader{
			Requirement:   r.Requirement,
			OutOf:         r.OutOf,
			URL:           r.URL,
			TestClassName: r.TestClassName,
		}, nil
	case "":
		return nil, fmt.Errorf("missing grader type")
	default:
		return nil, fmt.Errorf("unknown grader type %q", r.Type)
	}
}

func (r rawConstraint) build() (Constraint, error) {
	switch r.Kind {
	case "", "at_least_once":
		return Constraint{Kind: MustMatchAtLeastOnce}, nil
	case "exactly":
		return Constraint{Kind: MustMatchExactlyN, Count: r.Count}, nil
	case "must_not_match":
		return Constraint{Kind: MustNotMatch}, nil
	default:
		return Constraint{}, fmt.Errorf("unknown query constraint kind %q", r.Kind)
	}
}
