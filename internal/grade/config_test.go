package grade

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigBuildsGraders(t *testing.T) {
	graders, err := ParseConfig([]byte(`
- type: docs
  requirement: "1. Documentation"
  out_of: 10
  files: [Shape, Circle]
  penalty: 1.5
- type: unit_test
  requirement: "2. Unit tests"
  out_of: 20
  test_files: [ShapeTest]
  expected_tests: [testArea, testPerimeter]
- type: mutation
  requirement: "3. Test quality"
  out_of: 20
  target_tests: [ShapeTest]
  target_classes: [Shape]
  excluded_methods: [toString]
- type: diff
  requirement: "4. Output"
  out_of: 10
  file: Main
  ignore_case: true
  cases:
    - input: "3 4"
      expected: "12"
    - expected: "done"
- type: query
  requirement: "5. Uses a loop"
  out_of: 5
  file: Main
  queries:
    - query: "((for_statement) @for)"
      capture: for
  constraint:
    kind: exactly
    count: 2
  reason: "main should use exactly two for loops"
- type: hidden_test
  requirement: "6. Hidden tests"
  out_of: 15
  url: "https://example.com/ShapeHiddenTest.java"
  test_class_name: ShapeHiddenTest
`))
	require.NoError(t, err)
	require.Len(t, graders, 6)

	docs, ok := graders[0].(DocsGrader)
	require.True(t, ok)
	require.Equal(t, []string{"Shape", "Circle"}, docs.Files)
	require.Equal(t, 1.5, docs.Penalty)

	unit, ok := graders[1].(UnitTestGrader)
	require.True(t, ok)
	require.Equal(t, []string{"testArea", "testPerimeter"}, unit.ExpectedTests)

	mutation, ok := graders[2].(MutationGrader)
	require.True(t, ok)
	require.Equal(t, []string{"toString"}, mutation.ExcludedMethods)

	diff, ok := graders[3].(DiffGrader)
	require.True(t, ok)
	require.Len(t, diff.Cases, 2)
	require.NotNil(t, diff.Cases[0].Input)
	require.Equal(t, "3 4", *diff.Cases[0].Input)
	require.Nil(t, diff.Cases[1].Input)
	require.True(t, diff.IgnoreCase)

	query, ok := graders[4].(QueryGrader)
	require.True(t, ok)
	require.Equal(t, Constraint{Kind: MustMatchExactlyN, Count: 2}, query.Constraint)
	require.Equal(t, "for", query.Queries[0].Capture)

	hidden, ok := graders[5].(HiddenTestGrader)
	require.True(t, ok)
	require.Equal(t, "ShapeHiddenTest", hidden.TestClassName)
}

func TestParseConfigRejectsUnknownType(t *testing.T) {
	_, err := ParseConfig([]byte(`
- type: style
  requirement: "Style"
  out_of: 5
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown grader type "style"`)
}

func TestParseConfigRejectsMissingType(t *testing.T) {
	_, err := ParseConfig([]byte(`
- requirement: "No type"
  out_of: 5
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing grader type")
}

func TestParseConfigRejectsBadConstraint(t *testing.T) {
	_, err := ParseConfig([]byte(`
- type: query
  requirement: "Bad constraint"
  out_of: 5
  file: Main
  constraint:
    kind: sometimes
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown query constraint kind "sometimes"`)
}
