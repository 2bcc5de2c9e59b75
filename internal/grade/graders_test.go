package grade

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

// stubRunner replays canned tool output instead of spawning processes.
type stubRunner struct {
	mu      sync.Mutex
	calls   []process.Spec
	handler func(spec process.Spec) process.Collected
}

func (r *stubRunner) Run(_ context.Context, spec process.Spec) (process.Collected, error) {
	r.mu.Lock()
	r.calls = append(r.calls, spec)
	r.mu.Unlock()

	if r.handler == nil {
		return process.Collected{ExitCode: 0}, nil
	}

	return r.handler(spec), nil
}

func (r *stubRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.calls)
}

func newProject(t *testing.T, sources map[string]string, runner process.Runner) (*java.Project, *Context) {
	t.Helper()

	root := t.TempDir()

	for rel, content := range sources {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	project, err := java.Discover(context.Background(), root, runner)
	require.NoError(t, err)

	gc := NewContext(project, runner)
	gc.Out = &bytes.Buffer{}

	return project, gc
}

const calculatorTestSource = `public class CalculatorTest {
    @Test
    public void testAdd() {
    }

    @Test
    public void testSub() {
    }
}
`

const greeterSource = `public class Greeter {
    public static void main(String[] args) {
        System.out.println("hello world");
    }
}
`

func TestUnitTestGraderMismatchSpawnsNothing(t *testing.T) {
	runner := &stubRunner{}
	_, gc := newProject(t, map[string]string{
		"src/CalculatorTest.java": calculatorTestSource,
	}, runner)

	grader := UnitTestGrader{
		Requirement:   "Unit tests",
		OutOf:         10,
		TestFiles:     []string{"CalculatorTest"},
		ExpectedTests: []string{"testAdd", "testMul"},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.Equal(t, 0.0, result.Grade.Score)
	require.Contains(t, result.Reason, "- testMul not found.")
	require.Contains(t, result.Reason, "- Unexpected test called testSub")
	require.Contains(t, result.Reason, "Tests will not be run until above is fixed.")
	require.Zero(t, runner.callCount(), "no test process may be spawned on a mismatch")
}

func TestUnitTestGraderAllPassing(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			if spec.Program == "javac" {
				return process.Collected{ExitCode: 0}
			}

			return process.Collected{
				ExitCode: 0,
				Output: strings.Join([]string{
					"Test run finished after 120 ms",
					"[         2 tests successful      ]",
					"[         0 tests failed          ]",
					"[         2 tests found           ]",
				}, "\n"),
			}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/CalculatorTest.java": calculatorTestSource,
	}, runner)

	grader := UnitTestGrader{
		Requirement:   "Unit tests",
		OutOf:         10,
		TestFiles:     []string{"CalculatorTest"},
		ExpectedTests: []string{"testAdd", "testSub"},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.Equal(t, 10.0, result.Grade.Score)
	require.Contains(t, result.Reason, "2/2")
}

func TestUnitTestGraderPartialPasses(t *testing.T) {
	transcript := strings.Join([]string{
		"CalculatorTest > testSub() FAILED",
		"	at CalculatorTest.testSub(CalculatorTest.java:7)",
		"[         1 tests successful      ]",
		"[         2 tests found           ]",
	}, "\n")

	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			if spec.Program == "javac" {
				return process.Collected{ExitCode: 0}
			}

			return process.Collected{ExitCode: 1, Output: transcript}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/CalculatorTest.java": calculatorTestSource,
	}, runner)

	grader := UnitTestGrader{
		Requirement: "Unit tests",
		OutOf:       10,
		TestFiles:   []string{"CalculatorTest"},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.InDelta(t, 5.0, result.Grade.Score, 1e-9)
	require.Contains(t, result.Reason, "1/2")
}

func TestDocsGraderPenaltyPerNit(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			return process.Collected{
				ExitCode: 0,
				Output: strings.Join([]string{
					"src/Greeter.java:1:warning: no comment",
					"src/Greeter.java:2:warning: no comment",
				}, "\n"),
			}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/Greeter.java": greeterSource,
	}, runner)

	grader := DocsGrader{
		Requirement: "Javadoc",
		OutOf:       5,
		Files:       []string{"Greeter"},
		Penalty:     1,
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)
	require.Equal(t, 3.0, result.Grade.Score)
}

func TestMutationGraderToolFailureSkips(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			return process.Collected{ExitCode: 1, Output: "tests did not pass without mutation"}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/CalculatorTest.java": calculatorTestSource,
	}, runner)

	grader := MutationGrader{
		Requirement:   "Mutation coverage",
		OutOf:         20,
		TargetTests:   []string{"CalculatorTest"},
		TargetClasses: []string{"Calculator"},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.Equal(t, 0.0, result.Grade.Score)
	require.Contains(t, result.Reason, "skipping")
}

func TestMutationGraderSurvivorsPenalized(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			return process.Collected{ExitCode: 0}
		},
	}

	project, gc := newProject(t, map[string]string{
		"src/CalculatorTest.java": calculatorTestSource,
	}, runner)

	reportDir := project.Paths().Report
	require.NoError(t, os.MkdirAll(reportDir, 0o755))

	rows := strings.Join([]string{
		"Calculator.java,Calculator,org.pitest.mutationtest.engine.gregor.mutators.MathMutator,add,3,SURVIVED,none",
		"Calculator.java,Calculator,org.pitest.mutationtest.engine.gregor.mutators.MathMutator,add,4,KILLED,[engine:junit]/[runner:CalculatorTest]/[test:testAdd()]",
		"Calculator.java,Calculator,org.pitest.mutationtest.engine.gregor.mutators.ReturnValsMutator,sub,9,SURVIVED,none",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(reportDir, "mutations.csv"), []byte(rows), 0o644))

	grader := MutationGrader{
		Requirement:   "Mutation coverage",
		OutOf:         20,
		TargetTests:   []string{"CalculatorTest"},
		TargetClasses: []string{"Calculator"},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.Equal(t, 12.0, result.Grade.Score)
	require.Contains(t, result.Reason, "-8 Penalty")
}

func TestDiffGraderIdempotent(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			if spec.Program == "javac" {
				return process.Collected{ExitCode: 0}
			}

			return process.Collected{ExitCode: 0, Output: "hello world\n"}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/Greeter.java": greeterSource,
	}, runner)

	grader := DiffGrader{
		Requirement: "Output check",
		OutOf:       5,
		File:        "Greeter",
		Cases:       []DiffCase{{Expected: "hello world"}},
	}

	first, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	second, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 5.0, first.Grade.Score)
	require.Equal(t, "Got expected output", first.Reason)
}

func TestDiffGraderWhitespaceOnlyDifferenceIsEqual(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			if spec.Program == "javac" {
				return process.Collected{ExitCode: 0}
			}

			return process.Collected{ExitCode: 0, Output: "hello   world\n"}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/Greeter.java": greeterSource,
	}, runner)

	grader := DiffGrader{
		Requirement: "Output check",
		OutOf:       5,
		File:        "Greeter",
		Cases:       []DiffCase{{Expected: "hello world"}},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)
	require.Equal(t, 5.0, result.Grade.Score)
}

func TestDiffGraderMismatchScoresZero(t *testing.T) {
	runner := &stubRunner{
		handler: func(spec process.Spec) process.Collected {
			if spec.Program == "javac" {
				return process.Collected{ExitCode: 0}
			}

			return process.Collected{ExitCode: 0, Output: "goodbye world\n"}
		},
	}

	_, gc := newProject(t, map[string]string{
		"src/Greeter.java": greeterSource,
	}, runner)

	grader := DiffGrader{
		Requirement: "Output check",
		OutOf:       5,
		File:        "Greeter",
		Cases:       []DiffCase{{Expected: "hello world"}},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)

	require.Equal(t, 0.0, result.Grade.Score)
	require.Contains(t, result.Reason, "First mismatch for Greeter.java")
}

const counterSource = `public class Counter {
    public int total() {
        int a = 1;
        int b = 2;
        return a + b;
    }
}
`

func TestQueryGraderMustMatchExactlyN(t *testing.T) {
	runner := &stubRunner{}
	_, gc := newProject(t, map[string]string{
		"src/Counter.java": counterSource,
	}, runner)

	for _, tt := range []struct {
		name  string
		count int
		want  float64
	}{
		{name: "exactly two locals", count: 2, want: 5},
		{name: "three expected but two found", count: 3, want: 0},
		{name: "one expected but two found", count: 1, want: 0},
	} {
		t.Run(tt.name, func(t *testing.T) {
			grader := QueryGrader{
				Requirement: "Local variables",
				OutOf:       5,
				File:        "Counter",
				Queries:     []Query{LocalVariablesQuery()},
				Constraint:  Constraint{Kind: MustMatchExactlyN, Count: tt.count},
				Reason:      "total() should declare exactly the intended locals",
			}

			result, err := grader.Run(context.Background(), gc)
			require.NoError(t, err)
			require.Equal(t, tt.want, result.Grade.Score)
		})
	}
}

func TestQueryGraderChainedFragments(t *testing.T) {
	runner := &stubRunner{}
	_, gc := newProject(t, map[string]string{
		"src/Counter.java": counterSource,
	}, runner)

	grader := QueryGrader{
		Requirement: "Locals inside total",
		OutOf:       5,
		File:        "Counter",
		Queries: []Query{
			MethodBodyWithNameQuery("total"),
			LocalVariablesQuery(),
		},
		Constraint: Constraint{Kind: MustMatchExactlyN, Count: 2},
		Reason:     "total() should declare two locals",
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)
	require.Equal(t, 5.0, result.Grade.Score)
}

func TestQueryGraderChainNamesEmptyStep(t *testing.T) {
	runner := &stubRunner{}
	_, gc := newProject(t, map[string]string{
		"src/Counter.java": counterSource,
	}, runner)
	gc.WithFeedback = true

	grader := QueryGrader{
		Requirement: "Loops inside total",
		OutOf:       5,
		File:        "Counter",
		Queries: []Query{
			MethodBodyWithNameQuery("total"),
			WhileLoopsQuery(),
		},
		Constraint: Constraint{Kind: MustMatchAtLeastOnce},
		Reason:     "total() should loop",
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)
	require.Equal(t, 0.0, result.Grade.Score)

	require.NotNil(t, result.Feedback)
	require.Len(t, result.Feedback.Messages, 1)
	require.Contains(t, result.Feedback.Messages[0].Content, "((while_statement) @while)",
		"the error must name the step that matched nothing, not an earlier one")
}

func TestQueryGraderMissingCaptureIsParseFailure(t *testing.T) {
	runner := &stubRunner{}
	_, gc := newProject(t, map[string]string{
		"src/Counter.java": counterSource,
	}, runner)

	grader := QueryGrader{
		Requirement: "Broken query",
		OutOf:       5,
		File:        "Counter",
		Queries:     []Query{{Query: "((local_variable_declaration) @var)"}},
		Constraint:  Constraint{Kind: MustNotMatch},
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)
	require.Equal(t, 0.0, result.Grade.Score, "a capture-less step never resolves via the constraint")
}

func TestQueryGraderFilterNarrowsCandidates(t *testing.T) {
	runner := &stubRunner{}
	_, gc := newProject(t, map[string]string{
		"src/Counter.java": counterSource,
	}, runner)

	grader := QueryGrader{
		Requirement: "Filtered locals",
		OutOf:       5,
		File:        "Counter",
		Queries: []Query{{
			Query:   "((local_variable_declaration) @var)",
			Capture: "var",
			Filter: func(s string) bool {
				return strings.Contains(s, "a")
			},
		}},
		Constraint: Constraint{Kind: MustMatchExactlyN, Count: 1},
		Reason:     "only one local named a",
	}

	result, err := grader.Run(context.Background(), gc)
	require.NoError(t, err)
	require.Equal(t, 5.0, result.Grade.Score)
}
