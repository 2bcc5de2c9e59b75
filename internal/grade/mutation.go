package grade

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
	"github.com/DhruvDh/umm-next-sub000/internal/parse"
	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

// survivedMutationPenalty is deducted per mutation no test detected.
const survivedMutationPenalty = 4.0

// MutationGrader evaluates student-written tests by mutating the code under
// test with PIT and counting mutations the tests fail to kill.
type MutationGrader struct {
	Requirement string
	OutOf       float64
	// TargetTests are fully qualified test classes to run.
	TargetTests []string
	// TargetClasses are the classes subject to mutation.
	TargetClasses []string
	// ExcludedMethods are left unmutated.
	ExcludedMethods []string
	// AvoidCallsTo suppresses mutations in code calling these classes.
	AvoidCallsTo []string
}

// Run invokes the mutation tool and scores out_of minus a fixed penalty per
// surviving mutation, floored at zero. A non-zero tool exit (commonly:
// tests must pass before mutation) scores zero without reading any report.
func (g MutationGrader) Run(ctx context.Context, gc *Context) (m.GradeResult, error) {
	args, err := g.mutationArgs(gc)
	if err != nil {
		return m.GradeResult{}, err
	}

	collected, err := gc.Runner.Run(ctx, process.Spec{
		Program: "java",
		Args:    args,
		Dir:     gc.Project.Paths().Root,
		Stdin:   process.StdinNull,
	})
	if err != nil {
		return m.GradeResult{}, fmt.Errorf("failed to execute mutation coverage report: %w", err)
	}

	if !collected.Success() {
		fmt.Fprintln(gc.out(), collected.Output)

		return m.GradeResult{
			Requirement: g.Requirement,
			Grade:       m.NewGrade(0, g.OutOf),
			Reason:      "Something went wrong while running mutation tests, skipping.",
			Feedback:    failureFeedback(gc, collected.Output, nil),
		}, nil
	}

	surviving, err := g.survivingMutations(gc)
	if err != nil {
		return m.GradeResult{}, err
	}

	penalty := float64(len(surviving)) * survivedMutationPenalty

	var feedback *m.FeedbackContext

	if len(surviving) > 0 {
		g.printSurvivors(gc, surviving)

		refs := make([]m.LineRef, 0, len(surviving))

		var body strings.Builder
		for _, diag := range surviving {
			refs = append(refs, diag.Ref())
			fmt.Fprintf(&body, "%s mutation in %s#%s (line %d) survived %s\n",
				diag.Mutator, diag.SourceFileName, diag.SourceMethod, diag.Line, diag.TestMethod)
		}

		feedback = failureFeedback(gc, body.String(), refs)
	}

	return m.GradeResult{
		Requirement: g.Requirement,
		Grade:       m.NewGrade(g.OutOf-penalty, g.OutOf),
		Reason:      fmt.Sprintf("-%.0f Penalty due to surviving mutations", penalty),
		Feedback:    feedback,
	}, nil
}

// mutationArgs assembles the PIT command line: fixed STRONGER mutator set,
// CSV output in the report directory, no timestamped subdirectories.
func (g MutationGrader) mutationArgs(gc *Context) ([]string, error) {
	paths := gc.Project.Paths()

	cp, err := java.Classpath(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to construct classpath for mutation grader: %w", err)
	}

	sourceDirs := strings.Join([]string{paths.Source, paths.Root}, ",")

	return []string{
		"--class-path", cp,
		"org.pitest.mutationtest.commandline.MutationCoverageReport",
		"--reportDir", paths.Report,
		"--failWhenNoMutations", "true",
		"--threads", "6",
		"--targetClasses", strings.Join(g.TargetClasses, ","),
		"--targetTests", strings.Join(g.TargetTests, ","),
		"--sourceDirs", sourceDirs,
		"--timestampedReports", "false",
		"--outputFormats", "HTML,CSV",
		"--mutators", "STRONGER",
		"--excludedMethods", strings.Join(g.ExcludedMethods, ","),
		"--avoidCallsTo", strings.Join(g.AvoidCallsTo, ","),
	}, nil
}

// survivingMutations reads the CSV report and keeps SURVIVED rows. An
// unreadable or unparseable report is an infrastructure failure.
func (g MutationGrader) survivingMutations(gc *Context) ([]m.MutationDiagnostic, error) {
	csvPath := filepath.Join(gc.Project.Paths().Report, "mutations.csv")

	contents, err := os.ReadFile(csvPath)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", csvPath, err)
	}

	var surviving []m.MutationDiagnostic

	for i, line := range strings.Split(strings.TrimRight(string(contents), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		diag, err := parse.MutationRow(line)
		if err != nil {
			return nil, fmt.Errorf("while parsing %s (line %d): %w", csvPath, i+1, err)
		}

		if diag.Result == "SURVIVED" {
			surviving = append(surviving, diag)
		}
	}

	return surviving, nil
}

func (g MutationGrader) printSurvivors(gc *Context, surviving []m.MutationDiagnostic) {
	table := tablewriter.NewWriter(gc.out())
	table.SetHeader([]string{"Mutator", "Source", "Method", "Line", "Examined By"})
	table.SetCaption(true, fmt.Sprintf(
		"Ran mutation tests for %s", strings.Join(g.TargetTests, ", "),
	))

	for _, diag := range surviving {
		table.Append([]string{
			diag.Mutator,
			diag.SourceFileName,
			diag.SourceMethod,
			fmt.Sprintf("%d", diag.Line),
			fmt.Sprintf("%s#%s", diag.TestFileName, diag.TestMethod),
		})
	}

	table.Render()
}
