package parse

import (
	"fmt"
	"strconv"
	"strings"

	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

// Sentinel values used when a mutation row's examined descriptor does not
// name a concrete test.
const (
	noTestFile   = "NA"
	noTestMethod = "None"
)

// MutationRow parses one comma-delimited row of a mutation-testing report:
//
//	file,sourceFile,mutatorClass,sourceMethod,line,result,examined
//
// The mutator column keeps only the suffix after its last namespace segment.
// The examined column is a "/"-separated descriptor with up to three parts;
// fewer than three parts means no single test examined the mutation and the
// NA/None sentinels are used instead of failing the row.
func MutationRow(line string) (m.MutationDiagnostic, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 6 {
		return m.MutationDiagnostic{}, fmt.Errorf("mutation row has %d fields, want at least 6: %q", len(fields), line)
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	lineNo, err := strconv.Atoi(fields[4])
	if err != nil {
		return m.MutationDiagnostic{}, fmt.Errorf("bad line number in mutation row %q: %w", line, err)
	}

	examined := ""
	if len(fields) >= 7 {
		examined = fields[6]
	}

	testFile, testMethod := splitExamined(examined)

	return m.MutationDiagnostic{
		Mutator:        shortMutator(fields[2]),
		SourceMethod:   fields[3],
		Line:           lineNo,
		TestMethod:     testMethod,
		Result:         fields[5],
		SourceFileName: fields[1],
		TestFileName:   testFile,
	}, nil
}

// shortMutator drops the mutator's namespace, keeping the final segment.
func shortMutator(mutator string) string {
	if i := strings.LastIndex(mutator, "."); i >= 0 {
		return mutator[i+1:]
	}

	return mutator
}

// splitExamined decodes the bracketed examined descriptor. A full descriptor
// looks like "[engine:x]/[runner:SomeTest]/[test:someMethod()]"; the middle
// part names the test's declaring type and the last part names the method.
// Older report formats use "[class:" and "[method:" prefixes instead.
func splitExamined(examined string) (testFile, testMethod string) {
	testFile = noTestFile
	testMethod = noTestMethod

	parts := strings.Split(examined, "/")
	if len(parts) < 3 {
		return testFile, testMethod
	}

	rawClass := parts[1]

	classPrefix := "[class:"
	if strings.Contains(rawClass, "[runner:") {
		classPrefix = "[runner:"
	}

	if _, rhs, ok := strings.Cut(rawClass, classPrefix); ok {
		testFile = strings.ReplaceAll(rhs, "]", "")
	} else {
		testFile = rawClass
	}

	rawMethod := parts[2]

	methodPrefix := "[method:"
	if strings.Contains(rawMethod, "[test:") {
		methodPrefix = "[test:"
	}

	if _, rhs, ok := strings.Cut(rawMethod, methodPrefix); ok {
		testMethod = strings.ReplaceAll(rhs, "()]", "")
	} else {
		testMethod = rawMethod
	}

	return testFile, testMethod
}
