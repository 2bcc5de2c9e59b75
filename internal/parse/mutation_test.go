package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutationRow(t *testing.T) {
	tests := []struct {
		name           string
		line           string
		wantMutator    string
		wantMethod     string
		wantLine       int
		wantResult     string
		wantSourceFile string
		wantTestFile   string
		wantTestMethod string
	}{
		{
			name:           "killed with full examined descriptor",
			line:           "Arrays.java,Arrays,org.pitest.mutationtest.engine.gregor.mutators.MathMutator,getAverage,17,KILLED,[engine:junit-jupiter]/[runner:ArraysTest]/[test:testGetAverage()]",
			wantMutator:    "MathMutator",
			wantMethod:     "getAverage",
			wantLine:       17,
			wantResult:     "KILLED",
			wantSourceFile: "Arrays",
			wantTestFile:   "ArraysTest",
			wantTestMethod: "testGetAverage",
		},
		{
			name:           "class and method prefixes",
			line:           "Bank.java,Bank,org.pitest.mutationtest.engine.gregor.mutators.ConditionalsBoundaryMutator,withdraw,30,KILLED,[engine:junit]/[class:BankTest]/[method:testWithdraw()]",
			wantMutator:    "ConditionalsBoundaryMutator",
			wantMethod:     "withdraw",
			wantLine:       30,
			wantResult:     "KILLED",
			wantSourceFile: "Bank",
			wantTestFile:   "BankTest",
			wantTestMethod: "testWithdraw",
		},
		{
			name:           "survived with no examining test",
			line:           "Arrays.java,Arrays,org.pitest.mutationtest.engine.gregor.mutators.EmptyObjectReturnValsMutator,toString,25,SURVIVED,none",
			wantMutator:    "EmptyObjectReturnValsMutator",
			wantMethod:     "toString",
			wantLine:       25,
			wantResult:     "SURVIVED",
			wantSourceFile: "Arrays",
			wantTestFile:   "NA",
			wantTestMethod: "None",
		},
		{
			name:           "no examined column at all",
			line:           "Arrays.java,Arrays,org.pitest.mutationtest.engine.gregor.mutators.NullReturnValsMutator,clone,40,NO_COVERAGE",
			wantMutator:    "NullReturnValsMutator",
			wantMethod:     "clone",
			wantLine:       40,
			wantResult:     "NO_COVERAGE",
			wantSourceFile: "Arrays",
			wantTestFile:   "NA",
			wantTestMethod: "None",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MutationRow(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.wantMutator, got.Mutator)
			require.Equal(t, tt.wantMethod, got.SourceMethod)
			require.Equal(t, tt.wantLine, got.Line)
			require.Equal(t, tt.wantResult, got.Result)
			require.Equal(t, tt.wantSourceFile, got.SourceFileName)
			require.Equal(t, tt.wantTestFile, got.TestFileName)
			require.Equal(t, tt.wantTestMethod, got.TestMethod)
		})
	}
}

func TestMutationRow_Malformed(t *testing.T) {
	lines := []string{
		"",
		"just,three,fields",
		"A.java,A,Mutator,method,not-a-number,KILLED,none",
	}

	for _, line := range lines {
		_, err := MutationRow(line)
		require.Error(t, err, "line %q should not parse", line)
	}
}
