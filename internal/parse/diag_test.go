package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompilerDiagnostic(t *testing.T) {
	tests := []struct {
		name         string
		line         string
		wantPath     string
		wantFileName string
		wantLine     int
		wantError    bool
		wantMessage  string
	}{
		{
			name:         "error with relative path",
			line:         "./a/b/C.java:12:error: X",
			wantPath:     "./a/b/C.java",
			wantFileName: "C.java",
			wantLine:     12,
			wantError:    true,
			wantMessage:  "Error: X",
		},
		{
			name:         "warning keeps raw message",
			line:         "src/Main.java:3:warning: missing javadoc comment",
			wantPath:     "./src/Main.java",
			wantFileName: "Main.java",
			wantLine:     3,
			wantError:    false,
			wantMessage:  "missing javadoc comment",
		},
		{
			name:         "backslash separators",
			line:         `src\pkg\Thing.java:44:error: cannot find symbol`,
			wantPath:     "./src/pkg/Thing.java",
			wantFileName: "Thing.java",
			wantLine:     44,
			wantError:    true,
			wantMessage:  "Error: cannot find symbol",
		},
		{
			name:         "bare file name",
			line:         "C.java:2:error: ';' expected",
			wantPath:     "./C.java",
			wantFileName: "C.java",
			wantLine:     2,
			wantError:    true,
			wantMessage:  "Error: ';' expected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompilerDiagnostic(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.wantPath, got.Path)
			require.Equal(t, tt.wantFileName, got.FileName)
			require.Equal(t, tt.wantLine, got.Line)
			require.Equal(t, tt.wantError, got.IsError)
			require.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestCompilerDiagnostic_RejectsProse(t *testing.T) {
	lines := []string{
		"",
		"1 error",
		"        symbol:   method foo()",
		"Note: some notes about deprecation",
		"    int x = 1;",
	}

	for _, line := range lines {
		_, err := CompilerDiagnostic(line)
		require.Error(t, err, "line %q should not parse", line)
	}
}
