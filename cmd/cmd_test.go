package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "umm", configBaseName)
	assert.Equal(t, "umm.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "root", rootFlagName)
	assert.Equal(t, "config", gradeConfigFlagName)
	assert.Equal(t, "project.root", rootConfigKey)
	assert.Equal(t, "grade.config", gradeConfigConfigKey)
	assert.Equal(t, "grade.feedback", feedbackConfigKey)
	assert.Equal(t, "grading.yaml", defaultGradeConfig)
	assert.Equal(t, "UMM", envPrefix)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "INFO", slog.LevelInfo},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestVersionCmdOutput(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	assert.Contains(t, output, "umm version")

	if strings.Contains(output, "version: unknown") {
		return
	}

	assert.Contains(t, output, "go version")
}

func TestRootCmdHelpOutput(t *testing.T) {
	cmd := baseRootCmd()
	output := &bytes.Buffer{}
	cmd.SetOut(output)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, output.String(), "Usage:")
	assert.Contains(t, output.String(), "autograder")
}

// execute runs the wired root command against a throwaway submission,
// keeping logs inside the temp dir.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(append(args,
		"--root", dir,
		"--log-file", filepath.Join(dir, "umm.log"),
	))

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

type passRunner struct{}

func (passRunner) Run(_ context.Context, _ process.Spec) (process.Collected, error) {
	return process.Collected{ExitCode: 0}, nil
}

func withStubRunner(t *testing.T) {
	t.Helper()

	original := toolRunner
	toolRunner = passRunner{}
	t.Cleanup(func() { toolRunner = original })
}

func writeSubmission(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Counter.java"), []byte(`public class Counter {
    public int total() {
        int a = 1;
        int b = 2;
        return a + b;
    }
}
`), 0o644))

	return dir
}

func TestInfoCmdPrintsProjectSummary(t *testing.T) {
	withStubRunner(t)
	dir := writeSubmission(t)

	output, err := execute(t, dir, "info")
	require.NoError(t, err)

	assert.Contains(t, output, `"proper_name": "Counter"`)
	assert.Contains(t, output, `"kind": "class"`)
}

func TestGradeCmdRunsConfiguredGraders(t *testing.T) {
	withStubRunner(t)
	dir := writeSubmission(t)

	config := filepath.Join(dir, "grading.yaml")
	require.NoError(t, os.WriteFile(config, []byte(`
- type: query
  requirement: "Uses two locals"
  out_of: 5
  file: Counter
  queries:
    - query: "((local_variable_declaration) @var)"
      capture: var
  constraint:
    kind: exactly
    count: 2
  reason: "total() should declare two locals"
`), 0o644))

	output, err := execute(t, dir, "grade", "--config", config)
	require.NoError(t, err)

	assert.Contains(t, output, "Uses two locals")
	assert.Contains(t, output, "5.00/5.00")
	assert.Contains(t, output, "Total: 5.00/5.00")
}

func TestCleanCmdRemovesGeneratedDirs(t *testing.T) {
	withStubRunner(t)
	dir := writeSubmission(t)

	for _, sub := range []string{"target", "lib", ".umm"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}

	_, err := execute(t, dir, "clean")
	require.NoError(t, err)

	for _, sub := range []string{"target", "lib", ".umm"} {
		_, statErr := os.Stat(filepath.Join(dir, sub))
		assert.True(t, os.IsNotExist(statErr), "%s should be removed", sub)
	}
}
