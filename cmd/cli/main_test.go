package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// The "--help" flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	err := run(out, errOut, []string{"--help"})

	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, errOut.String(), "Usage:", "Expected help text to be printed")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	err := run(out, errOut, []string{"dependents", "--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_WorkspaceLoadError(t *testing.T) {
	t.Parallel()

	// A workspace file with a syntax error must surface as a load error,
	// not partial output.
	tempDir := t.TempDir()
	invalidHCL := `
		target "a" {
			deps = [
	`
	err := os.WriteFile(filepath.Join(tempDir, "targets.hcl"), []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	runErr := run(out, errOut, []string{"dependents", "-w", tempDir, ":a"})

	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "failed to load workspace")
	require.Empty(t, out.String(), "no goal output on load errors")
}

func TestRun_EndToEndDependents(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	workspaceHCL := `
target "app" {
  deps = [":lib"]
}

target "lib" {
  deps = [":base"]
}

target "base" {}
`
	err := os.WriteFile(filepath.Join(tempDir, "targets.hcl"), []byte(workspaceHCL), 0600)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	runErr := run(out, errOut, []string{"dependents", "-w", tempDir, "--transitive", "//:base"})

	require.NoError(t, runErr)
	require.Equal(t, "//:app\n//:lib\n", out.String())
}
