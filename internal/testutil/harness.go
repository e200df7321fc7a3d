// Package testutil provides a shared harness for end-to-end goal tests:
// it materializes an HCL workspace in a temp directory, runs the app
// against it, and captures goal output and log output separately.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/depgridgo/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an end-to-end goal run.
type HarnessResult struct {
	Stdout    string
	LogOutput string
	Err       error
}

// RunGoal materializes the given workspace files under a temp directory,
// runs one goal against it, and returns the captured output. File names
// are workspace-relative; subdirectories are created as needed.
func RunGoal(t *testing.T, files map[string]string, config app.Config) *HarnessResult {
	t.Helper()
	return RunGoalWithContext(context.Background(), t, files, config)
}

// RunGoalWithContext is RunGoal with a caller-provided context.
func RunGoalWithContext(ctx context.Context, t *testing.T, files map[string]string, config app.Config) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	config.WorkspacePath = tmpDir
	if config.LogLevel == "" {
		config.LogLevel = "debug"
	}
	if config.LogFormat == "" {
		config.LogFormat = "text"
	}

	validated, err := app.NewConfig(config)
	require.NoError(t, err, "harness config must validate")

	var stdout bytes.Buffer
	logBuffer := &SafeBuffer{}

	runErr := app.NewApp(&stdout, logBuffer, validated).Run(ctx)

	if os.Getenv("DEPGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		Stdout:    stdout.String(),
		LogOutput: logBuffer.String(),
		Err:       runErr,
	}
}
