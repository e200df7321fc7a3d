package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depgridgo/internal/app"
)

func TestParse_DependentsGoal(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := Parse([]string{
		"dependents", "--transitive", "--closed", "--format", "json", "src/backend:server",
	}, &out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, app.GoalDependents, config.Goal)
	assert.Equal(t, []string{"src/backend:server"}, config.Roots)
	assert.True(t, config.Transitive)
	assert.True(t, config.IncludeRoots)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, ".", config.WorkspacePath)
}

func TestParse_PathsGoalSplitsEndpoints(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := Parse([]string{
		"paths", "--from", "src:a, src:b", "--to", "src:z",
	}, &out)

	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, []string{"src:a", "src:b"}, config.From)
	assert.Equal(t, []string{"src:z"}, config.To)
}

func TestParse_WorkspaceShorthand(t *testing.T) {
	var out bytes.Buffer
	config, _, err := Parse([]string{"dependencies", "-w", "/tmp/ws", "src:x"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/ws", config.WorkspacePath)
}

func TestParse_VarOverrides(t *testing.T) {
	var out bytes.Buffer
	config, _, err := Parse([]string{
		"dependents", "--var", "env=prod", "--var", "region=eu", "src:x",
	}, &out)

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"env": "prod", "region": "eu"}, config.Vars)
}

func TestParse_InvalidVarFails(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"dependents", "--var", "justname", "src:x"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_UnknownGoalFails(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"frobnicate"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "frobnicate")
}

func TestParse_InvalidLogFormatFails(t *testing.T) {
	var out bytes.Buffer
	_, _, err := Parse([]string{"dependents", "--log-format", "xml", "src:x"}, &out)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParse_NoArgsPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	config, shouldExit, err := Parse(nil, &out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Nil(t, config)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParse_HelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	_, shouldExit, err := Parse([]string{"--help"}, &out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Goals:")
}
