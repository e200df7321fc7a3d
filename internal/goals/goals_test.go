package goals

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/graph"
	"github.com/vk/depgridgo/internal/inmemorygraph"
	"github.com/vk/depgridgo/internal/target"
)

// buildManager constructs a snapshot manager from a spec -> dep-specs map.
func buildManager(t *testing.T, edges map[string][]string) *graph.Manager {
	t.Helper()
	ctx := context.Background()
	store := inmemorygraph.New()
	for spec, depSpecs := range edges {
		addr, err := address.Parse(spec)
		require.NoError(t, err)
		tgt := &target.Target{Address: addr}
		for _, d := range depSpecs {
			depAddr, err := address.Parse(d)
			require.NoError(t, err)
			tgt.Deps = append(tgt.Deps, depAddr)
		}
		require.NoError(t, store.AddTarget(ctx, tgt))
	}
	return graph.New(store)
}

// chainManager builds the minimal chain graph: x -> y -> z.
func chainManager(t *testing.T) *graph.Manager {
	t.Helper()
	return buildManager(t, map[string][]string{
		"src:x": {"src:y"},
		"src:y": {"src:z"},
		"src:z": {},
	})
}

func TestDependents_TextTransitive(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:      []string{"src:z"},
		Transitive: true,
		Format:     FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "src:x\nsrc:y\n", out.String())
}

func TestDependents_TextDirectOnly(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:  []string{"src:z"},
		Format: FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "src:y\n", out.String())
}

func TestDependents_TextIncludeRoots(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:        []string{"src:z"},
		Transitive:   true,
		IncludeRoots: true,
		Format:       FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "src:x\nsrc:y\nsrc:z\n", out.String())
}

func TestDependents_JSONPerRootMapping(t *testing.T) {
	m := buildManager(t, map[string][]string{
		"src:app1": {"src:lib"},
		"src:app2": {"src:lib"},
		"src:lib":  {"src:base"},
		"src:base": {},
	})
	var out bytes.Buffer

	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:      []string{"src:lib", "src:base"},
		Transitive: true,
		Format:     FormatJSON,
		Workers:    4,
	}, &out)
	require.NoError(t, err)

	var mapping map[string][]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &mapping))
	assert.Equal(t, map[string][]string{
		"src:lib":  {"src:app1", "src:app2"},
		"src:base": {"src:app1", "src:app2", "src:lib"},
	}, mapping)
}

func TestDependents_EmptyResultIsEmptyOutput(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:      []string{"src:x"},
		Transitive: true,
		Format:     FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestDependents_UnknownRootFails(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:  []string{"src:missing"},
		Format: FormatText,
	}, &out)
	require.Error(t, err)
	assert.Empty(t, out.String(), "no partial output on configuration errors")
}

func TestDependents_UnknownFormatFails(t *testing.T) {
	m := chainManager(t)
	err := Dependents(context.Background(), m, DependentsOptions{
		Roots:  []string{"src:z"},
		Format: "yaml",
	}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestDependencies_Text(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependencies(context.Background(), m, DependenciesOptions{
		Roots:      []string{"src:x"},
		Transitive: true,
		Format:     FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "src:y\nsrc:z\n", out.String())
}

func TestDependencies_DirectOnly(t *testing.T) {
	m := chainManager(t)
	var out bytes.Buffer

	err := Dependencies(context.Background(), m, DependenciesOptions{
		Roots:  []string{"src:x"},
		Format: FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "src:y\n", out.String())
}

func TestDependencies_SkipsDisabledConditionalGroups(t *testing.T) {
	ctx := context.Background()
	store := inmemorygraph.New()

	app := &target.Target{Address: address.New("src", "app")}
	app.Deps = []address.Address{address.New("src", "core")}
	app.Optional = []target.OptionalDeps{
		{Enabled: false, Deps: []address.Address{address.New("src", "extra")}},
	}
	require.NoError(t, store.AddTarget(ctx, app))
	require.NoError(t, store.AddTarget(ctx, &target.Target{Address: address.New("src", "core")}))
	require.NoError(t, store.AddTarget(ctx, &target.Target{Address: address.New("src", "extra")}))

	var out bytes.Buffer
	err := Dependencies(ctx, graph.New(store), DependenciesOptions{
		Roots:      []string{"src:app"},
		Transitive: true,
		Format:     FormatText,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "src:core\n", out.String())
}

func TestPaths_JSONOutput(t *testing.T) {
	m := buildManager(t, map[string][]string{
		"src:a": {"src:b", "src:c"},
		"src:b": {"src:c"},
		"src:c": {},
	})
	var out bytes.Buffer

	err := Paths(context.Background(), m, PathsOptions{
		From: []string{"src:a"},
		To:   []string{"src:c"},
	}, &out)
	require.NoError(t, err)

	var got [][]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, [][]string{
		{"src:a", "src:c"},
		{"src:a", "src:b", "src:c"},
	}, got)
}

func TestPaths_NoPathYieldsEmptyArray(t *testing.T) {
	m := buildManager(t, map[string][]string{
		"src:a": {},
		"src:b": {},
	})
	var out bytes.Buffer

	err := Paths(context.Background(), m, PathsOptions{
		From: []string{"src:a"},
		To:   []string{"src:b"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out.String())
}

func TestPaths_MissingFlagsFailBeforeGraphWork(t *testing.T) {
	m := chainManager(t)

	err := Paths(context.Background(), m, PathsOptions{To: []string{"src:z"}}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")

	err = Paths(context.Background(), m, PathsOptions{From: []string{"src:x"}}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to")
}

func TestPaths_UnknownEndpointFails(t *testing.T) {
	m := chainManager(t)
	err := Paths(context.Background(), m, PathsOptions{
		From: []string{"src:x"},
		To:   []string{"src:missing"},
	}, &bytes.Buffer{})
	assert.Error(t, err)
}
