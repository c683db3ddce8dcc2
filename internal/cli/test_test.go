package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const likeScenario = `name: like_once
description: A single like shows up in the counter and the total
reaction_types:
  - {name: Like, weight: 1}
entity_types:
  - {name: app.User, reacterable: true}
  - {name: blog.Article, reactable: true}
reacters:
  - {label: alice, type: app.User}
reactants:
  - {label: post, type: blog.Article}
steps:
  - {op: react, reacter: alice, reactant: post, type: Like}
assertions:
  - {type: counter, reactant: post, reaction_type: Like, count: 1, weight: 1}
  - {type: total, reactant: post, count: 1, weight: 1}
`

const wrongScenario = `name: wrong_total
description: Asserts a total that the steps never produce
reaction_types:
  - {name: Like, weight: 1}
entity_types:
  - {name: app.User, reacterable: true}
  - {name: blog.Article, reactable: true}
reacters:
  - {label: alice, type: app.User}
reactants:
  - {label: post, type: blog.Article}
steps:
  - {op: react, reacter: alice, reactant: post, type: Like}
assertions:
  - {type: total, reactant: post, count: 5, weight: 5}
`

func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestTestCommand_Pass(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"like_once.yaml": likeScenario})

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ like_once")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_AssertionFailure(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"like_once.yaml":   likeScenario,
		"wrong_total.yaml": wrongScenario,
	})

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_total")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_GoldenRoundTrip(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"like_once.yaml": likeScenario})
	goldenPath := filepath.Join(dir, "golden", "like_once.golden")

	_, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	require.FileExists(t, goldenPath)

	data, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name": "like_once"`)
	assert.Contains(t, string(data), `"outcome": "ok"`)

	// An unchanged scenario matches its golden file.
	_, err = execute(t, "test", dir)
	require.NoError(t, err)

	// A stale golden file fails the scenario.
	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "snapshot does not match")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"like_once.yaml":   likeScenario,
		"wrong_total.yaml": wrongScenario,
	})

	out, err := execute(t, "test", dir, "--filter", "like*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "wrong_total")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"wrong_total.yaml": wrongScenario})

	out, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"broken.yaml": "name: broken\nunknown_field: 1\n"})

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_NoScenarios(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommand_MissingDirectory(t *testing.T) {
	_, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFindScenarioFiles_SkipsGoldenDir(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"a.yaml": likeScenario, "notes.txt": "x"})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "b.yaml"), []byte(likeScenario), 0644))

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml")}, files)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "like_once.golden"),
		goldenFilePath(filepath.Join("scenarios", "like_once.yaml")))
}
