package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proplink/internal/harness"
)

var rectScenario = filepath.Join("testdata", "scenarios", "rect.yaml")

func TestRunCommand_Text(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text", Verbose: true})
	out, err := execute(t, cmd, rectScenario)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ rect (1 tick(s))")
	assert.Contains(t, out, "tick 1: 2 record(s)")
	assert.Contains(t, out, "2 r.area float 9")
	assert.Contains(t, out, "r.area = 9")
	assert.Contains(t, out, "r.align = center")
}

func TestRunCommand_JSON(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "json"})
	out, err := execute(t, cmd, rectScenario)
	require.NoError(t, err)

	var result RunResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Pass)
	assert.Equal(t, harness.SessionID("rect"), result.Session)
	require.Len(t, result.Ticks, 1)
	assert.Equal(t, "9", result.Final["r.area"])
}

func TestRunCommand_FailedExpectation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wrong.yaml", `
name: wrong
description: Expects the wrong area
schema: |
  class: Sq: property: {
      side: {kind: "float"}
      area: {kind: "float"}
  }
objects:
  - {name: s, class: Sq}
bindings:
  - {type: square, target: s.area, sources: [s.side]}
steps:
  - {set: s.side, value: 2}
  - expect: {s.area: 5}
`)

	cmd := NewRunCommand(&RootOptions{Format: "text"})
	out, err := execute(t, cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong")
	assert.Contains(t, out, "s.area = 4, expected 5")
}

func TestRunCommand_MissingScenario(t *testing.T) {
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	_, err := execute(t, cmd, "/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load scenario")
}

func TestRunCommand_PersistsAndRerunsIdempotently(t *testing.T) {
	db := filepath.Join(t.TempDir(), "run.db")

	for i := 0; i < 2; i++ {
		cmd := NewRunCommand(&RootOptions{Format: "text"})
		_, err := execute(t, cmd, rectScenario, "--db", db)
		require.NoError(t, err, "run %d", i+1)
	}
}
