package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(context.Background(), append([]string{"servable"}, args...))
	return out.String(), err
}

func useBackend(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SERVABLE_BASE_DIR", dir)
	t.Setenv("SERVABLE_BACKEND", backend)
	return dir
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, float64(3), parseValue("3"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, map[string]any{"a": []any{float64(1)}}, parseValue(`{"a":[1]}`))
	assert.Equal(t, "hello world", parseValue("hello world"))
}

// set, get, list, dump and delete against both file backends
func TestPrefsCommands(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			dir := useBackend(t, backend)

			_, err := run(t, "prefs", "set", "volume", "0.5")
			require.NoError(t, err)
			_, err = run(t, "prefs", "set", "name", "ada")
			require.NoError(t, err)

			out, err := run(t, "prefs", "get", "volume")
			require.NoError(t, err)
			assert.Equal(t, "0.5\n", out)

			out, err = run(t, "prefs", "get", "name")
			require.NoError(t, err)
			assert.Equal(t, "\"ada\"\n", out)

			out, err = run(t, "prefs", "list")
			require.NoError(t, err)
			assert.Contains(t, out, "KEY", "tablewriter upper-cases headers")
			assert.Contains(t, out, "volume")
			assert.Contains(t, out, `"ada"`)

			report := filepath.Join(dir, "report.md")
			_, err = run(t, "prefs", "dump", "--out", report)
			require.NoError(t, err)
			data, err := os.ReadFile(report)
			require.NoError(t, err)
			assert.Contains(t, string(data), "- backend: "+backend)
			assert.Contains(t, string(data), "- keys: 2")
			assert.Contains(t, string(data), "| name | `\"ada\"` |")

			_, err = run(t, "prefs", "delete", "name")
			require.NoError(t, err)
			_, err = run(t, "prefs", "get", "name")
			assert.ErrorContains(t, err, `key "name" not found`)
		})
	}
}

func TestPrefsArgumentErrors(t *testing.T) {
	useBackend(t, "json")
	_, err := run(t, "prefs", "get")
	assert.ErrorContains(t, err, "expects 1 argument")
	_, err = run(t, "prefs", "set", "only-key")
	assert.ErrorContains(t, err, "expects 2 argument")
}

func TestConfigFileFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "servable.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("backend: sqlite\nbase_dir: "+dir+"\n"), 0o644))

	_, err := run(t, "--config", cfg, "prefs", "set", "k", "[1,2]")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "prefs.db"))

	out, err := run(t, "--config", cfg, "prefs", "get", "k")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]\n", out)

	_, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "prefs", "list")
	assert.Error(t, err)
}

// the demo binds, persists the best score and leaves no listeners behind
func TestDemo(t *testing.T) {
	useBackend(t, "json")

	out, err := run(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "best score loaded: 0")
	assert.Contains(t, out, "hud: shown")
	assert.Contains(t, out, "hud: bonus 50")
	assert.Contains(t, out, "hud: score 90")
	assert.Contains(t, out, "hud: reset")
	assert.Contains(t, out, "hud: hidden")
	assert.Contains(t, out, "hud: destroyed")
	assert.Contains(t, out, "best score saved: 90")
	assert.Contains(t, out, "listeners left: 0")
	assert.Contains(t, out, "servable_events_total")
	assert.Equal(t, 1, strings.Count(out, "hud: destroyed"))

	out, err = run(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "best score loaded: 90")
}
