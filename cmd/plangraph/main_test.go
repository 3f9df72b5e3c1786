package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/tmp/pg.yaml", configPath([]string{"--config", "/tmp/pg.yaml", "move", "A", "--days", "3"}))
	assert.Equal(t, "/tmp/pg.yaml", configPath([]string{"show", "--table", "--config=/tmp/pg.yaml"}))

	t.Setenv("PLANGRAPH_CONFIG", "/etc/plangraph.yaml")
	assert.Equal(t, "/etc/plangraph.yaml", configPath([]string{"show", "-h"}))
}

func TestRun_ImportThenShow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PLANGRAPH_DB", filepath.Join(dir, "plan.db"))
	t.Setenv("PLANGRAPH_METRICS_TEXTFILE", filepath.Join(dir, "plangraph.prom"))

	snap := filepath.Join(dir, "snap.json")
	require.NoError(t, os.WriteFile(snap, []byte(`{"issues": [{"id": "A", "start_date": "2024-01-01", "due_date": "2024-01-03"}]}`), 0o644))

	cfg := filepath.Join(dir, "missing.yaml")
	require.NoError(t, run([]string{"--config", cfg, "import", snap}))
	require.NoError(t, run([]string{"--config", cfg, "move", "A", "--days", "2"}))

	prom, err := os.ReadFile(filepath.Join(dir, "plangraph.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "plangraph_")
}
