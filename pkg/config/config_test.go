package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Workflows", cfg.Workflows.SourceDir)
	assert.Equal(t, ".github/workflows", cfg.Workflows.DestDir)
	assert.Equal(t, "workflow.yml", cfg.Workflows.LinkName)
	assert.Equal(t, "--", cfg.Workflows.Separator)
	assert.Equal(t, ".yml", cfg.Workflows.Extension)
	assert.True(t, cfg.Patch.InsertMissing)
	assert.False(t, cfg.DryRun.Rename)
	assert.False(t, cfg.DryRun.Relink)
	assert.False(t, cfg.DryRun.Edit)
	assert.False(t, cfg.DryRun.Sweep)
	assert.Equal(t, "dev-fork", cfg.Forks.Topic)
	assert.Equal(t, "[DEV-FORK]", cfg.Forks.DescriptionTag)
}

func TestLoadWithRootConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[workflows]
source_dir = "Flows"

[dryrun]
sweep = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "repokeeper.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	// overridden values
	assert.Equal(t, "Flows", cfg.Workflows.SourceDir)
	assert.True(t, cfg.DryRun.Sweep)
	// defaults shine through
	assert.Equal(t, ".github/workflows", cfg.Workflows.DestDir)
	assert.False(t, cfg.DryRun.Rename)
}

func TestLoadHiddenConfigTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".repokeeper.toml"),
		[]byte("[workflows]\nsource_dir = \"Hidden\"\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "repokeeper.toml"),
		[]byte("[workflows]\nsource_dir = \"Visible\"\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Hidden", cfg.Workflows.SourceDir)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REPOKEEPER_DRYRUN_SWEEP", "true")
	t.Setenv("REPOKEEPER_PATCH_INSERT_MISSING", "false")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.DryRun.Sweep)
	assert.False(t, cfg.Patch.InsertMissing)
}

func TestDryRunSetAll(t *testing.T) {
	var d DryRun
	d.SetAll(true)
	assert.True(t, d.Rename)
	assert.True(t, d.Relink)
	assert.True(t, d.Edit)
	assert.True(t, d.Sweep)
}
