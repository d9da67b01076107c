package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindeal/repokeeper/pkg/config"
)

func TestRefreshRemovesDeadSymlinks(t *testing.T) {
	fs := newTestRepo(t)
	require.NoError(t, fs.Symlink("../../Workflows/gone/workflow.yml", testRoot+"/.github/workflows/gone.yml"))
	addWorkflowFile(t, fs, "kept.yml", "name: \"kept\"\n")

	refresher := NewRefresher(fs, config.Default(), testRoot)
	result, err := refresher.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"gone.yml"}, result.RemovedDead)
	assert.False(t, fs.Exists(testRoot+"/.github/workflows/gone.yml"))
	// regular files are never touched by the dead-link pass
	assert.True(t, fs.Exists(testRoot+"/.github/workflows/kept.yml"))
}

func TestRefreshCreatesMissingSymlinks(t *testing.T) {
	fs := newTestRepo(t)
	require.NoError(t, fs.MkdirAll(testRoot+"/Workflows/a/b", 0755))
	require.NoError(t, fs.WriteFile(testRoot+"/Workflows/a/b/workflow.yml", []byte("name: x\n"), 0644))

	refresher := NewRefresher(fs, config.Default(), testRoot)
	result, err := refresher.Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"a--b.yml"}, result.Created)
	target, err := fs.Readlink(testRoot + "/.github/workflows/a--b.yml")
	require.NoError(t, err)
	assert.Equal(t, "../../Workflows/a/b/workflow.yml", target)
}

func TestRefreshLeavesExistingLinksAlone(t *testing.T) {
	fs := newTestRepo(t)
	require.NoError(t, fs.MkdirAll(testRoot+"/Workflows/a/b", 0755))
	require.NoError(t, fs.WriteFile(testRoot+"/Workflows/a/b/workflow.yml", []byte("name: x\n"), 0644))
	require.NoError(t, fs.Symlink("../../Workflows/a/b/workflow.yml", testRoot+"/.github/workflows/a--b.yml"))

	refresher := NewRefresher(fs, config.Default(), testRoot)
	result, err := refresher.Run()
	require.NoError(t, err)

	assert.Empty(t, result.RemovedDead)
	assert.Empty(t, result.Created)
}

func TestRefreshDryRun(t *testing.T) {
	fs := newTestRepo(t)
	require.NoError(t, fs.Symlink("../../Workflows/gone/workflow.yml", testRoot+"/.github/workflows/gone.yml"))
	require.NoError(t, fs.MkdirAll(testRoot+"/Workflows/a/b", 0755))
	require.NoError(t, fs.WriteFile(testRoot+"/Workflows/a/b/workflow.yml", []byte("name: x\n"), 0644))

	cfg := config.Default()
	cfg.DryRun.SetAll(true)
	refresher := NewRefresher(fs, cfg, testRoot)
	result, err := refresher.Run()
	require.NoError(t, err)

	// planned but not executed
	assert.Equal(t, []string{"gone.yml"}, result.RemovedDead)
	assert.Equal(t, []string{"a--b.yml"}, result.Created)
	assert.True(t, fs.Exists(testRoot+"/.github/workflows/gone.yml"))
	assert.False(t, fs.Exists(testRoot+"/.github/workflows/a--b.yml"))
}
