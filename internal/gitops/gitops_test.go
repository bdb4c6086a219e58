package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tally.yaml"), []byte("log_level: info\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scratch.txt"), []byte("x"), 0o644))

	author := Author{Name: "Test Author", Email: "test@example.com"}
	hash, err := Commit(dir, "init: tally project", author, "tally.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	out, err := run(dir, nil, "log", "--format=%s|%an <%ae>|%cn", "-1")
	require.NoError(t, err)
	assert.Equal(t, "init: tally project|Test Author <test@example.com>|Test Author", out)

	files, err := run(dir, nil, "ls-files")
	require.NoError(t, err)
	assert.Equal(t, "tally.yaml", files, "only the named paths are committed")
}

func TestCommitOutsideRepo(t *testing.T) {
	requireGit(t)
	_, err := Commit(t.TempDir(), "nothing", Author{Name: "A", Email: "a@example.com"})
	assert.Error(t, err)
}
