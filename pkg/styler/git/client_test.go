//go:build !gogit

package git_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aclev/cljstyle/pkg/styler/git"
)

func gitOrSkip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.clj"), []byte("(ns tracked)\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stable.clj"), []byte("(ns stable)\n"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func TestChangedFilesDiffOnly(t *testing.T) {
	gitOrSkip(t)
	dir := initRepo(t)
	client := git.NewClient(nil)

	files, err := client.ChangedFiles(dir, "diffOnly", "")
	require.NoError(t, err)
	assert.Empty(t, files, "clean worktree has no changes")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "tracked.clj"), []byte("(ns tracked) ;; edited\n"), 0644))

	files, err = client.ChangedFiles(dir, "diffOnly", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"tracked.clj"}, files)
}

func TestChangedFilesSince(t *testing.T) {
	gitOrSkip(t)
	dir := initRepo(t)
	runGit(t, dir, "tag", "base")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "added.clj"), []byte("(ns added)\n"), 0644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-q", "-m", "add file")

	client := git.NewClient(nil)
	files, err := client.ChangedFiles(dir, "since", "base")
	require.NoError(t, err)
	assert.Equal(t, []string{"added.clj"}, files)
}

func TestChangedFilesSinceRequiresRef(t *testing.T) {
	gitOrSkip(t)
	client := git.NewClient(nil)

	_, err := client.ChangedFiles(t.TempDir(), "since", "")
	assert.ErrorIs(t, err, git.ErrGitOperation)
}

func TestChangedFilesUnsupportedMode(t *testing.T) {
	gitOrSkip(t)
	client := git.NewClient(nil)

	_, err := client.ChangedFiles(t.TempDir(), "everything", "")
	assert.ErrorIs(t, err, git.ErrGitOperation)
}

func TestChangedFilesNotARepo(t *testing.T) {
	gitOrSkip(t)
	client := git.NewClient(nil)

	_, err := client.ChangedFiles(t.TempDir(), "diffOnly", "")
	assert.ErrorIs(t, err, git.ErrGitOperation)
}
