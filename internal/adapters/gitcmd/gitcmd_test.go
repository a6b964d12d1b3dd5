package gitcmd

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a throwaway git repository with one commit.
func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "--initial-branch=main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("hi\n"), 0644))
	run("add", "README")
	run("commit", "-m", "initial")
	return dir
}

func TestCurrentBranch(t *testing.T) {
	dir := initRepo(t)
	branch, err := NewClient().CurrentBranch(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestCreateAndCheckoutBranchAndCommit(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	client := NewClient()

	require.NoError(t, client.CreateAndCheckoutBranch(ctx, dir, "bump-wget-1.21.4"))

	branch, err := client.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "bump-wget-1.21.4", branch)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "wget.rcp"), []byte("recipe\n"), 0644))
	require.NoError(t, client.Commit(ctx, dir, "wget 1.21.4", "wget.rcp"))

	require.NoError(t, client.Checkout(ctx, dir, "main"))
	branch, err = client.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestRemotes(t *testing.T) {
	dir := initRepo(t)
	ctx := context.Background()
	client := NewClient()

	has, err := client.HasRemote(ctx, dir, "fork")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, client.AddRemote(ctx, dir, "fork", "https://example.com/fork.git"))

	has, err = client.HasRemote(ctx, dir, "fork")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestRunSurfacesStderr(t *testing.T) {
	dir := initRepo(t)
	err := NewClient().Checkout(context.Background(), dir, "no-such-branch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git checkout")
}
