package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevision(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "stigaview.toml"), []byte("products_path = \"products\"\n"), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("stigaview.toml")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	require.NoError(t, err)

	sub := filepath.Join(dir, "products", "rhel8")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	rev, err := Revision(sub)
	require.NoError(t, err)
	assert.Equal(t, hash.String()[:ShortHashLen], rev)
}

func TestRevisionOutsideRepository(t *testing.T) {
	_, err := Revision(t.TempDir())
	require.ErrorIs(t, err, ErrNoRepository)
}
