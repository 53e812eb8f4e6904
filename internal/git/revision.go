// Package git reads source revision metadata for page footers.
package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// ShortHashLen is the length of abbreviated commit hashes.
const ShortHashLen = 7

// ErrNoRepository is returned when dir is not inside a git working tree.
var ErrNoRepository = errors.New("not a git repository")

// Revision returns the abbreviated HEAD commit hash of the repository that
// contains dir. Parent directories are searched for .git.
func Revision(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNoRepository, dir)
		}
		return "", fmt.Errorf("open repository: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return head.Hash().String()[:ShortHashLen], nil
}
