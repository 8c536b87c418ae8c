package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"github.com/quantmind-br/modclean/internal/domain"
)

// RealClient implements Client using go-git
type RealClient struct{}

// NewClient creates a new RealClient
func NewClient() *RealClient {
	return &RealClient{}
}

// FileStatus reports whether path belongs to a git worktree, is tracked in
// its index and differs from HEAD. A path outside any repository is not an
// error.
func (c *RealClient) FileStatus(path string) (domain.FileStatus, error) {
	abs, err := resolve(path)
	if err != nil {
		return domain.FileStatus{}, err
	}

	repo, err := git.PlainOpenWithOptions(filepath.Dir(abs), &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return domain.FileStatus{}, nil
	}
	if err != nil {
		return domain.FileStatus{}, fmt.Errorf("failed to open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return domain.FileStatus{}, nil
	}
	if err != nil {
		return domain.FileStatus{}, fmt.Errorf("failed to open worktree: %w", err)
	}

	root, err := resolve(wt.Filesystem.Root())
	if err != nil {
		return domain.FileStatus{}, err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return domain.FileStatus{}, fmt.Errorf("failed to resolve %s in worktree: %w", path, err)
	}
	rel = filepath.ToSlash(rel)

	st := domain.FileStatus{InRepo: true}

	idx, err := repo.Storer.Index()
	if err != nil {
		return domain.FileStatus{}, fmt.Errorf("failed to read index: %w", err)
	}
	if _, err := idx.Entry(rel); err == nil {
		st.Tracked = true
	} else if !errors.Is(err, index.ErrEntryNotFound) {
		return domain.FileStatus{}, fmt.Errorf("failed to read index: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return domain.FileStatus{}, fmt.Errorf("failed to read worktree status: %w", err)
	}
	if fs, ok := status[rel]; ok {
		st.Modified = changed(fs.Worktree) || changed(fs.Staging)
	}

	return st, nil
}

func changed(code git.StatusCode) bool {
	return code != git.Unmodified && code != git.Untracked
}

// resolve returns the absolute path of p with symlinks evaluated where possible
func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}
