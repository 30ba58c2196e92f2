package gitutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/user/wearable-insights-go/internal/models"
)

var (
	// ErrNotInRepository is returned when a path is not inside a git work tree.
	ErrNotInRepository = errors.New("not inside a git repository")
	// ErrUntracked is returned when no commit reachable from HEAD touches the file.
	ErrUntracked = errors.New("file has no commit history")
)

// OpenRepository opens the git repository containing path, searching parent
// directories for the .git directory.
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotInRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}
	return repo, nil
}

// GetHeadCommit retrieves the commit object for the repository's HEAD.
func GetHeadCommit(repo *git.Repository) (*object.Commit, error) {
	headRef, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := repo.CommitObject(headRef.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit object for HEAD (%s): %w", headRef.Hash(), err)
	}
	return commit, nil
}

// GetRepoBranch returns the current branch name, or "<sha> (detached)".
func GetRepoBranch(repo *git.Repository, headCommit *object.Commit) (string, error) {
	headRef, err := repo.Head()
	if err != nil {
		return headCommit.Hash.String() + " (detached - error getting head)", err
	}
	if headRef.Name().IsBranch() {
		return headRef.Name().Short(), nil
	}
	return headCommit.Hash.String() + " (detached)", nil
}

// Contributor formats a commit signature as "Name (email)".
func Contributor(sig object.Signature) string {
	return fmt.Sprintf("%s (%s)", sig.Name, sig.Email)
}

// LastCommitForFile returns the newest commit reachable from head that touched
// relPath (slash-separated, relative to the work tree root).
func LastCommitForFile(repo *git.Repository, head *object.Commit, relPath string) (*object.Commit, error) {
	iter, err := repo.Log(&git.LogOptions{From: head.Hash, FileName: &relPath})
	if err != nil {
		return nil, fmt.Errorf("failed to get log for %s: %w", relPath, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUntracked, relPath)
	}
	return commit, nil
}

// DatasetRevision describes where a dataset file sits in git history.
// It returns ErrNotInRepository or ErrUntracked when there is nothing to report.
func DatasetRevision(path string) (*models.DatasetRevision, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	repo, err := OpenRepository(filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open work tree: %w", err)
	}
	root := wt.Filesystem.Root()

	rel, err := filepath.Rel(resolve(root), resolve(absPath))
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%w: %s is outside %s", ErrNotInRepository, absPath, root)
	}
	rel = filepath.ToSlash(rel)

	head, err := GetHeadCommit(repo)
	if err != nil {
		return nil, err
	}
	last, err := LastCommitForFile(repo, head, rel)
	if err != nil {
		return nil, err
	}

	branch, _ := GetRepoBranch(repo, head)
	return &models.DatasetRevision{
		RepoRoot:     root,
		RelativePath: rel,
		Branch:       branch,
		HeadSHA:      head.Hash.String(),
		LastSHA:      last.Hash.String(),
		LastDate:     last.Committer.When,
		LastAuthor:   Contributor(last.Author),
	}, nil
}

// resolve follows symlinks so paths compare equal to the work tree root
// (macOS temp dirs live behind /var -> /private/var).
func resolve(path string) string {
	if p, err := filepath.EvalSymlinks(path); err == nil {
		return p
	}
	return path
}
