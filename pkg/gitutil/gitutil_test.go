package gitutil

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// createTestRepo initialises a git repository in a temp dir with a fixed identity.
func createTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()

	gitRun(t, repoPath, "init")
	gitRun(t, repoPath, "config", "user.name", "Test User")
	gitRun(t, repoPath, "config", "user.email", "test@example.com")
	gitRun(t, repoPath, "config", "commit.gpgsign", "false")
	return repoPath
}

func gitRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

func commitFile(t *testing.T, repoPath, rel, content, message string) string {
	t.Helper()
	full := filepath.Join(repoPath, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	gitRun(t, repoPath, "add", rel)
	gitRun(t, repoPath, "commit", "-m", message)
	return gitRun(t, repoPath, "rev-parse", "HEAD")
}

func TestOpenRepository(t *testing.T) {
	repoPath := createTestRepo(t)

	repo, err := OpenRepository(repoPath)
	if err != nil {
		t.Fatalf("OpenRepository() error = %v", err)
	}
	if repo == nil {
		t.Fatalf("OpenRepository() repo is nil")
	}

	// DetectDotGit walks up from nested directories.
	nested := filepath.Join(repoPath, "data", "raw")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if _, err := OpenRepository(nested); err != nil {
		t.Errorf("OpenRepository(nested) error = %v", err)
	}
}

func TestGetHeadCommit(t *testing.T) {
	repoPath := createTestRepo(t)
	hash := commitFile(t, repoPath, "test.txt", "initial", "Initial commit")

	repo, err := OpenRepository(repoPath)
	if err != nil {
		t.Fatalf("OpenRepository() error = %v", err)
	}
	commit, err := GetHeadCommit(repo)
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}
	if commit.Hash.String() != hash {
		t.Errorf("GetHeadCommit() hash = %s, want %s", commit.Hash, hash)
	}
	if strings.TrimSpace(commit.Message) != "Initial commit" {
		t.Errorf("GetHeadCommit() message = %q, want %q", commit.Message, "Initial commit")
	}
}

func TestGetRepoBranch(t *testing.T) {
	repoPath := createTestRepo(t)
	commitFile(t, repoPath, "test.txt", "initial", "Initial commit")
	gitRun(t, repoPath, "checkout", "-b", "survey-2024")

	repo, _ := OpenRepository(repoPath)
	head, err := GetHeadCommit(repo)
	if err != nil {
		t.Fatalf("GetHeadCommit() error = %v", err)
	}
	branch, err := GetRepoBranch(repo, head)
	if err != nil {
		t.Fatalf("GetRepoBranch() error = %v", err)
	}
	if branch != "survey-2024" {
		t.Errorf("GetRepoBranch() = %s, want survey-2024", branch)
	}

	gitRun(t, repoPath, "checkout", "--detach")
	repo, _ = OpenRepository(repoPath)
	branch, _ = GetRepoBranch(repo, head)
	if !strings.HasSuffix(branch, "(detached)") {
		t.Errorf("GetRepoBranch() detached = %s, want (detached) suffix", branch)
	}
}

func TestDatasetRevision(t *testing.T) {
	repoPath := createTestRepo(t)
	first := commitFile(t, repoPath, "data/survey.csv", "Age\n18-24\n", "Add survey")
	head := commitFile(t, repoPath, "README.md", "notes", "Add readme")

	rev, err := DatasetRevision(filepath.Join(repoPath, "data", "survey.csv"))
	if err != nil {
		t.Fatalf("DatasetRevision() error = %v", err)
	}
	if rev.RelativePath != "data/survey.csv" {
		t.Errorf("RelativePath = %s, want data/survey.csv", rev.RelativePath)
	}
	if rev.HeadSHA != head {
		t.Errorf("HeadSHA = %s, want %s", rev.HeadSHA, head)
	}
	if rev.LastSHA != first {
		t.Errorf("LastSHA = %s, want %s (the commit that touched the file)", rev.LastSHA, first)
	}
	if rev.LastAuthor != "Test User (test@example.com)" {
		t.Errorf("LastAuthor = %s", rev.LastAuthor)
	}
	if rev.LastDate.IsZero() {
		t.Errorf("LastDate is zero")
	}
	if rev.Branch == "" {
		t.Errorf("Branch is empty")
	}
}

func TestDatasetRevisionUntracked(t *testing.T) {
	repoPath := createTestRepo(t)
	commitFile(t, repoPath, "README.md", "notes", "Add readme")

	path := filepath.Join(repoPath, "scratch.csv")
	if err := os.WriteFile(path, []byte("Age\n"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	_, err := DatasetRevision(path)
	if !errors.Is(err, ErrUntracked) {
		t.Errorf("DatasetRevision() error = %v, want ErrUntracked", err)
	}
}

func TestDatasetRevisionOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenRepository(dir); err != nil {
		// Only meaningful when the temp dir is not itself inside a checkout.
		path := filepath.Join(dir, "survey.csv")
		if err := os.WriteFile(path, []byte("Age\n"), 0644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		_, err := DatasetRevision(path)
		if !errors.Is(err, ErrNotInRepository) {
			t.Errorf("DatasetRevision() error = %v, want ErrNotInRepository", err)
		}
		return
	}
	t.Skip("temp dir is inside a git checkout")
}
