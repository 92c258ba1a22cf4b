package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MergeMarker is the file git keeps in its metadata directory while a merge
// is unresolved.
const MergeMarker = "MERGE_HEAD"

// GitDir returns the metadata directory for the repository rooted at repo.
// A `.git` file of the form "gitdir: <path>" (linked worktrees, submodules)
// is followed; a missing `.git` yields the conventional path unchanged.
func GitDir(repo string) (string, error) {
	dotGit := filepath.Join(repo, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		if os.IsNotExist(err) {
			return dotGit, nil
		}
		return "", fmt.Errorf("stat %s: %w", dotGit, err)
	}
	if info.IsDir() {
		return dotGit, nil
	}

	data, err := os.ReadFile(dotGit)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", dotGit, err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, "gitdir:") {
		return "", fmt.Errorf("unrecognized .git file at %s", dotGit)
	}
	dir := strings.TrimSpace(strings.TrimPrefix(line, "gitdir:"))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repo, dir)
	}
	return filepath.Clean(dir), nil
}

// MergeInProgress reports whether the merge marker exists. Only existence is
// checked; the file is never read.
func MergeInProgress(repo string) (bool, error) {
	dir, err := GitDir(repo)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(filepath.Join(dir, MergeMarker))
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("check merge marker: %w", err)
	}
}
