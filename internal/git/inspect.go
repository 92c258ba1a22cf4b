package git

import (
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// RepoStatus is a read-only snapshot of a repository used by the status command.
type RepoStatus struct {
	Root            string
	Branch          string // 当前分支，detached 时为空
	Head            string // HEAD 短哈希，未提交时为空
	Detached        bool
	Unborn          bool // 分支还没有任何提交
	MergeInProgress bool
	Remotes         []Remote
}

// Inspect opens the repository containing path with go-git and collects its
// HEAD, remotes and merge state. It never runs the git binary.
func Inspect(path string) (*RepoStatus, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not a git repository: %w", path, err)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	status := &RepoStatus{Root: path}
	if wt, err := repo.Worktree(); err == nil {
		status.Root = wt.Filesystem.Root()
	}

	head, err := repo.Head()
	switch {
	case err == nil:
		status.Head = head.Hash().String()[:7]
		if head.Name().IsBranch() {
			status.Branch = head.Name().Short()
		} else {
			status.Detached = true
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// HEAD 指向尚无提交的分支
		ref, refErr := repo.Reference(plumbing.HEAD, false)
		if refErr != nil {
			return nil, fmt.Errorf("read HEAD: %w", refErr)
		}
		status.Unborn = true
		if ref.Type() == plumbing.SymbolicReference {
			status.Branch = ref.Target().Short()
		}
	default:
		return nil, fmt.Errorf("read HEAD: %w", err)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("list remotes: %w", err)
	}
	for _, r := range remotes {
		cfg := r.Config()
		remote := Remote{Name: cfg.Name}
		if len(cfg.URLs) > 0 {
			remote.FetchURL = cfg.URLs[0]
			remote.PushURL = cfg.URLs[len(cfg.URLs)-1]
		}
		status.Remotes = append(status.Remotes, remote)
	}
	sort.Slice(status.Remotes, func(i, j int) bool {
		return status.Remotes[i].Name < status.Remotes[j].Name
	})

	inProgress, err := MergeInProgress(status.Root)
	if err != nil {
		return nil, err
	}
	status.MergeInProgress = inProgress

	return status, nil
}
