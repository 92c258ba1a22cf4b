package git

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// remoteManager Git远程仓库管理器实现
type remoteManager struct {
	runner Runner
	repo   string
}

// NewRemoteManager 创建新的远程仓库管理器，所有查询都针对 repo 目录执行
func NewRemoteManager(runner Runner, repo string) RemoteManager {
	return &remoteManager{
		runner: runner,
		repo:   repo,
	}
}

// output runs a read-only git query and turns a non-zero exit into an error.
func (m *remoteManager) output(ctx context.Context, args ...string) (string, error) {
	res, err := m.runner.Run(ctx, m.repo, args...)
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", fmt.Errorf("git %s exited with status %d: %s",
			strings.Join(args, " "), res.ExitCode, strings.TrimSpace(res.Output))
	}
	return res.Output, nil
}

// GetRemotes 获取所有远程仓库，按名称排序
func (m *remoteManager) GetRemotes(ctx context.Context) ([]Remote, error) {
	output, err := m.output(ctx, "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("failed to get remotes: %w", err)
	}
	return parseRemotes(output), nil
}

// parseRemotes 解析 git remote -v 输出
func parseRemotes(output string) []Remote {
	remotes := make(map[string]*Remote)
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}

		// 格式: origin	https://github.com/owner/repo.git (fetch)
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}

		name := parts[0]
		url := parts[1]
		typeStr := strings.Trim(parts[2], "()")

		if _, exists := remotes[name]; !exists {
			remotes[name] = &Remote{Name: name}
		}

		switch typeStr {
		case "fetch":
			remotes[name].FetchURL = url
		case "push":
			remotes[name].PushURL = url
		}
	}

	result := make([]Remote, 0, len(remotes))
	for _, remote := range remotes {
		result = append(result, *remote)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// SelectRemote 根据优先级选择远程仓库
func (m *remoteManager) SelectRemote(remotes []Remote, preferredName string) (*Remote, error) {
	if len(remotes) == 0 {
		return nil, fmt.Errorf("no remotes configured")
	}

	if preferredName != "" {
		for _, remote := range remotes {
			if remote.Name == preferredName {
				return &remote, nil
			}
		}
		return nil, fmt.Errorf("remote '%s' not found", preferredName)
	}

	// 默认查找origin
	for _, remote := range remotes {
		if remote.Name == "origin" {
			return &remote, nil
		}
	}

	return nil, fmt.Errorf("no 'origin' remote found and no remote specified")
}

// GetCurrentBranch 获取当前分支名
func (m *remoteManager) GetCurrentBranch(ctx context.Context) (string, error) {
	output, err := m.output(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}

	branch := strings.TrimSpace(output)
	if branch == "" {
		return "", fmt.Errorf("not on any branch (detached HEAD)")
	}

	return branch, nil
}
