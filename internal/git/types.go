package git

import "context"

// ExitCodeNotRunnable 表示 git 进程无法启动（例如未安装），沿用 shell 的 127 约定。
const ExitCodeNotRunnable = 127

// Remote Git远程仓库信息
type Remote struct {
	Name     string // 远程仓库名称，如 origin
	FetchURL string // 拉取URL
	PushURL  string // 推送URL
}

// Result 单次 git 调用的结果
type Result struct {
	Args     []string // 传给 git 的参数（不含 -C <repo>）
	ExitCode int      // 进程退出码，0 表示成功
	Output   string   // 合并后的 stdout/stderr
}

// Success reports whether git exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner Git命令执行器接口
//
// 每次调用都显式携带仓库根目录，实现不得修改进程级工作目录。
// 非零退出码不是错误：它通过 Result.ExitCode 返回。
// 只有 context 被取消等无法得到退出码的情况才返回 error。
type Runner interface {
	Run(ctx context.Context, repo string, args ...string) (Result, error)
}

// RemoteManager Git远程仓库管理器
type RemoteManager interface {
	// GetRemotes 获取所有远程仓库
	GetRemotes(ctx context.Context) ([]Remote, error)

	// SelectRemote 根据优先级选择远程仓库
	SelectRemote(remotes []Remote, preferredName string) (*Remote, error)

	// GetCurrentBranch 获取当前分支名
	GetCurrentBranch(ctx context.Context) (string, error)
}
