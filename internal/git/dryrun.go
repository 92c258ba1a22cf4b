package git

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DryRunRunner records the git invocations it would run and reports success
// for each of them. Nothing is executed.
type DryRunRunner struct {
	logger *zap.Logger

	mu    sync.Mutex
	calls [][]string
}

// NewDryRunRunner returns a Runner that performs no git operations.
func NewDryRunRunner(logger *zap.Logger) *DryRunRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunRunner{logger: logger}
}

// Run logs the command and returns exit code 0.
func (r *DryRunRunner) Run(ctx context.Context, repo string, args ...string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Args: args}, err
	}

	r.mu.Lock()
	r.calls = append(r.calls, append([]string(nil), args...))
	r.mu.Unlock()

	r.logger.Info("[dry-run] git -C " + repo + " " + strings.Join(args, " "))
	return Result{Args: args}, nil
}

// Calls returns a copy of the recorded invocations in order.
func (r *DryRunRunner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}
