package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/penwyp/syncpush/cmd"
	syncerrors "github.com/penwyp/syncpush/internal/errors"
)

// main 为 CLI 入口，调用 cmd.Execute。
func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	// --propagate-status 只需要退出码，不打印错误
	var status *syncerrors.ExitStatus
	if !errors.As(err, &status) {
		fmt.Fprint(os.Stderr, syncerrors.NewErrorHandler().Format(err))
	}
	os.Exit(syncerrors.ExitCodeFor(err))
}
