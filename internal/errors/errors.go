package errors

import (
	"errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType int

const (
	// ErrTypeUnknown 未知错误
	ErrTypeUnknown ErrorType = iota
	// ErrTypeEnvironment 仓库路径不存在或不可访问
	ErrTypeEnvironment
	// ErrTypeGit Git 相关错误（不包括 git 命令的非零退出码）
	ErrTypeGit
	// ErrTypeConfig 配置相关错误
	ErrTypeConfig
	// ErrTypeValidation 验证错误
	ErrTypeValidation
	// ErrTypeTimeout 超时错误
	ErrTypeTimeout
	// ErrTypeInterrupted 用户中断（Ctrl+C 或 SIGTERM）
	ErrTypeInterrupted
)

// String returns the lowercase name of the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeEnvironment:
		return "environment"
	case ErrTypeGit:
		return "git"
	case ErrTypeConfig:
		return "config"
	case ErrTypeValidation:
		return "validation"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// SyncError 统一错误结构
type SyncError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
}

// Error 实现 error 接口
func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 支持 errors.Is 和 errors.As
func (e *SyncError) Unwrap() error {
	return e.Cause
}

// Is matches another *SyncError with the same type and message, so that
// predefined errors can be used as sentinels even after Wrap.
func (e *SyncError) Is(target error) bool {
	t, ok := target.(*SyncError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithSuggestion 添加解决建议
func (e *SyncError) WithSuggestion(suggestion string) *SyncError {
	e.Suggestion = suggestion
	return e
}

// WithCause 返回携带 cause 的副本，预定义错误本身不会被修改
func (e *SyncError) WithCause(cause error) *SyncError {
	c := *e
	c.Cause = cause
	return &c
}

// New 创建新的 SyncError
func New(errType ErrorType, message string) *SyncError {
	return &SyncError{
		Type:    errType,
		Message: message,
	}
}

// Newf 使用格式化消息创建 SyncError
func Newf(errType ErrorType, format string, args ...interface{}) *SyncError {
	return New(errType, fmt.Sprintf(format, args...))
}

// Wrap 包装已有错误
func Wrap(errType ErrorType, message string, cause error) *SyncError {
	return &SyncError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// ExitStatus 请求以指定退出码结束进程，不打印任何错误信息。
// 用于 --propagate-status 把 push 的状态码原样传给调用方。
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// 预定义的常见错误
var (
	ErrRepoNotFound  = New(ErrTypeEnvironment, "repository path does not exist")
	ErrRepoNotDir    = New(ErrTypeEnvironment, "repository path is not a directory")
	ErrRepoAccess    = New(ErrTypeEnvironment, "repository path is not accessible")
	ErrInvalidPolicy = New(ErrTypeValidation, "invalid failure policy")
	ErrEmptyValue    = New(ErrTypeValidation, "value cannot be empty")
	ErrConfigParse   = New(ErrTypeConfig, "failed to parse settings file")
	ErrConfigWrite   = New(ErrTypeConfig, "failed to write settings file")
	ErrConfigExists  = New(ErrTypeConfig, "settings file already exists")
	ErrRemoteMissing = New(ErrTypeConfig, "remote is not configured")
	ErrNoGitRunner   = New(ErrTypeGit, "git runner is required")
	ErrInterrupted   = New(ErrTypeInterrupted, "interrupted")
)

// Is 检查是否为特定错误
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As 尝试转换为特定错误类型
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetType 获取错误类型
func GetType(err error) ErrorType {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Type
	}
	return ErrTypeUnknown
}

// GetSuggestion 获取错误建议
func GetSuggestion(err error) string {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Suggestion
	}
	return ""
}
