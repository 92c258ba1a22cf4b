package errors

import (
	"errors"
	"strings"

	"github.com/fatih/color"
)

// ErrorHandler 错误处理器，负责把错误渲染成用户友好的输出
type ErrorHandler struct {
	// Debug 为 true 时附带完整的错误链
	Debug bool
}

// NewErrorHandler 创建新的错误处理器
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Format 格式化错误信息为用户友好的输出
func (h *ErrorHandler) Format(err error) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder

	message := err.Error()
	var syncErr *SyncError
	if errors.As(err, &syncErr) && !h.Debug {
		message = syncErr.Message
		if syncErr.Cause != nil {
			message += ": " + rootCause(syncErr.Cause).Error()
		}
	}

	// 错误消息（红色）
	sb.WriteString(color.RedString("Error: %s\n", message))

	// 建议（如果有）
	if suggestion := GetSuggestion(err); suggestion != "" {
		sb.WriteString(color.YellowString("Hint: %s\n", suggestion))
	}

	return sb.String()
}

// FormatHint 渲染 git 失败后的提示行
func (h *ErrorHandler) FormatHint(hint string) string {
	if hint == "" {
		return ""
	}
	return color.YellowString("Hint: %s\n", hint)
}

// FormatError 格式化错误输出（纯文本，无颜色）
func FormatError(err error) string {
	var syncErr *SyncError
	if !errors.As(err, &syncErr) {
		return err.Error()
	}

	msg := syncErr.Error()
	if syncErr.Suggestion != "" {
		msg += "\n💡 " + syncErr.Suggestion
	}
	return msg
}

// rootCause 返回错误链最底层的错误
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
