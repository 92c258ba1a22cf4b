package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UIColors 定义统一的颜色主题
type UIColors struct {
	Gray   lipgloss.Color
	Blue   lipgloss.Color
	Green  lipgloss.Color
	Yellow lipgloss.Color
	Red    lipgloss.Color
	White  lipgloss.Color
}

// DefaultColors 返回默认的颜色主题
func DefaultColors() UIColors {
	return UIColors{
		Gray:   lipgloss.Color("245"),
		Blue:   lipgloss.Color("39"),
		Green:  lipgloss.Color("42"),
		Yellow: lipgloss.Color("220"),
		Red:    lipgloss.Color("196"),
		White:  lipgloss.Color("255"),
	}
}

// UIStyles 定义统一的样式
type UIStyles struct {
	Colors   UIColors
	Title    lipgloss.Style
	Key      lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Progress lipgloss.Style
}

// DefaultStyles 返回默认的样式集
func DefaultStyles() UIStyles {
	colors := DefaultColors()
	return UIStyles{
		Colors:   colors,
		Title:    lipgloss.NewStyle().Foreground(colors.White).Bold(true),
		Key:      lipgloss.NewStyle().Foreground(colors.Blue),
		Value:    lipgloss.NewStyle().Foreground(colors.White),
		Muted:    lipgloss.NewStyle().Foreground(colors.Gray),
		Success:  lipgloss.NewStyle().Foreground(colors.Green),
		Warning:  lipgloss.NewStyle().Foreground(colors.Yellow),
		Error:    lipgloss.NewStyle().Foreground(colors.Red),
		Progress: lipgloss.NewStyle().Foreground(colors.Yellow),
	}
}

// RenderStatusLine 渲染状态行
func RenderStatusLine(icon, text string, style lipgloss.Style) string {
	return icon + " " + style.Render(text)
}

// KeyValue 是 RenderKeyValues 的一行
type KeyValue struct {
	Key   string
	Value string
}

// RenderKeyValues 渲染对齐的 key: value 列表
func RenderKeyValues(pairs []KeyValue, styles UIStyles) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p.Key); w > width {
			width = w
		}
	}

	var sb strings.Builder
	for _, p := range pairs {
		key := fmt.Sprintf("%-*s", width+1, p.Key+":")
		value := p.Value
		if value == "" {
			value = styles.Muted.Render("-")
		} else {
			value = styles.Value.Render(value)
		}
		sb.WriteString(styles.Key.Render(key) + " " + value + "\n")
	}
	return sb.String()
}

// RenderExitStatus 按退出码着色
func RenderExitStatus(text string, code int, styles UIStyles) string {
	if code == 0 {
		return RenderStatusLine("✓", text, styles.Success)
	}
	return RenderStatusLine("✗", text, styles.Error)
}
