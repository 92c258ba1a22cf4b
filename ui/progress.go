package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/penwyp/syncpush/internal/workflow"
)

// RunFunc 执行工作流，并把进度发给 reporter
type RunFunc func(ctx context.Context, reporter workflow.Reporter) (workflow.Result, error)

type lineState int

const (
	lineRunning lineState = iota
	lineOK
	lineFailed
	lineInfo
	lineResult // push 结果，消息里已带状态码
)

type progressLine struct {
	text     string
	state    lineState
	exitCode int
}

// ProgressModel 在工作流执行期间展示 Spinner 和每个步骤的结果
//
// 工作流在后台 goroutine 中运行，事件通过无缓冲 channel 逐个送达，
// 结束消息走单独的 channel，保证在所有事件之后处理。
type ProgressModel struct {
	spinner spinner.Model
	styles  UIStyles

	ctx    context.Context
	cancel context.CancelFunc
	run    RunFunc

	events chan workflow.Event
	finish chan doneMsg

	lines  []progressLine
	result workflow.Result
	err    error
	done   bool
}

// NewProgressModel 创建进度视图，ctx 被取消或按下 ctrl+c 时中止工作流
func NewProgressModel(ctx context.Context, run RunFunc) *ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Line

	ctx, cancel := context.WithCancel(ctx)
	return &ProgressModel{
		spinner: sp,
		styles:  DefaultStyles(),
		ctx:     ctx,
		cancel:  cancel,
		run:     run,
		events:  make(chan workflow.Event),
		finish:  make(chan doneMsg, 1),
	}
}

// Init 启动工作流
func (m *ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(), m.wait())
}

// Update 处理消息
func (m *ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case eventMsg:
		m.apply(workflow.Event(msg))
		return m, m.wait()
	case doneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		m.cancel()
		return m, tea.Quit
	}
	return m, nil
}

func (m *ProgressModel) apply(e workflow.Event) {
	switch e.Kind {
	case workflow.EventStepStarted:
		m.lines = append(m.lines, progressLine{text: e.Message, state: lineRunning})
	case workflow.EventStepFinished:
		if n := len(m.lines); n > 0 && m.lines[n-1].state == lineRunning {
			m.lines[n-1].exitCode = e.ExitCode
			m.lines[n-1].state = lineOK
			if e.ExitCode != 0 {
				m.lines[n-1].state = lineFailed
			}
		}
		if e.Message != "" {
			m.lines = append(m.lines, progressLine{text: e.Message, state: lineInfo})
		}
	case workflow.EventHalted:
		m.lines = append(m.lines, progressLine{text: e.Message, state: lineFailed, exitCode: e.ExitCode})
	case workflow.EventResult:
		m.lines = append(m.lines, progressLine{text: e.Message, state: lineResult, exitCode: e.ExitCode})
	}
}

// View 渲染所有步骤
func (m *ProgressModel) View() string {
	var sb strings.Builder
	for _, l := range m.lines {
		switch l.state {
		case lineRunning:
			if m.done {
				sb.WriteString(RenderStatusLine("-", l.text, m.styles.Muted))
			} else {
				sb.WriteString(m.spinner.View() + " " + m.styles.Progress.Render(l.text))
			}
		case lineOK:
			sb.WriteString(RenderStatusLine("✓", l.text, m.styles.Success))
		case lineFailed:
			sb.WriteString(RenderStatusLine("✗", fmt.Sprintf("%s (status %d)", l.text, l.exitCode), m.styles.Error))
		case lineResult:
			sb.WriteString(RenderExitStatus(l.text, l.exitCode, m.styles))
		default:
			sb.WriteString(RenderStatusLine(" ", l.text, m.styles.Muted))
		}
		sb.WriteString("\n")
	}
	if len(m.lines) == 0 && !m.done {
		sb.WriteString(m.spinner.View() + " " + m.styles.Progress.Render("Starting...") + "\n")
	}
	return sb.String()
}

// IsDone 返回工作流结果
func (m *ProgressModel) IsDone() (workflow.Result, error) {
	return m.result, m.err
}

// Lines 返回已展示的进度文字，便于测试
func (m *ProgressModel) Lines() []string {
	out := make([]string, 0, len(m.lines))
	for _, l := range m.lines {
		out = append(out, l.text)
	}
	return out
}

// ---------------- tea.Msg 定义 ----------------

type eventMsg workflow.Event

type doneMsg struct {
	result workflow.Result
	err    error
}

// ---------------- Cmd 实现 --------------------

func (m *ProgressModel) start() tea.Cmd {
	return func() tea.Msg {
		res, err := m.run(m.ctx, workflow.NewChanReporter(m.ctx, m.events))
		m.finish <- doneMsg{result: res, err: err}
		return nil
	}
}

func (m *ProgressModel) wait() tea.Cmd {
	events, finish := m.events, m.finish
	return func() tea.Msg {
		select {
		case e := <-events:
			return eventMsg(e)
		case d := <-finish:
			return d
		}
	}
}
