package workflow

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// EventKind 进度事件类型
type EventKind int

const (
	EventStepStarted EventKind = iota
	EventStepFinished
	EventHalted
	EventResult
)

// Event 描述工作流中的一次进度变化
//
// Message 为空的事件只供 TUI 之类的消费者使用，不会被 LineReporter 输出。
type Event struct {
	Kind     EventKind
	Step     Step
	Message  string
	ExitCode int
}

// Reporter receives progress events in the order they happen.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Event)

// Report implements Reporter.
func (f ReporterFunc) Report(e Event) { f(e) }

// LineReporter writes each event message as one line.
type LineReporter struct {
	w io.Writer
}

// NewLineReporter returns a Reporter writing to w.
func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

// Report implements Reporter.
func (r *LineReporter) Report(e Event) {
	if e.Message == "" {
		return
	}
	_, _ = fmt.Fprintln(r.w, e.Message)
}

// MultiReporter fans every event out to all reporters.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(e Event) {
	for _, r := range m {
		if r != nil {
			r.Report(e)
		}
	}
}

// NewLogReporter 以 Debug 级别记录每个事件，供 --debug 和 --log-file 排查
func NewLogReporter(log *zap.Logger) Reporter {
	if log == nil {
		return nopReporter{}
	}
	return ReporterFunc(func(e Event) {
		log.Debug("Workflow event",
			zap.String("step", string(e.Step)),
			zap.Int("kind", int(e.Kind)),
			zap.Int("exit_code", e.ExitCode))
	})
}

// ChanReporter forwards events to a channel until ctx is done.
type ChanReporter struct {
	ctx context.Context
	ch  chan<- Event
}

// NewChanReporter returns a Reporter sending to ch. Sends are abandoned once
// ctx is done so a vanished consumer cannot block the workflow.
func NewChanReporter(ctx context.Context, ch chan<- Event) *ChanReporter {
	return &ChanReporter{ctx: ctx, ch: ch}
}

// Report implements Reporter.
func (r *ChanReporter) Report(e Event) {
	select {
	case r.ch <- e:
	case <-r.ctx.Done():
	}
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}
