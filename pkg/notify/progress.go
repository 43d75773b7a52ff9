package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	fcolor "github.com/fatih/color"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// ProgressLabels customizes the status text shown for each task state.
type ProgressLabels struct {
	Pending   string
	Running   string
	Completed string
}

// DefaultLabels returns the generic pending/running/completed labels.
func DefaultLabels() ProgressLabels {
	return ProgressLabels{Pending: "pending", Running: "running", Completed: "completed"}
}

// InstallingLabels returns labels for installation tasks.
func InstallingLabels() ProgressLabels {
	return ProgressLabels{Pending: "pending", Running: "installing", Completed: "installed"}
}

// ValidatingLabels returns labels for validation tasks.
func ValidatingLabels() ProgressLabels {
	return ProgressLabels{Pending: "pending", Running: "validating", Completed: "validated"}
}

// ProgressTask is a named unit of work executed by a ProgressGroup.
type ProgressTask struct {
	// Name is the display name (e.g. "kubectl", "argocd").
	Name string
	// Fn does the work. The context is canceled when a sibling task fails.
	Fn func(ctx context.Context) error
}

// ProgressGroup runs tasks in parallel with a live status line per task.
//
// On an interactive terminal each task line is redrawn in place with a
// spinner while running. On non-TTY output (CI, pipes) only state changes
// are printed, one line each, to keep logs readable:
//
//	🧰 Installing tools...
//	► kubectl installing
//	✔ kubectl installed
//	✗ doctl failed
type ProgressGroup struct {
	title  string
	emoji  string
	labels ProgressLabels
	writer io.Writer
	timer  timer.Timer
	isTTY  bool

	mu          sync.Mutex
	states      map[string]taskState
	order       []string
	startOrder  []string
	spinnerIdx  int
	stopSpinner chan struct{}
	spinnerDone chan struct{}
	linesDrawn  int
}

type taskState int

const (
	taskPending taskState = iota
	taskRunning
	taskComplete
	taskFailed
)

const spinnerTickInterval = 100 * time.Millisecond

func spinnerFrames() []string {
	return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
}

// ProgressOption configures a ProgressGroup.
type ProgressOption func(*ProgressGroup)

// WithLabels overrides the task state labels.
func WithLabels(labels ProgressLabels) ProgressOption {
	return func(pg *ProgressGroup) { pg.labels = labels }
}

// WithProgressTimer attaches a timer whose timing block is printed on success.
func WithProgressTimer(tmr timer.Timer) ProgressOption {
	return func(pg *ProgressGroup) { pg.timer = tmr }
}

// NewProgressGroup creates a ProgressGroup writing to the given writer
// (os.Stdout when nil). The emoji prefixes the title line and defaults to ►.
func NewProgressGroup(title, emoji string, writer io.Writer, opts ...ProgressOption) *ProgressGroup {
	if writer == nil {
		writer = os.Stdout
	}

	if emoji == "" {
		emoji = "►"
	}

	isTTY := false
	if file, ok := writer.(*os.File); ok {
		isTTY = term.IsTerminal(int(file.Fd()))
	}

	group := &ProgressGroup{
		title:       title,
		emoji:       emoji,
		labels:      DefaultLabels(),
		writer:      writer,
		isTTY:       isTTY,
		states:      make(map[string]taskState),
		stopSpinner: make(chan struct{}),
		spinnerDone: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(group)
	}

	return group
}

// Run executes all tasks in parallel and blocks until they finish.
// It returns the first task error, if any.
func (pg *ProgressGroup) Run(ctx context.Context, tasks ...ProgressTask) error {
	if len(tasks) == 0 {
		return nil
	}

	for _, task := range tasks {
		pg.states[task.Name] = taskPending
		pg.order = append(pg.order, task.Name)
	}

	if pg.timer != nil {
		pg.timer.NewStage()
	}

	_, _ = fmt.Fprintf(pg.writer, "%s %s...\n", pg.emoji, pg.title)

	if pg.isTTY {
		return pg.runInteractive(ctx, tasks)
	}

	return pg.runPlain(ctx, tasks)
}

func (pg *ProgressGroup) runInteractive(ctx context.Context, tasks []ProgressTask) error {
	pg.drawInitialLines()

	go pg.animateSpinner()

	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		group.Go(func() error {
			pg.setState(task.Name, taskRunning)

			err := task.Fn(groupCtx)
			if err != nil {
				pg.setState(task.Name, taskFailed)

				return fmt.Errorf("%s: %w", task.Name, err)
			}

			pg.setState(task.Name, taskComplete)

			return nil
		})
	}

	err := group.Wait()

	close(pg.stopSpinner)
	<-pg.spinnerDone

	pg.redrawLines()

	if err != nil {
		return fmt.Errorf("parallel execution: %w", err)
	}

	if pg.timer != nil {
		pg.printTiming()
	}

	return nil
}

// runPlain prints one line per state change, suitable for CI logs.
func (pg *ProgressGroup) runPlain(ctx context.Context, tasks []ProgressTask) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, task := range tasks {
		group.Go(func() error {
			pg.mu.Lock()
			pg.states[task.Name] = taskRunning
			_, _ = fmt.Fprintf(pg.writer, "► %s %s\n", task.Name, pg.labels.Running)
			pg.mu.Unlock()

			err := task.Fn(groupCtx)

			pg.mu.Lock()

			if err != nil {
				pg.states[task.Name] = taskFailed
				_, _ = fcolor.New(fcolor.FgRed).Fprintf(pg.writer, "✗ %s failed\n", task.Name)
			} else {
				pg.states[task.Name] = taskComplete
				_, _ = fcolor.New(fcolor.FgGreen).
					Fprintf(pg.writer, "✔ %s %s\n", task.Name, pg.labels.Completed)
			}

			pg.mu.Unlock()

			if err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return fmt.Errorf("parallel execution: %w", err)
	}

	if pg.timer != nil {
		pg.printTiming()
	}

	return nil
}

func (pg *ProgressGroup) printTiming() {
	total, stage := pg.timer.GetTiming()
	successColor := fcolor.New(fcolor.FgGreen)
	_, _ = successColor.Fprintf(pg.writer, "⏲ current: %s\n", stage.String())
	_, _ = successColor.Fprintf(pg.writer, "  total:  %s\n", total.String())
}

func (pg *ProgressGroup) setState(name string, state taskState) {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if state == taskRunning && pg.states[name] == taskPending {
		pg.startOrder = append(pg.startOrder, name)
	}

	pg.states[name] = state
}

func (pg *ProgressGroup) animateSpinner() {
	defer close(pg.spinnerDone)

	ticker := time.NewTicker(spinnerTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pg.stopSpinner:
			return
		case <-ticker.C:
			pg.mu.Lock()
			pg.spinnerIdx = (pg.spinnerIdx + 1) % len(spinnerFrames())
			pg.mu.Unlock()
			pg.redrawLines()
		}
	}
}

func (pg *ProgressGroup) drawInitialLines() {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	for _, name := range pg.order {
		_, _ = fmt.Fprintln(pg.writer, pg.formatLine(name, pg.states[name]))
	}

	pg.linesDrawn = len(pg.order)
}

// redrawLines repositions the cursor and repaints every task line. Running
// tasks are shown first in start order, pending tasks last.
func (pg *ProgressGroup) redrawLines() {
	pg.mu.Lock()
	defer pg.mu.Unlock()

	if pg.linesDrawn == 0 {
		return
	}

	_, _ = fmt.Fprintf(pg.writer, "\033[%dA", pg.linesDrawn)

	for _, name := range pg.displayOrder() {
		_, _ = fmt.Fprint(pg.writer, "\033[K")
		_, _ = fmt.Fprintln(pg.writer, pg.formatLine(name, pg.states[name]))
	}
}

// displayOrder must be called with the mutex held.
func (pg *ProgressGroup) displayOrder() []string {
	started := make(map[string]bool, len(pg.startOrder))
	for _, name := range pg.startOrder {
		started[name] = true
	}

	result := make([]string, 0, len(pg.order))
	result = append(result, pg.startOrder...)

	for _, name := range pg.order {
		if !started[name] {
			result = append(result, name)
		}
	}

	return result
}

func (pg *ProgressGroup) formatLine(name string, state taskState) string {
	switch state {
	case taskPending:
		return fcolor.New(fcolor.FgHiBlack).Sprintf("○ %s %s", name, pg.labels.Pending)
	case taskRunning:
		frame := spinnerFrames()[pg.spinnerIdx]

		return fcolor.New(fcolor.FgCyan).Sprintf("%s %s %s", frame, name, pg.labels.Running)
	case taskComplete:
		return fcolor.New(fcolor.FgGreen).Sprintf("✔ %s %s", name, pg.labels.Completed)
	case taskFailed:
		return fcolor.New(fcolor.FgRed).Sprintf("✗ %s failed", name)
	default:
		return fmt.Sprintf("? %s unknown", name)
	}
}
