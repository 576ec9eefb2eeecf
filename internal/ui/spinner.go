package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// elapsedAfter is how long a task runs before the spinner shows a timer.
const elapsedAfter = 2 * time.Second

type taskDone[T any] struct {
	value T
	err   error
}

type spinModel[T any] struct {
	spinner spinner.Model
	label   string
	started time.Time
	now     time.Time
	run     tea.Cmd
	cancel  context.CancelFunc

	done  bool
	value T
	err   error
}

func (m spinModel[T]) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m spinModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.cancel()
			m.err = ErrCancelled
			m.done = true
			return m, tea.Quit
		}
	case spinner.TickMsg:
		m.now = msg.Time
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case taskDone[T]:
		m.value, m.err = msg.value, msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m spinModel[T]) View() string {
	if m.done {
		return ""
	}
	line := fmt.Sprintf("%s %s", m.spinner.View(), textStyle.Render(m.label))
	if elapsed := m.now.Sub(m.started); elapsed >= elapsedAfter {
		line += " " + dimStyle.Render(fmt.Sprintf("%ds", int(elapsed.Seconds())))
	}
	return line
}

// Spin runs task behind a spinner on stderr. Ctrl+C or Esc cancels the
// context handed to task and returns ErrCancelled. Without a terminal the
// task runs directly.
func Spin[T any](ctx context.Context, label string, task func(context.Context) (T, error)) (T, error) {
	if !Interactive() {
		return task(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newSpinModel(label, cancel, func() tea.Msg {
		v, err := task(ctx)
		return taskDone[T]{value: v, err: err}
	})

	var zero T
	final, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return zero, err
	}
	fm, ok := final.(spinModel[T])
	if !ok {
		return zero, fmt.Errorf("unexpected spinner model %T", final)
	}
	return fm.value, fm.err
}

func newSpinModel[T any](label string, cancel context.CancelFunc, run func() tea.Msg) spinModel[T] {
	now := time.Now()
	return spinModel[T]{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		label:   label,
		started: now,
		now:     now,
		run:     run,
		cancel:  cancel,
	}
}
