package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/omarshaarawi/inup/internal/terminal"
)

type spinnerResult[T any] struct {
	value T
	err   error
}

type spinnerModel[T any] struct {
	spinner  spinner.Model
	message  string
	total    int
	progress int
	done     bool
	result   spinnerResult[T]
}

func newSpinnerModel[T any](message string, total int) spinnerModel[T] {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return spinnerModel[T]{
		spinner: s,
		message: message,
		total:   total,
	}
}

func (m spinnerModel[T]) Init() tea.Cmd {
	return m.spinner.Tick
}

type progressMsg int

func (m spinnerModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.result.err = ErrCancelled
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		m.progress = int(msg)
		return m, nil

	case spinnerResult[T]:
		m.done = true
		m.result = msg
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m spinnerModel[T]) View() string {
	if m.done {
		return ""
	}

	if m.total > 0 {
		return fmt.Sprintf("\n %s %s (%d/%d)\n",
			m.spinner.View(),
			m.message,
			m.progress,
			m.total,
		)
	}

	return fmt.Sprintf("\n %s %s\n", m.spinner.View(), m.message)
}

// ErrCancelled is returned when the user pressed Ctrl-C during a spinner.
var ErrCancelled = fmt.Errorf("cancelled by user")

// SpinnerTask is a unit of work reported through a spinner. Run may send
// the number of completed steps on progress; it must not close it.
type SpinnerTask[T any] struct {
	Message string
	Total   int
	Run     func(progress chan<- int) (T, error)
}

// RunWithSpinner runs task behind an animated spinner. Without a terminal,
// or in quiet mode, the task runs directly.
func RunWithSpinner[T any](task SpinnerTask[T]) (T, error) {
	if IsQuiet() || !terminal.IsInteractive(os.Stdin, os.Stdout) {
		return runPlain(task)
	}

	m := newSpinnerModel[T](task.Message, task.Total)
	p := tea.NewProgram(m)

	progressCh := make(chan int, task.Total+1)

	go func() {
		for progress := range progressCh {
			p.Send(progressMsg(progress))
		}
	}()

	go func() {
		result, err := task.Run(progressCh)
		close(progressCh)
		p.Send(spinnerResult[T]{value: result, err: err})
	}()

	finalModel, err := p.Run()
	if err != nil {
		var zero T
		return zero, err
	}

	final := finalModel.(spinnerModel[T])
	return final.result.value, final.result.err
}

func runPlain[T any](task SpinnerTask[T]) (T, error) {
	progressCh := make(chan int, task.Total+1)
	done := make(chan struct{})
	go func() {
		for range progressCh {
		}
		close(done)
	}()

	Debug("%s", task.Message)
	result, err := task.Run(progressCh)
	close(progressCh)
	<-done
	return result, err
}
