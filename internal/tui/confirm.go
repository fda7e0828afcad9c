package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omarshaarawi/inup/internal/terminal"
	"github.com/omarshaarawi/inup/internal/ui"
)

// PromptOptions configures RunConfirm.
type PromptOptions struct {
	Input  io.Reader
	Output io.Writer
}

type confirmModel struct {
	lines   []string
	handler *ConfirmHandler
	choice  Choice
}

func newConfirmModel(lines []string) *confirmModel {
	m := &confirmModel{lines: lines}
	m.handler = NewConfirmHandler(func(c Choice) { m.choice = c })
	return m
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		m.handler.HandleKey(KeyFromTea(msg))
		if m.choice != ChoiceNone {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *confirmModel) View() string {
	return strings.Join(m.lines, "\n") + "\n"
}

// RunConfirm prints the summary lines and waits for proceed, go back or
// cancel. Ctrl-C yields ChoiceInterrupt together with ErrInterrupted.
func RunConfirm(ctx context.Context, lines []string, opts PromptOptions) (Choice, error) {
	if opts.Input == nil && !terminal.IsInteractive(os.Stdin, os.Stdout) {
		ui.Println("Not an interactive terminal, cannot confirm upgrades")
		return ChoiceCancel, nil
	}

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(newConfirmModel(lines), progOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return ChoiceInterrupt, ErrInterrupted
		}
		if ctx.Err() != nil {
			return ChoiceCancel, ctx.Err()
		}
		return ChoiceCancel, err
	}

	choice := final.(*confirmModel).choice
	if choice == ChoiceInterrupt {
		return choice, ErrInterrupted
	}
	if choice == ChoiceNone {
		choice = ChoiceCancel
	}
	return choice, nil
}
