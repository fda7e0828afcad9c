package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/omarshaarawi/inup/internal/terminal"
	"github.com/omarshaarawi/inup/internal/ui"
)

// ErrInterrupted is returned when the user pressed Ctrl-C. The terminal has
// already been restored; callers are expected to exit immediately.
var ErrInterrupted = errors.New("interrupted")

// Outcome says how a session ended.
type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeCancelled
	// OutcomeUnavailable means no interactive terminal could be acquired and
	// the states were returned untouched.
	OutcomeUnavailable
)

// FetchFunc loads detail metadata for a package. A nil result means nothing
// is available; it must not block forever.
type FetchFunc func(ctx context.Context, name string) *Metadata

// SessionOptions configures Run.
type SessionOptions struct {
	States []*PackageState
	// Previous seeds selections, keyed by MemoryKey.
	Previous map[string]Option
	// Label describes which dependency kinds are in view, if filtered.
	Label string
	Flat  bool
	// Chrome overrides DefaultChrome when positive.
	Chrome int
	Fetch  FetchFunc

	// Input and Output default to the process terminal. When Input is set
	// the interactive-terminal check is skipped.
	Input  io.Reader
	Output io.Writer
	Width  int
	Height int

	// WarningDuration is how long transient warnings stay up.
	WarningDuration time.Duration
}

const defaultWarningDuration = 1500 * time.Millisecond

type metadataMsg struct {
	index    int
	metadata *Metadata
}

type clearWarningMsg struct {
	seq int
}

type sessionModel struct {
	ctx     context.Context
	manager *Manager
	input   *InputHandler
	fetch   FetchFunc
	label   string

	warning    string
	warningSeq int
	warnFor    time.Duration

	outcome     Outcome
	done        bool
	interrupted bool

	pending []tea.Cmd
}

func newSessionModel(ctx context.Context, manager *Manager, opts SessionOptions) *sessionModel {
	m := &sessionModel{
		ctx:     ctx,
		manager: manager,
		fetch:   opts.Fetch,
		label:   opts.Label,
		warnFor: opts.WarningDuration,
	}
	if m.warnFor <= 0 {
		m.warnFor = defaultWarningDuration
	}
	m.input = NewInputHandler(manager, Callbacks{
		Dispatch: m.dispatch,
		Confirm: func([]*PackageState) {
			m.outcome = OutcomeConfirmed
			m.done = true
		},
		Cancel: func() {
			m.outcome = OutcomeCancelled
			m.done = true
		},
		Warn: func(msg string) {
			m.warning = msg
			m.warningSeq++
			seq := m.warningSeq
			m.pending = append(m.pending, tea.Tick(m.warnFor, func(time.Time) tea.Msg {
				return clearWarningMsg{seq: seq}
			}))
		},
		Interrupt: func() {
			m.interrupted = true
			m.done = true
		},
	})
	return m
}

func (m *sessionModel) Init() tea.Cmd {
	if m.manager.TakeFullRedraw() {
		return tea.ClearScreen
	}
	return nil
}

func (m *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.warning = ""
		m.input.HandleKey(KeyFromTea(msg))

	case tea.WindowSizeMsg:
		m.input.HandleResize(msg.Width, msg.Height)

	case metadataMsg:
		// The row may no longer be on screen; writing its metadata anyway is
		// harmless and saves a refetch.
		if msg.metadata != nil && msg.index >= 0 && msg.index < len(m.manager.States()) {
			m.manager.States()[msg.index].Metadata = msg.metadata
		}
		m.manager.FinishModalLoading(msg.index)

	case clearWarningMsg:
		if msg.seq == m.warningSeq {
			m.warning = ""
		}
	}

	if m.done {
		m.pending = nil
		return m, tea.Quit
	}

	cmds := m.pending
	m.pending = nil
	if m.manager.TakeFullRedraw() {
		cmds = append([]tea.Cmd{tea.ClearScreen}, cmds...)
	}
	return m, tea.Batch(cmds...)
}

func (m *sessionModel) dispatch(a Action) {
	mgr := m.manager
	switch a.Kind {
	case ActionNavigateUp:
		mgr.Navigate(DirectionUp)
	case ActionNavigateDown:
		mgr.Navigate(DirectionDown)
	case ActionSelectLeft:
		mgr.UpdateSelection(mgr.Cursor(), DirectionLeft)
	case ActionSelectRight:
		mgr.UpdateSelection(mgr.Cursor(), DirectionRight)
	case ActionBulkSelectRangeEligible:
		mgr.BulkSelectRangeEligible()
	case ActionBulkSelectBest:
		mgr.BulkSelectBestAvailable()
	case ActionBulkClearAll:
		mgr.BulkClearAll()
	case ActionToggleDetailModal:
		if mgr.ToggleModal() && mgr.ModalLoading() {
			m.pending = append(m.pending, m.fetchMetadata(mgr.ModalIndex()))
		}
	case ActionViewportResized:
		if a.Width > 0 {
			mgr.SetWidth(a.Width)
		}
		if a.Height > 0 {
			mgr.UpdateViewportHeight(a.Height)
		}
	}
}

func (m *sessionModel) fetchMetadata(idx int) tea.Cmd {
	name := m.manager.States()[idx].Name
	fetch := m.fetch
	ctx := m.ctx
	return func() tea.Msg {
		if fetch == nil {
			return metadataMsg{index: idx}
		}
		return metadataMsg{index: idx, metadata: fetch(ctx, name)}
	}
}

func (m *sessionModel) View() string {
	if m.done {
		return ""
	}
	return strings.Join(m.lines(), "\n")
}

func (m *sessionModel) lines() []string {
	mgr := m.manager
	width, height := mgr.Width(), mgr.Height()
	if width <= 0 {
		width = terminal.DefaultWidth
	}
	if mgr.ModalOpen() {
		s := mgr.States()[mgr.ModalIndex()]
		if mgr.ModalLoading() {
			return RenderLoadingModal(s.Name, width, height)
		}
		return RenderModal(s, width, height)
	}
	f := mgr.Frame()
	f.Label = m.label
	f.Warning = m.warning
	return RenderFrame(f)
}

// Run shows the selection list and blocks until the user confirms, cancels
// or interrupts. A cancelled session returns every state with OptionNone.
// When the terminal cannot be put into raw mode the states are returned
// unmodified with OutcomeUnavailable.
func Run(ctx context.Context, opts SessionOptions) ([]*PackageState, Outcome, error) {
	states := opts.States
	if len(states) == 0 {
		return states, OutcomeCancelled, nil
	}

	if opts.Input == nil && !terminal.IsInteractive(os.Stdin, os.Stdout) {
		ui.Println("Not an interactive terminal, skipping package selection")
		return states, OutcomeUnavailable, nil
	}

	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		w, h := terminal.Size(os.Stdout)
		if width <= 0 {
			width = w
		}
		if height <= 0 {
			height = h
		}
	}

	// Seeded choices are undone when the program fails to start.
	saved := make([]Option, len(states))
	for i, s := range states {
		saved[i] = s.SelectedOption
	}
	ApplyMemory(states, opts.Previous)

	// Metadata fetches still in flight when the session ends are abandoned.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	manager := NewManager(states, ManagerOptions{
		Flat:   opts.Flat,
		Height: height,
		Width:  width,
		Chrome: opts.Chrome,
	})
	model := newSessionModel(ctx, manager, opts)

	progOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}

	final, err := tea.NewProgram(model, progOpts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return nil, OutcomeCancelled, ErrInterrupted
		}
		if ctx.Err() != nil {
			return nil, OutcomeCancelled, ctx.Err()
		}
		ui.Print("Could not start interactive selection (%v), leaving dependencies unchanged\n", err)
		for i, s := range states {
			s.SelectedOption = saved[i]
		}
		return states, OutcomeUnavailable, nil
	}

	result := final.(*sessionModel)
	if result.interrupted {
		return nil, OutcomeCancelled, ErrInterrupted
	}
	return states, result.outcome, nil
}
