package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/omarshaarawi/inup/internal/ui"
)

func newTestSession(states []*PackageState, fetch FetchFunc) *sessionModel {
	m := NewManager(states, ManagerOptions{Height: 24, Width: 80})
	return newSessionModel(context.Background(), m, SessionOptions{Fetch: fetch})
}

func press(m *sessionModel, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func screen(m *sessionModel) string {
	return ansi.Strip(strings.Join(m.lines(), "\n"))
}

func TestSession_Init(t *testing.T) {
	m := newTestSession(flatStates(2), nil)
	if m.Init() == nil {
		t.Error("Init() should clear the screen on the first frame")
	}
	if m.Init() != nil {
		t.Error("Init() cleared the screen twice")
	}
}

func TestSession_Selection(t *testing.T) {
	states := []*PackageState{viteState(), pkg("b", KindDevDependencies, true, false)}
	m := newTestSession(states, nil)

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})

	if states[0].SelectedOption != OptionRange || states[1].SelectedOption != OptionRange {
		t.Errorf("selections = %s, %s", states[0].SelectedOption, states[1].SelectedOption)
	}
	if !strings.Contains(screen(m), "2 selected") {
		t.Errorf("screen does not report 2 selected:\n%s", screen(m))
	}

	press(m, runes("n"))
	press(m, runes("a"))
	if states[0].SelectedOption != OptionLatest {
		t.Errorf("best available = %s, want latest", states[0].SelectedOption)
	}
	press(m, runes("r"))
	if states[0].SelectedOption != OptionRange {
		t.Errorf("range eligible = %s, want range", states[0].SelectedOption)
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.done || m.outcome != OutcomeConfirmed {
		t.Errorf("done=%v outcome=%v, want confirmed", m.done, m.outcome)
	}
	if m.View() != "" {
		t.Error("View() should be empty once the session is done")
	}
}

func TestSession_Warning(t *testing.T) {
	m := newTestSession(flatStates(3), nil)
	m.manager.BulkClearAll()

	if cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatal("warning should schedule its own removal")
	}
	if m.warning != NoSelectionWarning || m.done {
		t.Fatalf("warning=%q done=%v", m.warning, m.done)
	}
	if !strings.Contains(screen(m), "⚠ "+NoSelectionWarning) {
		t.Errorf("warning not rendered:\n%s", screen(m))
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(clearWarningMsg{seq: 1})
	if m.warning == "" {
		t.Error("stale timer cleared a newer warning")
	}
	m.Update(clearWarningMsg{seq: 2})
	if m.warning != "" {
		t.Error("timer did not clear the warning")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.warning != "" {
		t.Error("next key press did not clear the warning")
	}
}

func TestSession_Modal(t *testing.T) {
	var fetched []string
	fetch := func(_ context.Context, name string) *Metadata {
		fetched = append(fetched, name)
		return &Metadata{Description: "Fast builds", WeeklyDownloads: 4200}
	}
	states := []*PackageState{viteState(), pkg("other", KindDependencies, true, false)}
	m := newTestSession(states, fetch)

	if cmd := press(m, runes("i")); cmd == nil {
		t.Fatal("opening the modal should start a fetch")
	}
	if !m.manager.ModalOpen() || !m.manager.ModalLoading() {
		t.Fatal("modal should be open and loading")
	}
	if !strings.Contains(screen(m), "Loading package details…") {
		t.Errorf("loading modal not shown:\n%s", screen(m))
	}

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.manager.Cursor() != 0 {
		t.Error("navigation leaked through the modal")
	}

	m.Update(m.fetchMetadata(m.manager.ModalIndex())())
	if len(fetched) != 1 || fetched[0] != "vite" {
		t.Errorf("fetched = %v", fetched)
	}
	if states[0].Metadata == nil || m.manager.ModalLoading() {
		t.Fatal("metadata not applied")
	}
	text := screen(m)
	for _, want := range []string{"Fast builds", "Weekly downloads: 4.2K"} {
		if !strings.Contains(text, want) {
			t.Errorf("modal missing %q:\n%s", want, text)
		}
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.manager.ModalOpen() || m.done {
		t.Errorf("Esc should close the modal only: open=%v done=%v", m.manager.ModalOpen(), m.done)
	}

	if cmd := press(m, runes("i")); m.manager.ModalLoading() {
		t.Errorf("reopening should use cached metadata, cmd=%v", cmd != nil)
	}
}

func TestSession_StaleMetadata(t *testing.T) {
	states := []*PackageState{viteState(), pkg("other", KindDependencies, true, false)}
	m := newTestSession(states, nil)

	press(m, runes("i"))
	m.Update(metadataMsg{index: 1, metadata: &Metadata{License: "MIT"}})

	if states[1].Metadata == nil {
		t.Error("late metadata should still be stored")
	}
	if !m.manager.ModalLoading() {
		t.Error("metadata for another row finished loading")
	}

	m.Update(m.fetchMetadata(0)())
	if m.manager.ModalLoading() {
		t.Error("failed fetch should end loading")
	}
	if states[0].Metadata != nil {
		t.Error("failed fetch stored metadata")
	}
	if !strings.Contains(screen(m), "No details available") {
		t.Errorf("modal should report missing details:\n%s", screen(m))
	}

	m.Update(metadataMsg{index: 9})
}

func TestSession_Cancel(t *testing.T) {
	states := flatStates(3)
	m := newTestSession(states, nil)
	m.manager.BulkSelectBestAvailable()

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.done || m.outcome != OutcomeCancelled {
		t.Errorf("done=%v outcome=%v, want cancelled", m.done, m.outcome)
	}
	for _, s := range states {
		if s.SelectedOption != OptionNone {
			t.Errorf("%s = %s after cancel", s.Name, s.SelectedOption)
		}
	}
}

func TestSession_Interrupt(t *testing.T) {
	m := newTestSession(flatStates(3), nil)
	press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.interrupted || !m.done {
		t.Errorf("interrupted=%v done=%v", m.interrupted, m.done)
	}
}

func TestSession_Resize(t *testing.T) {
	m := newTestSession(flatStates(60), nil)
	m.manager.TakeFullRedraw()

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if cmd == nil {
		t.Error("resize should clear the screen")
	}
	if m.manager.Capacity() != 32 || m.manager.Width() != 100 {
		t.Errorf("capacity=%d width=%d, want 32/100", m.manager.Capacity(), m.manager.Width())
	}

	_, cmd = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if cmd != nil {
		t.Error("same size should not repaint")
	}
}

func TestRun_Empty(t *testing.T) {
	states, outcome, err := Run(context.Background(), SessionOptions{})
	if err != nil || outcome != OutcomeCancelled || len(states) != 0 {
		t.Errorf("Run() = %v, %v, %v", states, outcome, err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		previous map[string]Option
		want     Option
		outcome  Outcome
		err      error
	}{
		{name: "select and confirm", input: "\x1b[C\r", want: OptionRange, outcome: OutcomeConfirmed},
		{name: "remembered choice", input: "\r", previous: map[string]Option{"vite@^4.1.0": OptionLatest}, want: OptionLatest, outcome: OutcomeConfirmed},
		{name: "cancel", input: "\x1b[C\x1b[C\x1b", want: OptionNone, outcome: OutcomeCancelled},
		{name: "interrupt", input: "\x03", want: OptionNone, outcome: OutcomeCancelled, err: ErrInterrupted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := viteState()
			_, outcome, err := Run(context.Background(), SessionOptions{
				States:   []*PackageState{state},
				Previous: tt.previous,
				Input:    strings.NewReader(tt.input),
				Output:   io.Discard,
				Width:    80,
				Height:   24,
			})
			if !errors.Is(err, tt.err) {
				t.Fatalf("Run() error = %v, want %v", err, tt.err)
			}
			if outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.outcome)
			}
			if state.SelectedOption != tt.want {
				t.Errorf("selection = %s, want %s", state.SelectedOption, tt.want)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("input device gone")
}

func TestRun_StartFailureKeepsStates(t *testing.T) {
	ui.SetOutput(io.Discard, io.Discard)
	t.Cleanup(func() { ui.SetOutput(nil, nil) })

	state := viteState()
	state.SelectedOption = OptionRange

	states, outcome, err := Run(context.Background(), SessionOptions{
		States:   []*PackageState{state},
		Previous: map[string]Option{"vite@^4.1.0": OptionLatest},
		Input:    failingReader{},
		Output:   io.Discard,
		Width:    80,
		Height:   24,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome != OutcomeUnavailable {
		t.Errorf("outcome = %v, want unavailable", outcome)
	}
	if len(states) != 1 || state.SelectedOption != OptionRange {
		t.Errorf("selection = %s, want the original range choice", state.SelectedOption)
	}
}

// SIGINT from outside the program ends the session like Ctrl-C does.
func TestRun_Signal(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("SIGINT cannot be sent to the own process on windows")
	}

	guard := make(chan os.Signal, 1)
	signal.Notify(guard, os.Interrupt)
	defer signal.Stop(guard)

	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		run  func(in io.Reader) error
	}{
		{
			name: "selection",
			run: func(in io.Reader) error {
				states, _, err := Run(context.Background(), SessionOptions{
					States: []*PackageState{viteState()},
					Input:  in,
					Output: io.Discard,
					Width:  80,
					Height: 24,
				})
				if states != nil {
					t.Error("interrupted Run() returned states")
				}
				return err
			},
		},
		{
			name: "confirm",
			run: func(in io.Reader) error {
				choice, err := RunConfirm(context.Background(), []string{"Ready"}, PromptOptions{Input: in, Output: io.Discard})
				if choice != ChoiceInterrupt {
					t.Errorf("choice = %v, want interrupt", choice)
				}
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := io.Pipe()
			defer out.Close()

			done := make(chan error, 1)
			go func() { done <- tt.run(in) }()

			tick := time.NewTicker(50 * time.Millisecond)
			defer tick.Stop()
			timeout := time.After(5 * time.Second)
			for {
				select {
				case err := <-done:
					if !errors.Is(err, ErrInterrupted) {
						t.Errorf("error = %v, want ErrInterrupted", err)
					}
					return
				case <-tick.C:
					if err := proc.Signal(os.Interrupt); err != nil {
						t.Fatalf("sending SIGINT: %v", err)
					}
				case <-timeout:
					t.Fatal("program did not stop on SIGINT")
				}
			}
		})
	}
}

func TestRun_CancelsPendingFetch(t *testing.T) {
	started := make(chan context.Context, 1)
	fetch := func(ctx context.Context, name string) *Metadata {
		started <- ctx
		<-ctx.Done()
		return nil
	}

	in, out := io.Pipe()
	defer out.Close()

	done := make(chan error, 1)
	go func() {
		_, _, err := Run(context.Background(), SessionOptions{
			States: []*PackageState{viteState()},
			Fetch:  fetch,
			Input:  in,
			Output: io.Discard,
			Width:  80,
			Height: 24,
		})
		done <- err
	}()

	if _, err := out.Write([]byte("i")); err != nil {
		t.Fatal(err)
	}

	var fetchCtx context.Context
	select {
	case fetchCtx = <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("metadata fetch never started")
	}

	if _, err := out.Write([]byte("\x03")); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, ErrInterrupted) {
			t.Fatalf("Run() error = %v, want ErrInterrupted", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}

	select {
	case <-fetchCtx.Done():
	case <-time.After(2 * time.Second):
		t.Error("fetch context still live after the session ended")
	}
}
