package tui

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type recorder struct {
	actions     []ActionKind
	confirmed   []*PackageState
	cancelled   bool
	warnings    []string
	interrupted bool
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Dispatch:  func(a Action) { r.actions = append(r.actions, a.Kind) },
		Confirm:   func(states []*PackageState) { r.confirmed = states },
		Cancel:    func() { r.cancelled = true },
		Warn:      func(msg string) { r.warnings = append(r.warnings, msg) },
		Interrupt: func() { r.interrupted = true },
	}
}

func TestHandleKey_Actions(t *testing.T) {
	tests := []struct {
		key  Key
		want []ActionKind
	}{
		{Key{Name: "up"}, []ActionKind{ActionNavigateUp}},
		{Key{Name: "down"}, []ActionKind{ActionNavigateDown}},
		{Key{Name: "left"}, []ActionKind{ActionSelectLeft}},
		{Key{Name: "right"}, []ActionKind{ActionSelectRight}},
		{Key{Name: "r"}, []ActionKind{ActionBulkSelectRangeEligible}},
		{Key{Name: "R"}, []ActionKind{ActionBulkSelectRangeEligible}},
		{Key{Name: "a"}, []ActionKind{ActionBulkSelectBest}},
		{Key{Name: "A"}, []ActionKind{ActionBulkSelectBest}},
		{Key{Name: "n"}, []ActionKind{ActionBulkClearAll}},
		{Key{Name: "N"}, []ActionKind{ActionBulkClearAll}},
		{Key{Name: "i"}, []ActionKind{ActionToggleDetailModal}},
		{Key{Name: "I"}, []ActionKind{ActionToggleDetailModal}},
		{Key{Name: "x"}, nil},
		{Key{Name: "space"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key.Name, func(t *testing.T) {
			var r recorder
			h := NewInputHandler(NewManager(flatStates(2), ManagerOptions{}), r.callbacks())
			h.HandleKey(tt.key)
			if !reflect.DeepEqual(r.actions, tt.want) {
				t.Errorf("HandleKey(%+v) dispatched %v, want %v", tt.key, r.actions, tt.want)
			}
		})
	}
}

func TestHandleKey_ConfirmWithoutSelection(t *testing.T) {
	var r recorder
	h := NewInputHandler(NewManager(flatStates(3), ManagerOptions{}), r.callbacks())

	h.HandleKey(Key{Name: "enter"})
	if r.confirmed != nil {
		t.Error("Confirm called with nothing selected")
	}
	if len(r.warnings) != 1 || r.warnings[0] != NoSelectionWarning {
		t.Errorf("warnings = %v", r.warnings)
	}
}

func TestHandleKey_Confirm(t *testing.T) {
	var r recorder
	states := flatStates(3)
	m := NewManager(states, ManagerOptions{})
	h := NewInputHandler(m, r.callbacks())

	m.UpdateSelection(1, DirectionRight)
	h.HandleKey(Key{Name: "enter"})

	if len(r.confirmed) != 3 || r.confirmed[1].SelectedOption != OptionRange {
		t.Errorf("confirmed = %v", r.confirmed)
	}
	if len(r.warnings) != 0 {
		t.Errorf("unexpected warnings %v", r.warnings)
	}
}

func TestHandleKey_CancelClearsSelections(t *testing.T) {
	var r recorder
	m := NewManager(flatStates(3), ManagerOptions{})
	h := NewInputHandler(m, r.callbacks())

	m.BulkSelectBestAvailable()
	h.HandleKey(Key{Name: "esc"})

	if !r.cancelled {
		t.Error("Cancel not called")
	}
	if m.SelectedCount() != 0 {
		t.Errorf("SelectedCount() = %d after cancel, want 0", m.SelectedCount())
	}
}

func TestHandleKey_ModalCapturesInput(t *testing.T) {
	var r recorder
	m := NewManager(flatStates(3), ManagerOptions{})
	h := NewInputHandler(m, r.callbacks())
	m.ToggleModal()

	for _, name := range []string{"up", "down", "left", "right", "enter", "r", "a", "n"} {
		h.HandleKey(Key{Name: name})
	}
	if len(r.actions) != 0 || r.confirmed != nil || len(r.warnings) != 0 {
		t.Errorf("modal leaked input: actions=%v confirmed=%v warnings=%v", r.actions, r.confirmed, r.warnings)
	}

	h.HandleKey(Key{Name: "esc"})
	h.HandleKey(Key{Name: "I"})
	want := []ActionKind{ActionToggleDetailModal, ActionToggleDetailModal}
	if !reflect.DeepEqual(r.actions, want) {
		t.Errorf("actions = %v, want %v", r.actions, want)
	}
	if r.cancelled {
		t.Error("Esc in the modal cancelled the session")
	}
}

func TestHandleKey_Interrupt(t *testing.T) {
	for _, modal := range []bool{false, true} {
		var r recorder
		m := NewManager(flatStates(1), ManagerOptions{})
		if modal {
			m.ToggleModal()
		}
		NewInputHandler(m, r.callbacks()).HandleKey(Key{Name: "c", Ctrl: true})
		if !r.interrupted {
			t.Errorf("modal=%v: Interrupt not called", modal)
		}
		if len(r.actions) != 0 {
			t.Errorf("modal=%v: dispatched %v", modal, r.actions)
		}
	}
}

func TestHandleKey_NilCallbacks(t *testing.T) {
	m := NewManager(flatStates(1), ManagerOptions{})
	h := NewInputHandler(m, Callbacks{})
	for _, k := range []Key{{Name: "up"}, {Name: "enter"}, {Name: "esc"}, {Name: "c", Ctrl: true}} {
		h.HandleKey(k)
	}
	h.HandleResize(80, 24)
}

func TestHandleResize(t *testing.T) {
	var got Action
	h := NewInputHandler(NewManager(nil, ManagerOptions{}), Callbacks{
		Dispatch: func(a Action) { got = a },
	})
	h.HandleResize(120, 40)

	want := Action{Kind: ActionViewportResized, Width: 120, Height: 40}
	if got != want {
		t.Errorf("HandleResize() dispatched %+v, want %+v", got, want)
	}
}

// Three packages without any update: every choice stays none and Enter only
// ever warns.
func TestHandleKey_NothingToUpgrade(t *testing.T) {
	states := []*PackageState{
		pkg("a", KindDependencies, false, false),
		pkg("b", KindDependencies, false, false),
		pkg("c", KindDependencies, false, false),
	}
	m := NewManager(states, ManagerOptions{})

	var r recorder
	cb := r.callbacks()
	cb.Dispatch = func(a Action) {
		switch a.Kind {
		case ActionNavigateDown:
			m.Navigate(DirectionDown)
		case ActionSelectRight:
			m.UpdateSelection(m.Cursor(), DirectionRight)
		case ActionSelectLeft:
			m.UpdateSelection(m.Cursor(), DirectionLeft)
		case ActionBulkSelectBest:
			m.BulkSelectBestAvailable()
		case ActionBulkSelectRangeEligible:
			m.BulkSelectRangeEligible()
		}
	}
	h := NewInputHandler(m, cb)

	for _, name := range []string{"right", "left", "down", "right", "down", "left", "a", "r", "enter"} {
		h.HandleKey(Key{Name: name})
	}

	if m.SelectedCount() != 0 {
		t.Errorf("SelectedCount() = %d, want 0", m.SelectedCount())
	}
	if r.confirmed != nil {
		t.Error("Confirm called")
	}
	if len(r.warnings) != 1 {
		t.Errorf("warnings = %v, want one", r.warnings)
	}
}

func TestConfirmHandler(t *testing.T) {
	tests := []struct {
		key  Key
		want Choice
	}{
		{Key{Name: "enter"}, ChoiceProceed},
		{Key{Name: "y"}, ChoiceProceed},
		{Key{Name: "Y"}, ChoiceProceed},
		{Key{Name: "n"}, ChoiceBack},
		{Key{Name: "N"}, ChoiceBack},
		{Key{Name: "esc"}, ChoiceCancel},
		{Key{Name: "c", Ctrl: true}, ChoiceInterrupt},
		{Key{Name: "c"}, ChoiceNone},
		{Key{Name: "up"}, ChoiceNone},
	}

	for _, tt := range tests {
		t.Run(tt.key.Name, func(t *testing.T) {
			got := ChoiceNone
			NewConfirmHandler(func(c Choice) { got = c }).HandleKey(tt.key)
			if got != tt.want {
				t.Errorf("HandleKey(%+v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeyFromTea(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want Key
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, Key{Name: "up"}},
		{tea.KeyMsg{Type: tea.KeyDown}, Key{Name: "down"}},
		{tea.KeyMsg{Type: tea.KeyLeft}, Key{Name: "left"}},
		{tea.KeyMsg{Type: tea.KeyRight}, Key{Name: "right"}},
		{tea.KeyMsg{Type: tea.KeyEnter}, Key{Name: "enter"}},
		{tea.KeyMsg{Type: tea.KeyEsc}, Key{Name: "esc"}},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, Key{Name: "space"}},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, Key{Name: "c", Ctrl: true}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}, Key{Name: "r"}},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a"), Alt: true}, Key{Name: "a", Alt: true}},
		{tea.KeyMsg{Type: tea.KeyTab}, Key{Name: "tab"}},
	}

	for _, tt := range tests {
		t.Run(tt.want.Name, func(t *testing.T) {
			if got := KeyFromTea(tt.msg); got != tt.want {
				t.Errorf("KeyFromTea(%v) = %+v, want %+v", tt.msg, got, tt.want)
			}
		})
	}
}
