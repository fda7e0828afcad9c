package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ActionKind enumerates what a key press can ask the session to do.
type ActionKind int

const (
	ActionNavigateUp ActionKind = iota
	ActionNavigateDown
	ActionSelectLeft
	ActionSelectRight
	ActionBulkSelectRangeEligible
	ActionBulkSelectBest
	ActionBulkClearAll
	ActionToggleDetailModal
	ActionConfirm
	ActionCancel
	ActionViewportResized
)

// Action is a decoded input event. Height and Width are set for
// ActionViewportResized only.
type Action struct {
	Kind   ActionKind
	Height int
	Width  int
}

// Key is a terminal key press reduced to a symbolic name and modifiers.
// Printable keys use the character itself as Name.
type Key struct {
	Name string
	Ctrl bool
	Alt  bool
}

// KeyFromTea converts a bubbletea key message.
func KeyFromTea(msg tea.KeyMsg) Key {
	k := Key{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyUp:
		k.Name = "up"
	case tea.KeyDown:
		k.Name = "down"
	case tea.KeyLeft:
		k.Name = "left"
	case tea.KeyRight:
		k.Name = "right"
	case tea.KeyEnter:
		k.Name = "enter"
	case tea.KeyEsc:
		k.Name = "esc"
	case tea.KeySpace:
		k.Name = "space"
	case tea.KeyCtrlC:
		k.Name, k.Ctrl = "c", true
	case tea.KeyRunes:
		k.Name = string(msg.Runes)
	default:
		k.Name = msg.String()
	}
	return k
}

// Callbacks are the hooks an InputHandler drives. Dispatch receives every
// state-changing action; the others resolve or annotate the session.
type Callbacks struct {
	Dispatch  func(Action)
	Confirm   func(states []*PackageState)
	Cancel    func()
	Warn      func(msg string)
	Interrupt func()
}

// NoSelectionWarning is shown when Enter is pressed with nothing selected.
const NoSelectionWarning = "No packages selected. Use ←/→ to choose an upgrade, or Esc to cancel."

// InputHandler maps keys of the selection list to actions.
type InputHandler struct {
	manager *Manager
	cb      Callbacks
}

func NewInputHandler(manager *Manager, cb Callbacks) *InputHandler {
	return &InputHandler{manager: manager, cb: cb}
}

// HandleKey processes a single key press.
func (h *InputHandler) HandleKey(k Key) {
	if k.Ctrl && k.Name == "c" {
		if h.cb.Interrupt != nil {
			h.cb.Interrupt()
		}
		return
	}

	if h.manager.ModalOpen() {
		switch strings.ToLower(k.Name) {
		case "esc", "i":
			h.dispatch(ActionToggleDetailModal)
		}
		return
	}

	switch k.Name {
	case "up":
		h.dispatch(ActionNavigateUp)
		return
	case "down":
		h.dispatch(ActionNavigateDown)
		return
	case "left":
		h.dispatch(ActionSelectLeft)
		return
	case "right":
		h.dispatch(ActionSelectRight)
		return
	case "enter":
		h.confirm()
		return
	case "esc":
		h.cancel()
		return
	}

	switch strings.ToLower(k.Name) {
	case "r":
		h.dispatch(ActionBulkSelectRangeEligible)
	case "a":
		h.dispatch(ActionBulkSelectBest)
	case "n":
		h.dispatch(ActionBulkClearAll)
	case "i":
		h.dispatch(ActionToggleDetailModal)
	}
}

// HandleResize forwards a terminal size change.
func (h *InputHandler) HandleResize(width, height int) {
	if h.cb.Dispatch != nil {
		h.cb.Dispatch(Action{Kind: ActionViewportResized, Width: width, Height: height})
	}
}

func (h *InputHandler) dispatch(kind ActionKind) {
	if h.cb.Dispatch != nil {
		h.cb.Dispatch(Action{Kind: kind})
	}
}

func (h *InputHandler) confirm() {
	if h.manager.SelectedCount() == 0 {
		if h.cb.Warn != nil {
			h.cb.Warn(NoSelectionWarning)
		}
		return
	}
	if h.cb.Confirm != nil {
		h.cb.Confirm(h.manager.States())
	}
}

// cancel resets every selection before reporting, so a cancelled session
// always yields an all-none result.
func (h *InputHandler) cancel() {
	h.manager.BulkClearAll()
	if h.cb.Cancel != nil {
		h.cb.Cancel()
	}
}

// Choice is the answer to the confirmation prompt.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceProceed
	ChoiceBack
	ChoiceCancel
	ChoiceInterrupt
)

// ConfirmHandler serves the yes / go back / cancel prompt.
type ConfirmHandler struct {
	resolve func(Choice)
}

func NewConfirmHandler(resolve func(Choice)) *ConfirmHandler {
	return &ConfirmHandler{resolve: resolve}
}

// HandleKey resolves the prompt for y/Enter, n, Esc and Ctrl-C; every other
// key is ignored.
func (h *ConfirmHandler) HandleKey(k Key) {
	var c Choice
	switch {
	case k.Ctrl && k.Name == "c":
		c = ChoiceInterrupt
	case k.Name == "enter", strings.EqualFold(k.Name, "y"):
		c = ChoiceProceed
	case strings.EqualFold(k.Name, "n"):
		c = ChoiceBack
	case k.Name == "esc":
		c = ChoiceCancel
	default:
		return
	}
	h.resolve(c)
}
