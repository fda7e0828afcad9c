package tui

// DefaultChrome is the number of terminal lines reserved for the title,
// legend, status line, column header and separators.
const DefaultChrome = 8

// MinCapacity is the smallest number of body rows ever shown.
const MinCapacity = 5

// Direction is a cursor movement or a selection cycle direction.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Flat disables sectioning even when several dependency kinds are present.
	Flat   bool
	Height int
	Width  int
	// Chrome overrides DefaultChrome when positive.
	Chrome int
}

type modalState struct {
	open    bool
	index   int
	loading bool
}

// Manager owns all mutable UI state of a selection session: cursor, scroll
// window, viewport, per-row selection and the detail modal.
//
// Cursor is an index into the state list. Scroll is an index into the visual
// row list, which equals the state list in flat mode and the item list in
// sectioned mode.
type Manager struct {
	states []*PackageState
	items  []Item

	// order lists state indices in visual order, pos is its inverse and
	// rows maps a state index to its visual row.
	order []int
	pos   []int
	rows  []int

	cursor     int
	prevCursor int
	scroll     int
	capacity   int
	height     int
	width      int
	chrome     int
	fullRedraw bool

	modal modalState
}

// NewManager builds the session state. The state list is never reordered.
func NewManager(states []*PackageState, opts ManagerOptions) *Manager {
	m := &Manager{
		states:     states,
		chrome:     DefaultChrome,
		width:      opts.Width,
		fullRedraw: true,
	}
	if opts.Chrome > 0 {
		m.chrome = opts.Chrome
	}
	if !opts.Flat {
		m.items = BuildItems(states)
	}
	m.index()

	height := opts.Height
	if height <= 0 {
		height = 24
	}
	m.UpdateViewportHeight(height)
	m.fullRedraw = true
	return m
}

func (m *Manager) index() {
	m.pos = make([]int, len(m.states))
	m.rows = make([]int, len(m.states))
	if m.items == nil {
		m.order = make([]int, len(m.states))
		for i := range m.states {
			m.order[i] = i
			m.pos[i] = i
			m.rows[i] = i
		}
		return
	}
	m.order = m.order[:0]
	for row, it := range m.items {
		if p, ok := it.(PackageItem); ok {
			m.pos[p.Index] = len(m.order)
			m.rows[p.Index] = row
			m.order = append(m.order, p.Index)
		}
	}
}

func (m *Manager) States() []*PackageState { return m.states }
func (m *Manager) Items() []Item           { return m.items }
func (m *Manager) Sectioned() bool         { return m.items != nil }
func (m *Manager) Cursor() int             { return m.cursor }
func (m *Manager) PrevCursor() int         { return m.prevCursor }
func (m *Manager) Scroll() int             { return m.scroll }
func (m *Manager) Capacity() int           { return m.capacity }
func (m *Manager) Width() int              { return m.width }
func (m *Manager) Height() int             { return m.height }

// RowCount is the number of visual rows, headers and spacers included.
func (m *Manager) RowCount() int {
	if m.items != nil {
		return len(m.items)
	}
	return len(m.states)
}

// ItemAt returns the visual row at index i.
func (m *Manager) ItemAt(i int) Item {
	if m.items != nil {
		return m.items[i]
	}
	return PackageItem{Index: i}
}

// VisualRow is the visual row of the package at state index idx.
func (m *Manager) VisualRow(idx int) int {
	if idx < 0 || idx >= len(m.rows) {
		return 0
	}
	return m.rows[idx]
}

// Navigate moves the cursor to the previous or next package row, wrapping at
// both ends, and scrolls it into view. Headers and spacers are skipped.
func (m *Manager) Navigate(dir Direction) {
	n := len(m.order)
	if n == 0 {
		return
	}
	m.clampCursor()
	p := m.pos[m.cursor]
	switch dir {
	case DirectionUp:
		p = (p - 1 + n) % n
	case DirectionDown:
		p = (p + 1) % n
	default:
		return
	}
	m.prevCursor = m.cursor
	m.cursor = m.order[p]
	m.EnsureVisible()
}

// EnsureVisible adjusts the scroll offset so the cursor row is on screen.
// The header and spacer above the first package of a section are revealed
// along with it whenever they fit.
func (m *Manager) EnsureVisible() {
	if len(m.states) == 0 {
		m.scroll = 0
		return
	}
	m.clampCursor()
	row := m.rows[m.cursor]

	switch {
	case row < m.scroll:
		m.scroll = row
	case row >= m.scroll+m.capacity:
		m.scroll = row - m.capacity + 1
	}
	if top := m.leadTop(row); top < m.scroll && row-top+1 <= m.capacity {
		m.scroll = top
	}
	m.clampScroll()
}

// leadTop returns the first row of the header/spacer run directly above row,
// or row itself when it is not the first package of a section.
func (m *Manager) leadTop(row int) int {
	if m.items == nil {
		return row
	}
	top := row
	for top > 0 {
		switch m.items[top-1].(type) {
		case HeaderItem, SpacerItem:
			top--
			continue
		}
		break
	}
	return top
}

func (m *Manager) clampScroll() {
	maxScroll := m.RowCount() - m.capacity
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *Manager) clampCursor() {
	if m.cursor >= len(m.states) {
		m.cursor = len(m.states) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// UpdateSelection cycles the option of the given row. Options that the row
// does not offer are skipped; a row with no updates stays at OptionNone.
func (m *Manager) UpdateSelection(row int, dir Direction) {
	if row < 0 || row >= len(m.states) {
		return
	}
	s := m.states[row]
	s.SelectedOption = cycle(s, dir)
}

func cycle(s *PackageState, dir Direction) Option {
	cur := s.SelectedOption
	if !s.Allows(cur) {
		cur = OptionNone
	}
	switch dir {
	case DirectionRight:
		switch cur {
		case OptionNone:
			if s.HasRangeUpdate {
				return OptionRange
			}
			if s.HasMajorUpdate {
				return OptionLatest
			}
			return OptionNone
		case OptionRange:
			if s.HasMajorUpdate {
				return OptionLatest
			}
			return OptionNone
		default:
			return OptionNone
		}
	case DirectionLeft:
		switch cur {
		case OptionNone:
			if s.HasMajorUpdate {
				return OptionLatest
			}
			if s.HasRangeUpdate {
				return OptionRange
			}
			return OptionNone
		case OptionLatest:
			if s.HasRangeUpdate {
				return OptionRange
			}
			return OptionNone
		default:
			return OptionNone
		}
	}
	return cur
}

// BulkSelectRangeEligible selects the in-range update on every row that has one.
func (m *Manager) BulkSelectRangeEligible() {
	for _, s := range m.states {
		if s.HasRangeUpdate {
			s.SelectedOption = OptionRange
		}
	}
}

// BulkSelectBestAvailable selects latest where a major update exists, else
// the in-range update, else leaves the row alone.
func (m *Manager) BulkSelectBestAvailable() {
	for _, s := range m.states {
		switch {
		case s.HasMajorUpdate:
			s.SelectedOption = OptionLatest
		case s.HasRangeUpdate:
			s.SelectedOption = OptionRange
		}
	}
}

func (m *Manager) BulkClearAll() {
	for _, s := range m.states {
		s.SelectedOption = OptionNone
	}
}

// SelectedCount is the number of rows with a non-none selection.
func (m *Manager) SelectedCount() int {
	n := 0
	for _, s := range m.states {
		if s.SelectedOption != OptionNone {
			n++
		}
	}
	return n
}

// UpdateViewportHeight recomputes the body capacity from the terminal height
// and reports whether it changed. A change requests a full repaint.
func (m *Manager) UpdateViewportHeight(height int) bool {
	m.height = height
	capacity := height - m.chrome
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	if capacity == m.capacity {
		return false
	}
	m.capacity = capacity
	m.fullRedraw = true
	m.EnsureVisible()
	return true
}

// SetWidth records the terminal width used to centre the modal.
func (m *Manager) SetWidth(width int) {
	if width != m.width {
		m.width = width
		m.fullRedraw = true
	}
}

// ToggleModal opens the detail modal for the cursor row, or closes it. It
// reports whether the modal is now open. Opening a row whose metadata has not
// been fetched yet marks the modal as loading.
func (m *Manager) ToggleModal() bool {
	m.fullRedraw = true
	if m.modal.open {
		m.modal = modalState{}
		return false
	}
	if len(m.states) == 0 {
		return false
	}
	m.clampCursor()
	m.modal = modalState{
		open:    true,
		index:   m.cursor,
		loading: m.states[m.cursor].Metadata == nil,
	}
	return true
}

func (m *Manager) ModalOpen() bool    { return m.modal.open }
func (m *Manager) ModalIndex() int    { return m.modal.index }
func (m *Manager) ModalLoading() bool { return m.modal.open && m.modal.loading }

// FinishModalLoading clears the loading flag if the modal is still showing
// the row at idx. It reports whether a repaint is needed.
func (m *Manager) FinishModalLoading(idx int) bool {
	if !m.modal.open || m.modal.index != idx {
		return false
	}
	m.modal.loading = false
	return true
}

// TakeFullRedraw reports and resets the pending full-repaint request.
func (m *Manager) TakeFullRedraw() bool {
	r := m.fullRedraw
	m.fullRedraw = false
	return r
}

// Frame snapshots the state the renderer needs.
func (m *Manager) Frame() Frame {
	return Frame{
		States:   m.states,
		Items:    m.items,
		Cursor:   m.cursor,
		Scroll:   m.scroll,
		Capacity: m.capacity,
	}
}
