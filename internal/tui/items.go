package tui

// Section groups dependency kinds for display.
type Section int

const (
	SectionMain Section = iota
	SectionPeer
	SectionOptional
)

func (s Section) Title() string {
	switch s {
	case SectionPeer:
		return "Peer Dependencies"
	case SectionOptional:
		return "Optional Dependencies"
	default:
		return "Dependencies"
	}
}

// SectionOf maps a dependency kind to its display section.
func SectionOf(kind DependencyKind) Section {
	switch kind {
	case KindPeerDependencies:
		return SectionPeer
	case KindOptionalDependencies:
		return SectionOptional
	default:
		return SectionMain
	}
}

// Item is one visual row of a sectioned list. It is implemented by
// HeaderItem, SpacerItem and PackageItem only.
type Item interface {
	isItem()
}

type HeaderItem struct {
	Title   string
	Section Section
}

type SpacerItem struct{}

// PackageItem refers to a PackageState by its index in the state list.
type PackageItem struct {
	Index int
}

func (HeaderItem) isItem()  {}
func (SpacerItem) isItem()  {}
func (PackageItem) isItem() {}

// BuildItems groups states into sections. It returns nil when fewer than two
// sections are populated, which puts the list in flat mode.
func BuildItems(states []*PackageState) []Item {
	var groups [3][]int
	for i, s := range states {
		sec := SectionOf(s.DependencyKind)
		groups[sec] = append(groups[sec], i)
	}

	populated := 0
	for _, g := range groups {
		if len(g) > 0 {
			populated++
		}
	}
	if populated < 2 {
		return nil
	}

	var items []Item
	for sec, g := range groups {
		if len(g) == 0 {
			continue
		}
		if len(items) > 0 {
			items = append(items, SpacerItem{})
		}
		items = append(items, HeaderItem{Title: Section(sec).Title(), Section: Section(sec)})
		for _, idx := range g {
			items = append(items, PackageItem{Index: idx})
		}
	}
	return items
}
