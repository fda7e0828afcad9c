package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
)

const (
	minNameWidth    = 20
	maxNameWidth    = 48
	minVersionWidth = 10
	maxVersionWidth = 24

	filledDot = "●"
	hollowDot = "○"
)

// Frame is everything RenderFrame needs to draw the selection list.
type Frame struct {
	States   []*PackageState
	Items    []Item // nil renders the states flat
	Cursor   int
	Scroll   int
	Capacity int
	Label    string
	Warning  string
}

type columns struct {
	name    int
	version int
}

func (c columns) slot() int { return 2 + c.version }

// measure derives column widths from every state, not only the visible ones,
// so columns stay put while scrolling.
func measure(states []*PackageState) columns {
	c := columns{name: minNameWidth, version: minVersionWidth}
	for _, s := range states {
		if w := VisibleWidth(s.Name) + 2; w > c.name {
			c.name = w
		}
		for _, v := range []string{
			s.CurrentVersionSpecifier,
			ApplyPrefix(s.CurrentVersionSpecifier, s.RangeVersion),
			ApplyPrefix(s.CurrentVersionSpecifier, s.LatestVersion),
		} {
			if w := VisibleWidth(v) + 2; w > c.version {
				c.version = w
			}
		}
	}
	c.name = min(c.name, maxNameWidth)
	c.version = min(c.version, maxVersionWidth)
	return c
}

// RenderFrame draws one full frame of the selection list. It is a pure
// function of f: identical input yields byte-identical output.
func RenderFrame(f Frame) []string {
	cols := measure(f.States)
	lines := renderHeader(f, cols)

	total := len(f.States)
	if f.Items != nil {
		total = len(f.Items)
	}
	end := min(f.Scroll+f.Capacity, total)
	for i := max(f.Scroll, 0); i < end; i++ {
		var it Item = PackageItem{Index: i}
		if f.Items != nil {
			it = f.Items[i]
		}
		switch it := it.(type) {
		case HeaderItem:
			lines = append(lines, "  "+sectionStyles[it.Section].Render(it.Title))
		case SpacerItem:
			lines = append(lines, "")
		case PackageItem:
			lines = append(lines, renderRow(f.States[it.Index], it.Index == f.Cursor, cols))
		}
	}
	return lines
}

func renderHeader(f Frame, cols columns) []string {
	lines := []string{titleStyle.Render("📦 Choose packages to upgrade")}
	if f.Label != "" {
		lines = append(lines, labelStyle.Render(f.Label))
	}
	lines = append(lines,
		helpStyle.Render("↑/↓ move • ←/→ choose • r all in-range • a all best • n clear • i details"),
		renderStatus(f),
		"",
		"  "+headerStyle.Render(padSpaces("Package", cols.name))+
			"  "+headerStyle.Render(padSpaces("  Current", cols.slot()))+
			"  "+headerStyle.Render(padSpaces("  Range", cols.slot()))+
			"  "+headerStyle.Render(padSpaces("  Latest", cols.slot())),
	)
	return lines
}

func renderStatus(f Frame) string {
	if f.Warning != "" {
		return warningStyle.Render("⚠ " + f.Warning)
	}

	n := len(f.States)
	selected := 0
	for _, s := range f.States {
		if s.SelectedOption != OptionNone {
			selected++
		}
	}

	var shown string
	total := n
	if f.Items != nil {
		total = len(f.Items)
	}
	if total <= f.Capacity {
		shown = fmt.Sprintf("All %d packages shown", n)
	} else {
		first, last := visibleRange(f)
		shown = fmt.Sprintf("Showing %d-%d of %d", first, last, n)
	}
	return statusStyle.Render(fmt.Sprintf("%s • %d selected • Enter confirm • Esc cancel", shown, selected))
}

// visibleRange returns the 1-based ordinals of the first and last package
// rows inside the scroll window.
func visibleRange(f Frame) (int, int) {
	if f.Items == nil {
		return f.Scroll + 1, min(f.Scroll+f.Capacity, len(f.States))
	}
	first, last, ordinal := 0, 0, 0
	for i, it := range f.Items {
		if _, ok := it.(PackageItem); !ok {
			continue
		}
		ordinal++
		if i < f.Scroll || i >= f.Scroll+f.Capacity {
			continue
		}
		if first == 0 {
			first = ordinal
		}
		last = ordinal
	}
	return first, last
}

func renderRow(s *PackageState, active bool, cols columns) string {
	marker := "  "
	if active {
		marker = cursorStyle.Render("❯ ")
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(padDashes(renderName(s.Name, active, cols.name), cols.name))

	b.WriteString("  ")
	b.WriteString(renderSlot(s.SelectedOption == OptionNone, currentStyle.Render(s.CurrentVersionSpecifier), cols))

	b.WriteString("  ")
	if s.HasRangeUpdate {
		v := rangeStyle.Render(ApplyPrefix(s.CurrentVersionSpecifier, s.RangeVersion))
		b.WriteString(renderSlot(s.SelectedOption == OptionRange, v, cols))
	} else {
		b.WriteString(strings.Repeat(" ", cols.slot()))
	}

	b.WriteString("  ")
	if s.HasMajorUpdate {
		v := latestStyle.Render(ApplyPrefix(s.CurrentVersionSpecifier, s.LatestVersion))
		b.WriteString(renderSlot(s.SelectedOption == OptionLatest, v, cols))
	} else {
		b.WriteString(strings.Repeat(" ", cols.slot()))
	}
	return b.String()
}

func renderSlot(picked bool, version string, cols columns) string {
	dot := dotStyle.Render(hollowDot)
	if picked {
		dot = pickedStyle.Render(filledDot)
	}
	return dot + " " + padDashes(version, cols.version)
}

// renderName splits scoped names into namespace and rest so the two can be
// styled apart.
func renderName(name string, active bool, width int) string {
	if VisibleWidth(name) > width-1 {
		name = ansi.Truncate(name, width-1, "…")
	}
	ns, rest := "", name
	if strings.HasPrefix(name, "@") {
		if i := strings.Index(name, "/"); i > 0 {
			ns, rest = name[:i+1], name[i+1:]
		}
	}
	if active {
		return activeScope.Render(ns) + activeNameStyle.Render(rest)
	}
	return scopeStyle.Render(ns) + nameStyle.Render(rest)
}

// padDashes fills s to width visible cells with a space and a run of dashes.
func padDashes(s string, width int) string {
	gap := width - VisibleWidth(s)
	if gap <= 0 {
		return s
	}
	if gap == 1 {
		return s + " "
	}
	return s + " " + fillerStyle.Render(strings.Repeat("-", gap-1))
}

func padSpaces(s string, width int) string {
	gap := width - VisibleWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// FormatDownloads abbreviates a download count: 950, 1.2K, 3.4M, 1.0B.
func FormatDownloads(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func modalInnerWidth(width int) int {
	w := min(64, width-8)
	return max(w, 20)
}

// RenderModal draws the detail box for s, centred in a width x height screen.
func RenderModal(s *PackageState, width, height int) []string {
	inner := modalInnerWidth(width)
	content := []string{modalTitleStyle.Render(ansi.Truncate(s.Name, inner, "…"))}

	md := s.Metadata
	if md == nil {
		md = &Metadata{}
	}

	var by []string
	if md.Author != "" {
		by = append(by, "by "+md.Author)
	}
	if md.License != "" {
		by = append(by, md.License)
	}
	if len(by) > 0 {
		content = append(content, modalDimStyle.Render(ansi.Truncate(strings.Join(by, " • "), inner, "…")))
	}

	content = append(content, modalDimStyle.Render(strings.Repeat("─", inner)))
	content = append(content, fmt.Sprintf("%s → %s", currentStyle.Render(s.CurrentVersionSpecifier), renderTarget(s)))

	if md.WeeklyDownloads > 0 {
		content = append(content, "Weekly downloads: "+FormatDownloads(md.WeeklyDownloads))
	}
	if md.Description != "" {
		content = append(content, "")
		for _, l := range strings.Split(wordwrap.String(md.Description, inner), "\n") {
			content = append(content, ansi.Truncate(l, inner, "…"))
		}
	}
	if md.ReleaseNotesURL != "" || md.Homepage != "" {
		content = append(content, "")
	}
	if md.ReleaseNotesURL != "" {
		content = append(content, renderLink("Release notes: ", md.ReleaseNotesURL, inner))
	}
	if md.Homepage != "" {
		content = append(content, renderLink("Homepage: ", md.Homepage, inner))
	}
	if s.Metadata == nil {
		content = append(content, modalDimStyle.Render("No details available"))
	}
	content = append(content, "", helpStyle.Render("i / Esc to close"))

	return centerBox(content, inner, width, height)
}

// RenderLoadingModal is shown while the metadata fetch for name is running.
func RenderLoadingModal(name string, width, height int) []string {
	inner := modalInnerWidth(width)
	content := []string{
		spinnerStyle.Render("⠋") + " Loading package details…",
		modalDimStyle.Render(ansi.Truncate(name, inner, "…")),
	}
	return centerBox(content, inner, width, height)
}

func renderTarget(s *PackageState) string {
	switch {
	case s.SelectedOption == OptionRange:
		return rangeStyle.Render(s.TargetSpecifier()) + modalDimStyle.Render(" (range)")
	case s.SelectedOption == OptionLatest:
		return latestStyle.Render(s.TargetSpecifier()) + modalDimStyle.Render(" (latest)")
	case s.HasMajorUpdate:
		return latestStyle.Render(ApplyPrefix(s.CurrentVersionSpecifier, s.LatestVersion)) + modalDimStyle.Render(" available")
	case s.HasRangeUpdate:
		return rangeStyle.Render(ApplyPrefix(s.CurrentVersionSpecifier, s.RangeVersion)) + modalDimStyle.Render(" available")
	default:
		return modalDimStyle.Render("up to date")
	}
}

func renderLink(label, url string, inner int) string {
	text := ansi.Truncate(url, max(inner-VisibleWidth(label), 1), "…")
	return label + ansi.SetHyperlink(url) + modalLinkStyle.Render(text) + ansi.ResetHyperlink()
}

func centerBox(content []string, inner, width, height int) []string {
	for i, l := range content {
		content[i] = padSpaces(l, inner)
	}
	box := strings.Split(modalBorderStyle.Render(strings.Join(content, "\n")), "\n")

	left := max((width-VisibleWidth(box[0]))/2, 0)
	top := max((height-len(box))/2, 0)

	lines := make([]string, 0, top+len(box))
	for range top {
		lines = append(lines, "")
	}
	pad := strings.Repeat(" ", left)
	for _, l := range box {
		lines = append(lines, pad+l)
	}
	return lines
}

// RenderSummary lists the pending upgrades grouped by package name, followed
// by the confirmation key hints.
func RenderSummary(actions []UpgradeAction) []string {
	type group struct {
		name    string
		targets []string
		option  Option
		count   int
	}
	var groups []*group
	byName := make(map[string]*group)
	for _, a := range actions {
		g, ok := byName[a.Name]
		if !ok {
			g = &group{name: a.Name, option: a.Option}
			byName[a.Name] = g
			groups = append(groups, g)
		}
		g.count++
		found := false
		for _, t := range g.targets {
			if t == a.To {
				found = true
				break
			}
		}
		if !found {
			g.targets = append(g.targets, a.To)
		}
		if a.Option == OptionLatest {
			g.option = OptionLatest
		}
	}

	lines := []string{"", titleStyle.Render(fmt.Sprintf("Ready to upgrade %d package(s):", len(groups)))}
	for _, g := range groups {
		kind := rangeStyle.Render("range")
		if g.option == OptionLatest {
			kind = latestStyle.Render("major")
		}
		line := fmt.Sprintf("  • %s → %s (%s)", summaryNameStyle.Render(g.name), strings.Join(g.targets, ", "), kind)
		if g.count > 1 {
			line += modalDimStyle.Render(fmt.Sprintf(" ×%d locations", g.count))
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", summaryHintStyle.Render("Enter/y to apply • n to go back • Esc to cancel"))
	return lines
}
