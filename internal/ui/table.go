package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Table represents a simple text table
type Table struct {
	Headers []string
	Rows    [][]string
	Widths  []int
}

// NewTable creates a new table with the given headers
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = ansi.StringWidth(h)
	}
	return &Table{
		Headers: headers,
		Widths:  widths,
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	if len(cells) != len(t.Headers) {
		return
	}

	for i, cell := range cells {
		if w := ansi.StringWidth(cell); w > t.Widths[i] {
			t.Widths[i] = w
		}
	}

	t.Rows = append(t.Rows, cells)
}

// RenderStyled renders the table inside a box with custom cell styling
func (t *Table) RenderStyled(styleFunc func(rowIdx, colIdx int, cell string) lipgloss.Style) string {
	var b strings.Builder

	t.border(&b, "┌", "┬", "┐")

	b.WriteString(BorderStyle.Render("│ "))
	for i, header := range t.Headers {
		b.WriteString(HeaderStyle.Render(padRight(header, t.Widths[i])))
		b.WriteString(BorderStyle.Render(" │"))
		if i < len(t.Headers)-1 {
			b.WriteString(BorderStyle.Render(" "))
		}
	}
	b.WriteString("\n")

	t.border(&b, "├", "┼", "┤")

	for rowIdx, row := range t.Rows {
		b.WriteString(BorderStyle.Render("│ "))
		for colIdx, cell := range row {
			style := styleFunc(rowIdx, colIdx, cell)
			b.WriteString(style.Render(padRight(cell, t.Widths[colIdx])))
			b.WriteString(BorderStyle.Render(" │"))
			if colIdx < len(row)-1 {
				b.WriteString(BorderStyle.Render(" "))
			}
		}
		b.WriteString("\n")
	}

	t.border(&b, "└", "┴", "┘")

	return b.String()
}

func (t *Table) border(b *strings.Builder, left, mid, right string) {
	b.WriteString(BorderStyle.Render(left))
	for i := range t.Headers {
		b.WriteString(BorderStyle.Render(strings.Repeat("─", t.Widths[i]+2)))
		if i < len(t.Headers)-1 {
			b.WriteString(BorderStyle.Render(mid))
		}
	}
	b.WriteString(BorderStyle.Render(right))
	b.WriteString("\n")
}

// padRight pads a string to the right with spaces, measuring visible width
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// TruncateString truncates a string to a maximum width with ellipsis
func TruncateString(s string, maxWidth int) string {
	if ansi.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return ansi.Truncate(s, maxWidth, "")
	}
	return ansi.Truncate(s, maxWidth, "...")
}
