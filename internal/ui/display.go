package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal or its size is unknown.
const DefaultTermWidth = 100

// maxCalendarColumns caps month grids per row on very wide terminals.
const maxCalendarColumns = 4

// DisplayContext describes the output terminal.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects stdout.
func NewDisplayContext() *DisplayContext {
	fd := os.Stdout.Fd()
	d := &DisplayContext{TermWidth: DefaultTermWidth, IsTTY: term.IsTerminal(fd)}
	if !d.IsTTY {
		return d
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// NewDisplayContextWithWidth returns a terminal context of a fixed width.
func NewDisplayContextWithWidth(width int) *DisplayContext {
	return &DisplayContext{TermWidth: width, IsTTY: true}
}

// CalendarColumns returns how many month grids fit side by side.
func (d *DisplayContext) CalendarColumns() int {
	cols := (d.TermWidth + monthGap) / (monthWidth + monthGap)
	return max(1, min(cols, maxCalendarColumns))
}
