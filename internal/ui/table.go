package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// Table renders borderless aligned columns. Cell widths are measured with
// lipgloss so styled text lines up.
type Table struct {
	header []string
	rows   [][]string
	widths []int
	right  []bool
}

// NewTable returns a table with cols columns.
func NewTable(cols int) *Table {
	return &Table{widths: make([]int, cols), right: make([]bool, cols)}
}

// AlignRight right-aligns the given zero-based columns, for counts.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		if c >= 0 && c < len(t.right) {
			t.right[c] = true
		}
	}
}

// SetHeader sets a bold header row.
func (t *Table) SetHeader(cells ...string) {
	row := t.fit(cells)
	for i := range row {
		row[i] = Bold.Render(row[i])
	}
	t.header = row
}

// AddRow appends a row. Extra cells are dropped and missing ones left blank.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, t.fit(cells))
}

func (t *Table) fit(cells []string) []string {
	row := make([]string, len(t.widths))
	copy(row, cells)
	for i, c := range row {
		t.widths[i] = max(t.widths[i], lipgloss.Width(c))
	}
	return row
}

func (t *Table) String() string {
	var sb strings.Builder
	if t.header != nil {
		t.writeRow(&sb, t.header)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string) {
	last := len(row) - 1
	for i, cell := range row {
		if i > 0 {
			sb.WriteString(columnGap)
		}
		pad := strings.Repeat(" ", t.widths[i]-lipgloss.Width(cell))
		switch {
		case t.right[i]:
			sb.WriteString(pad + cell)
		case i == last:
			sb.WriteString(cell)
		default:
			sb.WriteString(cell + pad)
		}
	}
	sb.WriteString("\n")
}
