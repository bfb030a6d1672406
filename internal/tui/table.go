package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/formatlab/sacfit/internal/accumulation"
)

// TableModel renders the per-source accumulation records as a scrollable
// table.
type TableModel struct {
	records []accumulation.Record
	cursor  int
	offset  int
	keymap  KeyMap
	width   int
	height  int
}

// NewTableModel creates an empty records table.
func NewTableModel() TableModel {
	return TableModel{keymap: DefaultKeyMap()}
}

// SetSize updates dimensions. Width and height include the panel border.
func (t *TableModel) SetSize(w, h int) {
	t.width = w
	t.height = h
	t.clampScroll()
}

// SetRecords replaces the table contents.
func (t *TableModel) SetRecords(records []accumulation.Record) {
	t.records = records
	t.cursor = 0
	t.offset = 0
}

// Reset clears the table.
func (t *TableModel) Reset() {
	t.SetRecords(nil)
}

// visibleRows returns how many record rows fit in the panel.
func (t TableModel) visibleRows() int {
	// Border takes 2 rows, header takes 1.
	rows := t.height - 3
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Update handles scroll keys.
func (t *TableModel) Update(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, t.keymap.Up):
		t.cursor--
	case key.Matches(msg, t.keymap.Down):
		t.cursor++
	case key.Matches(msg, t.keymap.PageUp):
		t.cursor -= t.visibleRows()
	case key.Matches(msg, t.keymap.PageDown):
		t.cursor += t.visibleRows()
	}
	t.clampScroll()
}

func (t *TableModel) clampScroll() {
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor > len(t.records)-1 {
		t.cursor = len(t.records) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	visible := t.visibleRows()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+visible {
		t.offset = t.cursor - visible + 1
	}
}

// View renders the table panel.
func (t TableModel) View() string {
	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("%-16s %7s %7s %7s %9s %9s",
		"source", "exts", "uniq", "uniq%", "cum", "cum uniq")))

	if len(t.records) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("no records yet"))
	} else {
		end := t.offset + t.visibleRows()
		if end > len(t.records) {
			end = len(t.records)
		}
		for i := t.offset; i < end; i++ {
			r := t.records[i]
			row := fmt.Sprintf("%-16s %7d %7d %6.1f%% %9d %9d",
				truncate(r.Source, 16), r.SetSize, r.UniqueSize, r.PercentUnique,
				r.CumulativeTotal, r.CumulativeUnique)
			b.WriteString("\n")
			if i == t.cursor {
				b.WriteString(tableCursorStyle.Render("> " + row))
			} else {
				b.WriteString(tableRowStyle.Render("  " + row))
			}
		}
	}

	innerHeight := t.height - 2
	if innerHeight < 3 {
		innerHeight = 3
	}
	return panelStyle.Width(t.width - 2).Height(innerHeight).Render(b.String())
}

// truncate shortens s to at most n runes, with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
