package display

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Table renders aligned text columns.
type Table struct {
	headers []string
	rows    [][]string
	// highlight is the 0-based row drawn with Accent, -1 for none.
	highlight int
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, highlight: -1}
}

// AddRow appends a row; missing trailing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Highlight marks row idx.
func (t *Table) Highlight(idx int) {
	t.highlight = idx
}

// Render returns the table with a two-space indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(rule, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlight {
			line = Accent(line)
		}
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// MonthTable lays out one row per day with a column per prayer. The row
// for today, if present, is highlighted. timeLayout is a Go time layout such
// as "15:04".
func MonthTable(m prayer.Month, today civil.Date, timeLayout string) *Table {
	headers := []string{"Date"}
	for _, k := range prayer.Kinds() {
		headers = append(headers, k.String())
	}
	t := NewTable(headers...)

	i := 0
	for day := range m.All() {
		cells := []string{day.Date.In(time.UTC).Format("Mon 02 Jan")}
		for _, p := range day.Prayers() {
			cells = append(cells, prayer.FormatClock(p.Time, timeLayout))
		}
		t.AddRow(cells...)
		if day.Date == today {
			t.Highlight(i)
		}
		i++
	}
	return t
}
