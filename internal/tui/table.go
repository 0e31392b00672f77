// SPDX-License-Identifier: MPL-2.0

// Package tui holds the terminal interaction pieces of robopages: the
// static listing table, the parameter prompt, and the execution
// confirmation.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableStyles are the lipgloss styles a Table renders with.
type TableStyles struct {
	Header    lipgloss.Style
	Cell      lipgloss.Style
	Separator lipgloss.Style
}

// DefaultTableStyles returns the standard table look.
func DefaultTableStyles() TableStyles {
	return TableStyles{
		Header:    lipgloss.NewStyle().Bold(true),
		Cell:      lipgloss.NewStyle(),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

// Table renders static tabular data. It is not interactive; output is
// plain text suitable for pipes.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Missing cells render empty; extra cells are
// dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.rows) }

// Render lays the table out with per-column widths, a header row, and a
// divider. Multi-line cells occupy the first line only.
func (t *Table) Render(styles TableStyles) string {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := range t.headers {
			if w := lipgloss.Width(t.cell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	total := 0
	for _, w := range widths {
		total += w
	}
	total += len(t.headers) - 1

	var sb strings.Builder
	headerStyle := styles.Header.Padding(0, 1)
	cellStyle := styles.Cell.Padding(0, 1)

	for i, h := range t.headers {
		sb.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(t.headers)-1 {
			sb.WriteString(styles.Separator.Render("|"))
		}
	}
	sb.WriteByte('\n')
	sb.WriteString(styles.Separator.Render(strings.Repeat("-", total)))
	sb.WriteByte('\n')

	for _, row := range t.rows {
		for i := range t.headers {
			sb.WriteString(cellStyle.Width(widths[i]).Render(t.cell(row, i)))
			if i < len(t.headers)-1 {
				sb.WriteString(styles.Separator.Render("|"))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (t *Table) cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	cell := row[i]
	if idx := strings.IndexByte(cell, '\n'); idx >= 0 {
		cell = cell[:idx]
	}
	return cell
}
