// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"strings"
	"testing"
)

func TestTableRenderStructure(t *testing.T) {
	table := NewTable("page", "function", "flavor")
	table.AddRow("Setup", "install", "python")
	table.AddRow("Setup", "clean", "shell")

	out := table.Render(DefaultTableStyles())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// Header, divider, two data rows.
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), out)
	}
	for _, want := range []string{"page", "function", "flavor"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("header %q missing %q", lines[0], want)
		}
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("divider missing: %q", lines[1])
	}
	if !strings.Contains(lines[2], "install") || !strings.Contains(lines[3], "clean") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestTableRowCount(t *testing.T) {
	table := NewTable("a")
	if table.RowCount() != 0 {
		t.Errorf("RowCount() = %d, want 0", table.RowCount())
	}
	table.AddRow("x")
	table.AddRow("y")
	if table.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", table.RowCount())
	}
}

func TestTableHandlesRaggedRows(t *testing.T) {
	table := NewTable("a", "b")
	table.AddRow("only-one")
	table.AddRow("x", "y", "dropped")

	out := table.Render(DefaultTableStyles())

	if !strings.Contains(out, "only-one") {
		t.Error("short row missing")
	}
	if strings.Contains(out, "dropped") {
		t.Error("extra cell rendered")
	}
}

func TestTableMultilineCellFirstLineOnly(t *testing.T) {
	table := NewTable("desc")
	table.AddRow("first line\nsecond line")

	out := table.Render(DefaultTableStyles())

	if !strings.Contains(out, "first line") {
		t.Error("first line missing")
	}
	if strings.Contains(out, "second line") {
		t.Error("second line rendered")
	}
}
