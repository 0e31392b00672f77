// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmOptions configures a yes/no confirmation.
type ConfirmOptions struct {
	// Title is the question to answer.
	Title string
	// Description is extra context shown below the title, e.g. the
	// command about to run.
	Description string
	// Default is the answer for a bare Enter.
	Default bool
}

type confirmModel struct {
	opts      ConfirmOptions
	selection bool
	done      bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.selection = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.selection = false
		m.done = true
		return m, tea.Quit
	case "left", "h", "right", "l", "tab":
		m.selection = !m.selection
		return m, nil
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	title := lipgloss.NewStyle().Bold(true).Render(m.opts.Title)
	yes, no := "Yes", "No"
	selected := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	if m.selection {
		yes = selected.Render("[" + yes + "]")
		no = " " + no + " "
	} else {
		yes = " " + yes + " "
		no = selected.Render("[" + no + "]")
	}

	out := title + "\n"
	if m.opts.Description != "" {
		out += lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(m.opts.Description) + "\n"
	}
	return fmt.Sprintf("%s\n%s  %s\n", out, yes, no)
}

// Confirm asks a yes/no question. Esc and Ctrl+C answer no.
func Confirm(opts ConfirmOptions) (bool, error) {
	final, err := tea.NewProgram(confirmModel{opts: opts, selection: opts.Default}).Run()
	if err != nil {
		return false, fmt.Errorf("run confirm: %w", err)
	}
	m, ok := final.(confirmModel)
	if !ok || m.cancelled {
		return false, nil
	}
	return m.selection, nil
}
