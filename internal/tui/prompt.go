// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// PromptOptions configures a single-line text prompt.
type PromptOptions struct {
	// Title is the question shown above the input.
	Title string
	// Placeholder is shown while the input is empty.
	Placeholder string
	// Default is returned when the user submits an empty input.
	Default string
}

type promptModel struct {
	input     textinput.Model
	title     string
	done      bool
	cancelled bool
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	title := lipgloss.NewStyle().Bold(true).Render(m.title)
	return fmt.Sprintf("%s\n%s\n", title, m.input.View())
}

// Prompt asks for one line of input. An empty submission yields the
// default; Esc or Ctrl+C yields ErrCancelled.
func Prompt(opts PromptOptions) (string, error) {
	input := textinput.New()
	input.Placeholder = opts.Placeholder
	input.Focus()

	final, err := tea.NewProgram(promptModel{input: input, title: opts.Title}).Run()
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok || m.cancelled {
		return "", ErrCancelled
	}
	value := m.input.Value()
	if value == "" {
		value = opts.Default
	}
	return value, nil
}
