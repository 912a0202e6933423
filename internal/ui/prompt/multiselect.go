package prompt

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/miketan/gitprop/internal/ui/styles"
)

// MultiSelectResult holds the result of a multi-selection prompt.
type MultiSelectResult struct {
	Indices   []int // indices into the original options, in display order
	Cancelled bool
}

// stringSource implements fuzzy.Source for plain options.
type stringSource []string

func (s stringSource) String(i int) string { return s[i] }
func (s stringSource) Len() int            { return len(s) }

type multiSelectModel struct {
	prompt    string
	options   []string
	filtered  []fuzzy.Match
	selected  map[int]bool // keyed by original option index
	textInput textinput.Model
	cursor    int
	maxHeight int
	done      bool
	cancelled bool
}

func newMultiSelectModel(prompt string, options []string) multiSelectModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.Focus()
	ti.CharLimit = 100
	ti.SetWidth(40)

	m := multiSelectModel{
		prompt:    prompt,
		options:   options,
		selected:  make(map[int]bool),
		textInput: ti,
		maxHeight: 10,
	}
	m.applyFilter("")
	return m
}

// applyFilter rebuilds the visible matches for the given query.
// An empty query shows every option in original order.
func (m *multiSelectModel) applyFilter(query string) {
	if query == "" {
		m.filtered = make([]fuzzy.Match, len(m.options))
		for i, opt := range m.options {
			m.filtered[i] = fuzzy.Match{Str: opt, Index: i}
		}
		return
	}
	m.filtered = fuzzy.FindFrom(query, stringSource(m.options))
}

func (m multiSelectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit

		case "enter":
			m.done = true
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil

		case "tab", "space", " ":
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				idx := m.filtered[m.cursor].Index
				m.selected[idx] = !m.selected[idx]
			}
			return m, nil
		}
	}

	// Handle text input
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	m.applyFilter(m.textInput.Value())

	// Reset cursor if out of bounds
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}

	return m, cmd
}

func (m multiSelectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var sb strings.Builder
	sb.WriteString(m.prompt)
	sb.WriteString("\n")
	sb.WriteString(m.textInput.View())
	sb.WriteString("\n\n")

	if len(m.filtered) == 0 {
		sb.WriteString(styles.MutedStyle.Render("  No matches found"))
		sb.WriteString("\n")
	} else {
		// Calculate visible range, keeping the cursor centered
		start := 0
		end := len(m.filtered)
		if end > m.maxHeight {
			halfHeight := m.maxHeight / 2
			start = m.cursor - halfHeight
			if start < 0 {
				start = 0
			}
			end = start + m.maxHeight
			if end > len(m.filtered) {
				end = len(m.filtered)
				start = max(0, end-m.maxHeight)
			}
		}

		for i := start; i < end; i++ {
			match := m.filtered[i]
			mark := "[ ]"
			if m.selected[match.Index] {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s", mark, match.Str)

			if i == m.cursor {
				sb.WriteString(styles.AccentStyle.Render("> " + line))
			} else if m.selected[match.Index] {
				sb.WriteString("  " + styles.SuccessStyle.Render(line))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}

		if len(m.filtered) > m.maxHeight {
			sb.WriteString(styles.MutedStyle.Render(fmt.Sprintf("\n  %d/%d", m.cursor+1, len(m.filtered))))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(styles.MutedStyle.Render("↑/↓ navigate • space toggle • enter confirm • esc cancel"))

	return tea.NewView(sb.String())
}

// indices returns the selected original indices in display order.
func (m multiSelectModel) indices() []int {
	var out []int
	for i := range m.options {
		if m.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// MultiSelect shows a fuzzy-filterable checklist and returns the
// indices of the chosen options.
func MultiSelect(prompt string, options []string) (MultiSelectResult, error) {
	if len(options) == 0 {
		return MultiSelectResult{Cancelled: true}, nil
	}

	model := newMultiSelectModel(prompt, options)
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return MultiSelectResult{}, err
	}
	m := finalModel.(multiSelectModel)

	if m.cancelled {
		return MultiSelectResult{Cancelled: true}, nil
	}
	return MultiSelectResult{Indices: m.indices()}, nil
}
