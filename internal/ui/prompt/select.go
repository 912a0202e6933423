package prompt

import (
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/miketan/gitprop/internal/ui/styles"
)

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Value     string
	Index     int
	Cancelled bool
}

type selectModel struct {
	prompt    string
	options   []string
	cursor    int
	done      bool
	cancelled bool
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "enter":
		m.done = true
		return m, tea.Quit

	case "ctrl+c", "esc", "q":
		m.cancelled = true
		m.done = true
		return m, tea.Quit

	case "up", "k", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j", "ctrl+n":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}

	default:
		// A number key picks that option directly, 1-based
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(m.options) {
				m.cursor = idx
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m selectModel) render() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.prompt)
	sb.WriteString("\n\n")
	for i, opt := range m.options {
		line := fmt.Sprintf("%d. %s", i+1, opt)
		if i == m.cursor {
			sb.WriteString(styles.AccentStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(styles.MutedStyle.Render("↑/↓ navigate • 1-9 pick • enter confirm • esc cancel"))
	return sb.String()
}

func (m selectModel) View() tea.View {
	return tea.NewView(m.render())
}

// Select shows a numbered list and returns the chosen option. Number
// keys pick and confirm in one stroke, which suits short lists like
// the parents of a merge commit.
func Select(prompt string, options []string) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	model := selectModel{prompt: prompt, options: options}
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return SelectResult{}, err
	}
	m := finalModel.(selectModel)

	if m.cancelled {
		return SelectResult{Cancelled: true}, nil
	}
	return SelectResult{
		Value: options[m.cursor],
		Index: m.cursor,
	}, nil
}
