package prompt

import (
	"os"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/miketan/gitprop/internal/ui/styles"
)

// TextInputResult holds the result of a single-line input prompt.
type TextInputResult struct {
	Value     string
	Cancelled bool
}

type textInputModel struct {
	input     textinput.Model
	prompt    string
	done      bool
	cancelled bool
}

func (m textInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textInputModel) render() string {
	if m.done {
		return ""
	}
	help := styles.MutedStyle.Render("enter accept • esc cancel")
	return m.prompt + "\n" + m.input.View() + "\n" + help
}

func (m textInputModel) View() tea.View {
	return tea.NewView(m.render())
}

// TextInput reads a single line, e.g. a branch name or a PR title.
// The placeholder shows a suggestion that applies when the user
// submits an empty line; the caller decides whether to use it.
func TextInput(prompt, placeholder string) (TextInputResult, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 200
	ti.SetWidth(60)

	model := textInputModel{input: ti, prompt: prompt}
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return TextInputResult{}, err
	}
	m := finalModel.(textInputModel)
	return TextInputResult{
		Value:     m.input.Value(),
		Cancelled: m.cancelled,
	}, nil
}
