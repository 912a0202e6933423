package prompt

import (
	"fmt"
	"os"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"

	"github.com/miketan/gitprop/internal/ui/styles"
)

// TextAreaResult holds the result of a multiline editor prompt.
type TextAreaResult struct {
	Value     string
	Cancelled bool
}

type textAreaModel struct {
	textarea  textarea.Model
	prompt    string
	done      bool
	cancelled bool
}

func (m textAreaModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m textAreaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+s", "ctrl+d":
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m textAreaModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	help := styles.MutedStyle.Render("ctrl+s save • esc cancel")
	return tea.NewView(fmt.Sprintf("%s\n%s\n%s", m.prompt, m.textarea.View(), help))
}

// TextArea shows a multiline editor prefilled with initial content,
// used for reviewing generated commit messages before they are used.
func TextArea(prompt, initial string) (TextAreaResult, error) {
	ta := textarea.New()
	ta.SetValue(initial)
	ta.Focus()
	ta.SetWidth(72)
	ta.SetHeight(8)

	model := textAreaModel{
		textarea: ta,
		prompt:   prompt,
	}
	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return TextAreaResult{}, err
	}
	m := finalModel.(textAreaModel)
	return TextAreaResult{
		Value:     m.textarea.Value(),
		Cancelled: m.cancelled,
	}, nil
}
