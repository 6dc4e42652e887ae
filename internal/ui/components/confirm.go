package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dictation/internal/ui/theme"
)

// ConfirmResultMsg is emitted once the user answers; Action echoes what was asked.
type ConfirmResultMsg struct {
	Action   string
	Accepted bool
}

var confirmStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.DoubleBorder()).
	BorderForeground(theme.Red).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(1, 2)

// Confirm is a yes/no overlay guarding destructive actions.
type Confirm struct {
	action   string
	question string
	keys     string
	visible  bool
	width    int
}

func NewConfirm() Confirm {
	return Confirm{}
}

func (c Confirm) Visible() bool { return c.visible }

// Ask shows question for action; keys is the localized y/n hint line.
func (c *Confirm) Ask(action, question, keys string) {
	c.action = action
	c.question = question
	c.keys = keys
	c.visible = true
}

func (c *Confirm) SetWidth(w int) { c.width = w }

func (c Confirm) Update(msg tea.Msg) (Confirm, tea.Cmd) {
	if !c.visible {
		return c, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	var accepted bool
	switch key.String() {
	case "y", "Y", "enter":
		accepted = true
	case "n", "N", "esc":
	default:
		return c, nil
	}
	c.visible = false
	action := c.action
	return c, func() tea.Msg { return ConfirmResultMsg{Action: action, Accepted: accepted} }
}

func (c Confirm) View() string {
	if !c.visible {
		return ""
	}
	w := c.width
	if w < 20 {
		w = 60
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		theme.Warning.Render(c.question),
		"",
		theme.Muted.Render(c.keys),
	)
	return confirmStyle.Width(w - 4).Render(body)
}
