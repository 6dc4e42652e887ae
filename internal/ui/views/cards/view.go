package cards

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	studydto "dictation/internal/modules/study/dto"
	"dictation/internal/platform/i18n"
	"dictation/internal/ui/theme"
)

// Model lists the cards of one tab and tracks the selected one.
type Model struct {
	tr       i18n.Translator
	title    string
	cards    []studydto.CardOutput
	cursor   int
	playing  string
	viewport viewport.Model
	width    int
	height   int
}

func New(tr i18n.Translator, title string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text)
	return Model{tr: tr, title: title, viewport: vp}
}

// SetCards replaces the cards, keeping the cursor in range.
func (m *Model) SetCards(cards []studydto.CardOutput, playing string) {
	m.cards = cards
	m.playing = playing
	if m.cursor >= len(cards) {
		m.cursor = len(cards) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.refresh()
}

// SetPlaying marks which card owns playback; empty clears it.
func (m *Model) SetPlaying(control string) {
	m.playing = control
	m.refresh()
}

func (m Model) Selected() (studydto.CardOutput, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return studydto.CardOutput{}, false
	}
	return m.cards[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 1
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			m.move(-1)
			return m, nil
		case "down", "j":
			m.move(1)
			return m, nil
		case "home", "g":
			m.cursor = 0
			m.refresh()
			return m, nil
		case "end", "G":
			m.cursor = len(m.cards) - 1
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := theme.Title.Render(m.title)
	if len(m.cards) == 0 {
		return header + "\n" + theme.Muted.Render(m.tr.T("unit.loading"))
	}
	return header + "\n" + m.viewport.View()
}

func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.cards) {
		return
	}
	m.cursor = next
	m.refresh()
}

// refresh re-renders every card and scrolls the selected one into view.
func (m *Model) refresh() {
	var (
		sb              strings.Builder
		line, top, rows int
	)
	for i, card := range m.cards {
		block := m.renderCard(card, i == m.cursor)
		h := lipgloss.Height(block)
		if i == m.cursor {
			top, rows = line, h
		}
		line += h
		sb.WriteString(block + "\n")
	}
	m.viewport.SetContent(sb.String())
	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case top+rows > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(top + rows - m.viewport.Height)
	}
}

func (m Model) renderCard(card studydto.CardOutput, selected bool) string {
	style := theme.Pane
	switch {
	case selected:
		style = theme.PaneActive
	case card.Flipped:
		style = theme.PaneFlipped
	}
	width := m.width - 4
	if width < 24 {
		width = 24
	}

	heading := theme.Muted.Render(m.tr.T(card.NumberKey, card.Position))
	if m.playing != "" && card.ID == m.playing {
		heading += "  " + theme.Hot.Render("♪")
	}
	lines := []string{heading}
	if card.Flipped {
		lines = append(lines, theme.Title.Render(card.English), card.Translation)
		if card.Hint != "" {
			lines = append(lines, theme.Muted.Render(card.Hint))
		}
	} else {
		lines = append(lines, theme.Muted.Render(m.tr.T("card.flip_hint")))
	}
	lines = append(lines, Stars(card.Stars, card.MaxStars)+"  "+theme.Muted.Render(m.tr.T(card.LabelKey)))
	if card.Flipped {
		lines = append(lines, m.actions(card))
	}
	return style.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) actions(card studydto.CardOutput) string {
	correct := "c " + m.tr.T("card.correct")
	review := "r " + m.tr.T("card.review")
	play := "p " + m.tr.T("card.play")
	if card.CorrectEnabled {
		correct = theme.Good.Render(correct)
	} else {
		correct = theme.Muted.Strikethrough(true).Render(correct)
	}
	if card.ReviewEnabled {
		review = theme.Hot.Render(review)
	} else {
		review = theme.Muted.Strikethrough(true).Render(review)
	}
	return correct + "   " + review + "   " + theme.Muted.Render(play)
}

// Stars draws count filled stars out of limit.
func Stars(count, limit int) string {
	limit = max(limit, 0)
	count = min(max(count, 0), limit)
	return theme.Star.Render(strings.Repeat("★", count)) + theme.Muted.Render(strings.Repeat("☆", limit-count))
}
