package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	studydto "dictation/internal/modules/study/dto"
	"dictation/internal/platform/i18n"
	"dictation/internal/ui/theme"
)

// Model shows mastery of the open unit and the study records of every unit.
type Model struct {
	tr       i18n.Translator
	overview studydto.OverviewOutput
	loaded   bool
	err      error
	bar      progress.Model
	viewport viewport.Model
	width    int
}

func New(tr i18n.Translator) Model {
	bar := progress.New(progress.WithGradient(string(theme.Peach), string(theme.Green)))
	return Model{tr: tr, bar: bar, viewport: viewport.New(0, 0)}
}

func (m *Model) SetOverview(overview studydto.OverviewOutput, err error) {
	m.err = err
	if err == nil {
		m.overview = overview
		m.loaded = true
	}
	m.viewport.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.viewport.Width = size.Width
		m.viewport.Height = size.Height
		m.bar.Width = min(size.Width-4, 60)
		m.viewport.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m Model) render() string {
	if m.err != nil {
		return theme.Warning.Render(m.err.Error())
	}
	if !m.loaded {
		return theme.Muted.Render(m.tr.T("unit.loading"))
	}
	o := m.overview
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(o.Title) + "\n\n")

	sb.WriteString(m.tr.T("stats.overall") + "\n")
	sb.WriteString(m.bar.ViewAs(float64(o.Overall.Percent)/100) + "\n")
	sb.WriteString(theme.Muted.Render(m.tr.T("stats.items", o.Overall.Mastered, o.Overall.Total)) + "\n\n")

	sb.WriteString(m.summary(m.tr.T("tab.words"), o.Words))
	sb.WriteString(m.summary(m.tr.T("tab.sentences"), o.Sentences))

	if o.Unit.Found {
		sb.WriteString(fmt.Sprintf("%s  %s\n", theme.Muted.Render(m.tr.T("stats.time")), m.tr.Minutes(o.Unit.TotalTime)))
		sb.WriteString(fmt.Sprintf("%s  %d\n", theme.Muted.Render(m.tr.T("stats.sessions")), o.Unit.Sessions))
		sb.WriteString(fmt.Sprintf("%s  %s\n", theme.Muted.Render(m.tr.T("stats.last")), m.tr.Date(o.Unit.LastAccessed)))
	}

	sb.WriteString("\n" + theme.Title.Render(m.tr.T("stats.all_units")) + "\n")
	if len(o.All) == 0 {
		sb.WriteString(theme.Muted.Render(m.tr.T("stats.empty")) + "\n")
	}
	for _, unit := range o.All {
		row := m.tr.T("stats.row", unit.UnitID, unit.Mastery, unit.Sessions)
		if unit.UnitID == o.UnitID {
			row = theme.Hot.Render(row)
		}
		sb.WriteString(row + "  " + theme.Muted.Render(m.tr.Minutes(unit.TotalTime)) + "\n")
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(sb.String())
}

func (m Model) summary(label string, s studydto.SummaryOutput) string {
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d  %s\n",
		theme.Title.Render(label),
		theme.Muted.Render(m.tr.T("stats.total")), s.Total,
		theme.Good.Render(m.tr.T("stats.mastered")), s.Mastered,
		theme.Hot.Render(m.tr.T("stats.review")), s.Review,
		theme.Muted.Render(m.tr.T("stats.mastery", s.Percent)),
	)
}
