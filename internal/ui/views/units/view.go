package units

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	lessondto "dictation/internal/modules/lesson/dto"
	"dictation/internal/platform/i18n"
	"dictation/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type IndexPort interface {
	LoadIndex(ctx context.Context) (lessondto.IndexOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type IndexLoadedMsg struct {
	Index lessondto.IndexOutput
	Err   error
}

// OpenUnitMsg asks the app to switch to a unit.
type OpenUnitMsg struct {
	UnitID string
}

// ─── list item ───────────────────────────────────────────────────────────────

type unitItem struct {
	ref    lessondto.UnitRefOutput
	counts string
}

func (i unitItem) Title() string       { return i.ref.Title }
func (i unitItem) Description() string { return i.ref.ID + "  " + i.counts }
func (i unitItem) FilterValue() string { return i.ref.ID + " " + i.ref.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    IndexPort
	tr      i18n.Translator
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	loading bool
	current string
	err     error
	width   int
	height  int
}

func New(port IndexPort, tr i18n.Translator) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = tr.T("tab.units")
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		tr:      tr,
		list:    l,
		detail:  vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the index again, picking up uploads.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		index, err := m.port.LoadIndex(context.Background())
		return IndexLoadedMsg{Index: index, Err: err}
	}
}

// SetCurrent highlights the open unit in the detail pane.
func (m *Model) SetCurrent(unitID string) {
	m.current = unitID
	m.detail.SetContent(m.renderDetail())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case IndexLoadedMsg:
		m.loading = false
		m.err = msg.Err
		items := make([]list.Item, len(msg.Index.Units))
		for i, ref := range msg.Index.Units {
			items[i] = unitItem{ref: ref, counts: m.tr.T("unit.counts", ref.WordsCount, ref.SentencesCount)}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if id, ok := m.SelectedUnitID(); ok {
				return m, func() tea.Msg { return OpenUnitMsg{UnitID: id} }
			}
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.detail.SetContent(m.renderDetail())
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.tr.T("unit.loading"))
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.detail.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedUnitID() (string, bool) {
	if item, ok := m.list.SelectedItem().(unitItem); ok {
		return item.ref.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.detail.Width = detailW - 4
	m.detail.Height = m.height - 4
}

func (m Model) renderDetail() string {
	if m.err != nil {
		return theme.Warning.Render(m.tr.T("index.failed"))
	}
	item, ok := m.list.SelectedItem().(unitItem)
	if !ok {
		return theme.Muted.Render(m.tr.T("stats.empty"))
	}
	ref := item.ref
	var sb strings.Builder
	title := ref.Title
	if ref.ID == m.current {
		title = "● " + title
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:    ") + ref.ID + "\n")
	if ref.Description != "" {
		sb.WriteString(theme.Muted.Render("about: ") + ref.Description + "\n")
	}
	sb.WriteString(theme.Muted.Render("size:  ") + item.counts + "\n")
	if ref.Difficulty != "" {
		sb.WriteString(theme.Muted.Render("level: ") + ref.Difficulty + "\n")
	}
	if ref.Created != "" {
		sb.WriteString(theme.Muted.Render("added: ") + ref.Created + "\n")
	}
	if ref.Uploaded {
		sb.WriteString(theme.Hot.Render(m.tr.T("unit.default_description")) + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: open"))
	return sb.String()
}
