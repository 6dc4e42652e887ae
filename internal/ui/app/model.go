package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	audiodto "dictation/internal/modules/audio/dto"
	backupdto "dictation/internal/modules/backup/dto"
	lessondto "dictation/internal/modules/lesson/dto"
	studydto "dictation/internal/modules/study/dto"
	apperrors "dictation/internal/platform/errors"
	"dictation/internal/platform/i18n"
	"dictation/internal/ui/components"
	"dictation/internal/ui/theme"
	cardsview "dictation/internal/ui/views/cards"
	statsview "dictation/internal/ui/views/stats"
	unitsview "dictation/internal/ui/views/units"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type studyPort interface {
	Open(ctx context.Context, unitID string) (studydto.WorkspaceOutput, error)
	Reload(ctx context.Context) (studydto.WorkspaceOutput, error)
	SelectTab(ctx context.Context, kind string) (studydto.WorkspaceOutput, error)
	Flip(ctx context.Context, itemID string) (studydto.FlipOutput, error)
	MarkCorrect(ctx context.Context, itemID string) (studydto.MarkOutput, error)
	MarkReview(ctx context.Context, itemID string) (studydto.MarkOutput, error)
	Play(ctx context.Context, itemID string) (studydto.PlayOutput, error)
	ResetTab(ctx context.Context, kind string) error
	ResetAll(ctx context.Context) error
	Tick(ctx context.Context) error
	Overview(ctx context.Context) (studydto.OverviewOutput, error)
}

type lessonPort interface {
	Index(ctx context.Context) (lessondto.IndexOutput, error)
	Upload(ctx context.Context, payload []byte) (lessondto.UnitRefOutput, error)
}

type backupPort interface {
	Export(ctx context.Context, path string) (backupdto.ExportOutput, error)
	Inspect(ctx context.Context, path string) (backupdto.ImportOutput, error)
	Import(ctx context.Context, path string, confirmed bool) (backupdto.ImportOutput, error)
}

type audioPort interface {
	Events() <-chan audiodto.EventOutput
	Say(ctx context.Context, text string) (audiodto.PlayOutput, error)
	WarmUp(ctx context.Context)
	Engine(ctx context.Context) (audiodto.EngineOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabWords tabID = iota
	tabSentences
	tabStats
	tabUnits
	tabCount
)

var tabKeys = [tabCount]string{"tab.words", "tab.sentences", "tab.stats", "tab.units"}

const (
	kindWords     = "words"
	kindSentences = "sentences"

	actionResetTab = "reset:tab"
	actionResetAll = "reset:all"
	actionImport   = "import"

	savingVisible = 500 * time.Millisecond
)

// ─── async messages ───────────────────────────────────────────────────────────

type workspaceMsg struct {
	ws     studydto.WorkspaceOutput
	err    error
	notice string
	saved  bool
}

type flipMsg struct {
	out studydto.FlipOutput
	err error
}

type markMsg struct {
	out studydto.MarkOutput
	err error
}

type overviewMsg struct {
	out studydto.OverviewOutput
	err error
}

type noticeMsg struct {
	text string
	err  error
}

type importCheckedMsg struct {
	path string
	err  error
}

type audioEventMsg struct {
	event audiodto.EventOutput
	ok    bool
}

type tickMsg struct{}

type tickDoneMsg struct{ err error }

type savingClearMsg struct{ seq int }

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Up      key.Binding
	Down    key.Binding
	Flip    key.Binding
	Correct key.Binding
	Review  key.Binding
	Play    key.Binding
	Reset   key.Binding
	Reload  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/1-4", "switch tab")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous card")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next card")),
		Flip:    key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "flip card")),
		Correct: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "mark correct")),
		Review:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "mark for review")),
		Play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play / stop")),
		Reset:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset tab")),
		Reload:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload unit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Flip, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Up, k.Down, k.Flip},
		{k.Correct, k.Review, k.Play},
		{k.Reset, k.Reload},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

type Options struct {
	UnitID       string
	TickInterval time.Duration
	WarmUp       bool
}

// Model is the root Bubble Tea model. It owns tab routing, the open workspace,
// the help overlay, the confirm overlay and the command palette.
type Model struct {
	study  studyPort
	lesson lessonPort
	backup backupPort
	audio  audioPort
	tr     i18n.Translator
	opts   Options

	wordsView     cardsview.Model
	sentencesView cardsview.Model
	statsView     statsview.Model
	unitsView     unitsview.Model

	ws            studydto.WorkspaceOutput
	hasUnit       bool
	playing       string
	activeTab     tabID
	keys          keyMap
	help          help.Model
	showHelp      bool
	palette       components.Palette
	confirm       components.Confirm
	pendingImport string
	saving        bool
	savingSeq     int
	status        string
	width         int
	height        int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(study studyPort, lesson lessonPort, backup backupPort, audio audioPort, tr i18n.Translator, opts Options) Model {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 30 * time.Second
	}
	return Model{
		study:         study,
		lesson:        lesson,
		backup:        backup,
		audio:         audio,
		tr:            tr,
		opts:          opts,
		wordsView:     cardsview.New(tr, tr.T("tab.words")),
		sentencesView: cardsview.New(tr, tr.T("tab.sentences")),
		statsView:     statsview.New(tr),
		unitsView:     unitsview.New(indexPortBridge{p: lesson}, tr),
		activeTab:     tabWords,
		keys:          defaultKeys(),
		help:          help.New(),
		palette:       components.NewPalette(),
		confirm:       components.NewConfirm(),
		status:        tr.T("unit.loading"),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.unitsView.Init(),
		m.openCmd(m.opts.UnitID),
		m.scheduleTick(),
		m.listenAudio(),
	}
	if m.opts.WarmUp {
		cmds = append(cmds, m.warmUpCmd())
	}
	return tea.Batch(cmds...)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Overlays intercept all input while open.
	if _, isKey := msg.(tea.KeyMsg); isKey {
		if m.confirm.Visible() {
			var cmd tea.Cmd
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}
		if m.palette.Visible() {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.confirm.SetWidth(min(m.width-4, 72))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case workspaceMsg:
		if msg.err != nil {
			m.status = m.describeError(msg.err)
			return m, nil
		}
		m.applyWorkspace(msg.ws)
		if msg.notice != "" {
			m.status = msg.notice
		}
		cmds = append(cmds, m.overviewCmd())
		if msg.saved {
			cmds = append(cmds, m.markSaving())
		}
		return m, tea.Batch(cmds...)

	case flipMsg:
		if msg.err != nil {
			m.status = m.describeError(msg.err)
			return m, nil
		}
		m.replaceCard(msg.out.Card)
		if msg.out.AudioErr != nil {
			m.status = m.describeError(msg.out.AudioErr)
		}
		return m, nil

	case markMsg:
		if msg.err != nil {
			m.status = m.describeError(msg.err)
			return m, nil
		}
		m.replaceCard(msg.out.Card)
		if !msg.out.Changed {
			return m, nil
		}
		saving := m.markSaving()
		return m, tea.Batch(m.overviewCmd(), saving)

	case overviewMsg:
		m.statsView.SetOverview(msg.out, msg.err)
		return m, nil

	case noticeMsg:
		if msg.err != nil {
			m.status = m.describeError(msg.err)
		} else {
			m.status = msg.text
		}
		return m, nil

	case importCheckedMsg:
		if msg.err != nil {
			m.status = m.tr.T("import.bad_format")
			return m, nil
		}
		m.pendingImport = msg.path
		m.confirm.Ask(actionImport, m.tr.T("confirm.import"), m.tr.T("confirm.keys"))
		return m, nil

	case components.ConfirmResultMsg:
		if !msg.Accepted {
			m.pendingImport = ""
			m.status = m.tr.T("status.ready")
			return m, nil
		}
		return m, m.confirmedCmd(msg.Action)

	case audioEventMsg:
		if !msg.ok {
			return m, nil
		}
		switch msg.event.Kind {
		case "started":
			m.playing = msg.event.Control
		case "released":
			if m.playing == msg.event.Control {
				m.playing = ""
			}
			if msg.event.Err != nil {
				m.status = m.describeError(msg.event.Err)
			}
		}
		m.wordsView.SetPlaying(m.playing)
		m.sentencesView.SetPlaying(m.playing)
		return m, m.listenAudio()

	case tickMsg:
		return m, tea.Batch(m.tickCmd(), m.scheduleTick())

	case tickDoneMsg:
		if msg.err != nil {
			m.status = m.describeError(msg.err)
			return m, nil
		}
		if m.activeTab == tabStats {
			return m, m.overviewCmd()
		}
		return m, nil

	case savingClearMsg:
		if msg.seq == m.savingSeq {
			m.saving = false
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = m.tr.T("status.ready")
		return m, nil

	case unitsview.OpenUnitMsg:
		m.activeTab = tabWords
		return m, m.openCmd(msg.UnitID)

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the unit list when its search filter is active.
		if m.activeTab == tabUnits && m.unitsView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			return m.switchTab((m.activeTab + 1) % tabCount)
		case "shift+tab":
			return m.switchTab((m.activeTab + tabCount - 1) % tabCount)
		case "1", "2", "3", "4":
			return m.switchTab(tabID(msg.String()[0] - '1'))
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "ctrl+r":
			return m, m.reloadCmd("")
		}

		if m.activeTab == tabWords || m.activeTab == tabSentences {
			if cmd, handled := m.cardKey(msg.String()); handled {
				return m, cmd
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabWords:
		m.wordsView, tabCmd = m.wordsView.Update(msg)
	case tabSentences:
		m.sentencesView, tabCmd = m.sentencesView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	case tabUnits:
		m.unitsView, tabCmd = m.unitsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	// The unit list also needs its async results while another tab is shown.
	if _, ok := msg.(unitsview.IndexLoadedMsg); ok && m.activeTab != tabUnits {
		var cmd tea.Cmd
		m.unitsView, cmd = m.unitsView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) cardKey(k string) (tea.Cmd, bool) {
	switch k {
	case "R":
		if !m.hasUnit {
			return nil, true
		}
		m.confirmAsk(actionResetTab, m.tr.T("confirm.reset_tab"))
		return nil, true
	}
	card, ok := m.selectedCard()
	if !ok {
		return nil, false
	}
	switch k {
	case " ", "enter":
		return m.flipCmd(card.ID), true
	case "c":
		if !card.CorrectEnabled {
			return nil, true
		}
		return m.markCmd(card.ID, true), true
	case "r":
		if !card.ReviewEnabled {
			return nil, true
		}
		return m.markCmd(card.ID, false), true
	case "p":
		return m.playCmd(card.ID), true
	}
	return nil, false
}

func (m Model) switchTab(tab tabID) (tea.Model, tea.Cmd) {
	if tab < 0 || tab >= tabCount {
		return m, nil
	}
	m.activeTab = tab
	switch tab {
	case tabWords:
		return m, m.selectTabCmd(kindWords)
	case tabSentences:
		return m, m.selectTabCmd(kindSentences)
	case tabStats:
		return m, m.overviewCmd()
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.confirm.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.confirm.View())
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabWords:
		return m.wordsView.View()
	case tabSentences:
		return m.sentencesView.View()
	case tabStats:
		return m.statsView.View()
	case tabUnits:
		return m.unitsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, m.tr.T(tabKeys[i]))
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := m.tr.T("app.title") + "  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasUnit {
		left = theme.Hot.Render("● "+m.ws.Title) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	if m.saving {
		right = theme.Good.Render(m.tr.T("status.saving")) + "  " + right
	}
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "unit":
		if arg == "" {
			m.status = "usage: unit <id>"
			return m, nil
		}
		m.activeTab = tabWords
		return m, m.openCmd(arg)

	case "reload":
		return m, m.reloadCmd("")

	case "upload":
		if arg == "" {
			m.status = "usage: upload <file.json>"
			return m, nil
		}
		m.activeTab = tabWords
		return m, tea.Sequence(m.uploadCmd(arg), m.unitsView.Reload())

	case "export":
		return m, m.exportCmd(arg)

	case "import":
		if arg == "" {
			m.status = "usage: import <file.json>"
			return m, nil
		}
		return m, m.inspectCmd(arg)

	case actionResetTab:
		if m.hasUnit {
			m.confirmAsk(actionResetTab, m.tr.T("confirm.reset_tab"))
		}
		return m, nil

	case actionResetAll:
		m.confirmAsk(actionResetAll, m.tr.T("confirm.reset_all"))
		return m, nil

	case "say":
		if arg == "" {
			m.status = "usage: say <text>"
			return m, nil
		}
		return m, m.sayCmd(arg)

	case "engine":
		return m, m.engineCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) confirmAsk(action, question string) {
	m.confirm.Ask(action, question, m.tr.T("confirm.keys"))
}

func (m *Model) applyWorkspace(ws studydto.WorkspaceOutput) {
	m.ws = ws
	m.hasUnit = true
	m.playing = ws.Playing
	m.wordsView.SetCards(ws.Words, ws.Playing)
	m.sentencesView.SetCards(ws.Sentences, ws.Playing)
	m.unitsView.SetCurrent(ws.UnitID)
}

func (m *Model) replaceCard(card studydto.CardOutput) {
	cards := m.ws.Words
	if card.Kind == kindSentences {
		cards = m.ws.Sentences
	}
	for i := range cards {
		if cards[i].ID == card.ID {
			cards[i] = card
		}
	}
	m.wordsView.SetCards(m.ws.Words, m.playing)
	m.sentencesView.SetCards(m.ws.Sentences, m.playing)
}

func (m Model) selectedCard() (studydto.CardOutput, bool) {
	if m.activeTab == tabSentences {
		return m.sentencesView.Selected()
	}
	return m.wordsView.Selected()
}

func (m *Model) markSaving() tea.Cmd {
	m.saving = true
	m.savingSeq++
	seq := m.savingSeq
	return tea.Tick(savingVisible, func(time.Time) tea.Msg { return savingClearMsg{seq: seq} })
}

func (m Model) describeError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrIndexUnavailable):
		return m.tr.T("index.failed")
	case errors.Is(err, apperrors.ErrUnitUnavailable):
		return m.tr.T("unit.load_failed")
	case errors.Is(err, apperrors.ErrInvalidUnit):
		return m.tr.T("upload.failed", err.Error())
	case errors.Is(err, apperrors.ErrSpeechUnavailable):
		return m.tr.T("audio.unavailable")
	case errors.Is(err, apperrors.ErrNoActiveUnit):
		return m.tr.T("unit.loading")
	default:
		return err.Error()
	}
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.wordsView, _ = m.wordsView.Update(sz)
	m.sentencesView, _ = m.sentencesView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
	m.unitsView, _ = m.unitsView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) openCmd(unitID string) tea.Cmd {
	return func() tea.Msg {
		ws, err := m.study.Open(context.Background(), unitID)
		if err != nil {
			return workspaceMsg{err: err}
		}
		return workspaceMsg{ws: ws, notice: m.tr.T("unit.loaded", ws.Title)}
	}
}

func (m Model) reloadCmd(notice string) tea.Cmd {
	return func() tea.Msg {
		ws, err := m.study.Reload(context.Background())
		if errors.Is(err, apperrors.ErrNoActiveUnit) {
			ws, err = m.study.Open(context.Background(), "")
		}
		return workspaceMsg{ws: ws, err: err, notice: notice}
	}
}

func (m Model) selectTabCmd(kind string) tea.Cmd {
	if !m.hasUnit {
		return nil
	}
	return func() tea.Msg {
		ws, err := m.study.SelectTab(context.Background(), kind)
		return workspaceMsg{ws: ws, err: err}
	}
}

func (m Model) flipCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.study.Flip(context.Background(), itemID)
		return flipMsg{out: out, err: err}
	}
}

func (m Model) markCmd(itemID string, correct bool) tea.Cmd {
	return func() tea.Msg {
		mark := m.study.MarkReview
		if correct {
			mark = m.study.MarkCorrect
		}
		out, err := mark(context.Background(), itemID)
		return markMsg{out: out, err: err}
	}
}

func (m Model) playCmd(itemID string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.study.Play(context.Background(), itemID)
		return noticeMsg{err: err}
	}
}

func (m Model) overviewCmd() tea.Cmd {
	if !m.hasUnit {
		return nil
	}
	return func() tea.Msg {
		out, err := m.study.Overview(context.Background())
		return overviewMsg{out: out, err: err}
	}
}

func (m Model) confirmedCmd(action string) tea.Cmd {
	switch action {
	case actionResetTab:
		kind := kindWords
		if m.activeTab == tabSentences {
			kind = kindSentences
		}
		return func() tea.Msg {
			if err := m.study.ResetTab(context.Background(), kind); err != nil {
				return workspaceMsg{err: err}
			}
			ws, err := m.study.SelectTab(context.Background(), kind)
			return workspaceMsg{ws: ws, err: err, notice: m.tr.T("reset.tab_done"), saved: true}
		}
	case actionResetAll:
		return func() tea.Msg {
			if err := m.study.ResetAll(context.Background()); err != nil {
				return workspaceMsg{err: err}
			}
			ws, err := m.study.Open(context.Background(), "")
			return workspaceMsg{ws: ws, err: err, notice: m.tr.T("reset.all_done"), saved: true}
		}
	case actionImport:
		path := m.pendingImport
		return func() tea.Msg {
			if _, err := m.backup.Import(context.Background(), path, true); err != nil {
				if errors.Is(err, apperrors.ErrInvalidInput) {
					return noticeMsg{text: m.tr.T("import.bad_format")}
				}
				return noticeMsg{err: err}
			}
			return m.reloadCmd(m.tr.T("import.done"))()
		}
	}
	return nil
}

func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		payload, err := os.ReadFile(path)
		if err != nil {
			return noticeMsg{text: m.tr.T("upload.failed", err.Error())}
		}
		ref, err := m.lesson.Upload(context.Background(), payload)
		if err != nil {
			return noticeMsg{text: m.tr.T("upload.failed", err.Error())}
		}
		// Re-uploading the open unit must replace its cards.
		var ws studydto.WorkspaceOutput
		if m.hasUnit && m.ws.UnitID == ref.ID {
			ws, err = m.study.Reload(context.Background())
		} else {
			ws, err = m.study.Open(context.Background(), ref.ID)
		}
		return workspaceMsg{ws: ws, err: err, notice: m.tr.T("upload.ok")}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.backup.Export(context.Background(), path)
		if err != nil {
			return noticeMsg{err: err}
		}
		return noticeMsg{text: m.tr.T("export.done", out.Path)}
	}
}

func (m Model) inspectCmd(path string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.backup.Inspect(context.Background(), path)
		return importCheckedMsg{path: path, err: err}
	}
}

func (m Model) sayCmd(text string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.audio.Say(context.Background(), text)
		return noticeMsg{err: err}
	}
}

func (m Model) engineCmd() tea.Cmd {
	return func() tea.Msg {
		info, err := m.audio.Engine(context.Background())
		if err != nil {
			return noticeMsg{err: err}
		}
		return noticeMsg{text: fmt.Sprintf("%s (%s %s) available=%t", info.Name, info.Kind, info.Version, info.Available)}
	}
}

func (m Model) warmUpCmd() tea.Cmd {
	return func() tea.Msg {
		m.audio.WarmUp(context.Background())
		return nil
	}
}

func (m Model) listenAudio() tea.Cmd {
	events := m.audio.Events()
	return func() tea.Msg {
		event, ok := <-events
		return audioEventMsg{event: event, ok: ok}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	return tea.Tick(m.opts.TickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) tickCmd() tea.Cmd {
	return func() tea.Msg {
		return tickDoneMsg{err: m.study.Tick(context.Background())}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────

type indexPortBridge struct{ p lessonPort }

func (b indexPortBridge) LoadIndex(ctx context.Context) (lessondto.IndexOutput, error) {
	return b.p.Index(ctx)
}
