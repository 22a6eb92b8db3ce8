package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/magnetdb/magnetcli/internal/magnetdb"
	"github.com/magnetdb/magnetcli/internal/prefs"
	"github.com/magnetdb/magnetcli/internal/state"
)

// Options configures the browser.
type Options struct {
	Context   context.Context
	Client    *magnetdb.Client
	Store     *state.Store
	Logger    log.Interface
	PollTick  time.Duration
	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
}

// Model is the root Bubble Tea model for the resource browser.
type Model struct {
	ctx       context.Context
	client    *magnetdb.Client
	store     *state.Store
	logger    log.Interface
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	theme       Theme
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = list, 1 = detail

	snapshot state.Snapshot

	selectedRow int

	// details holds the last fetched record per row for rendering only;
	// every selection and every new listing fetches again.
	details map[detailKey]any

	detailViewport viewport.Model

	searching   bool
	searchInput textinput.Model

	modal    Modal
	showHelp bool

	// notice is the outcome of the last user action, shown in the header.
	notice      string
	noticeError bool
}

// detailKey identifies a fetched record in the detail cache.
type detailKey struct {
	resource state.Resource
	id       int64
}

// New creates a new Model with the given options.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	userPrefs := opts.Prefs
	if opts.ThemeName != "" {
		userPrefs.Theme = opts.ThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Log
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "Search by name..."
	ti.CharLimit = 100

	m := Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		logger:      logger,
		prefs:       userPrefs,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(userPrefs.Theme),
		details:     make(map[detailKey]any),
		searchInput: ti,
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init initializes the model and returns initial commands.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
		}
		m.ready = true
		m.updateDetailViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		previous := m.snapshot.LastUpdated
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		m.updateDetailViewport()
		// Ticks without a new fetch leave the shown record alone.
		if m.snapshot.LastUpdated.Equal(previous) && m.hasDetail() {
			return m, nil
		}
		return m, m.loadDetail()

	case refreshDoneMsg:
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		}
		if m.store == nil {
			return m, nil
		}
		return m, fetchSnapshotCmd(m.store)

	case detailMsg:
		if msg.err != nil {
			m.logger.WithError(msg.err).WithField("id", msg.key.id).Debug("detail fetch failed")
			return m, nil
		}
		m.details[msg.key] = msg.record
		m.updateDetailViewport()
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.logger.WithError(msg.err).WithField("action", msg.label).Warn("lifecycle action failed")
			m.setNotice(msg.label+": "+msg.err.Error(), true)
		} else {
			m.logger.WithField("action", msg.label).Info("lifecycle action applied")
			m.setNotice(msg.label+": done", false)
		}
		return m, m.refreshActive()
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
				m.logger.WithError(err).Warn("save preferences")
			}
		}
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m, m.switchResource(m.active().Next())
	case key.Matches(msg, m.keys.ViewMagnets):
		return m, m.switchResource(state.Magnets)
	case key.Matches(msg, m.keys.ViewParts):
		return m, m.switchResource(state.Parts)
	case key.Matches(msg, m.keys.ViewSites):
		return m, m.switchResource(state.Sites)

	case key.Matches(msg, m.keys.ShiftTab):
		m.focusedPane = 1 - m.focusedPane
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.options().Query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleFilter):
		opts := m.options()
		opts.Status = nextValue(m.active().Statuses(), opts.Status)
		opts.Page = 1
		return m, m.applyOptions(opts)

	case key.Matches(msg, m.keys.CycleSort):
		opts := m.options()
		opts.SortBy = nextValue(sortFields(m.active()), opts.SortBy)
		opts.Page = 1
		return m, m.applyOptions(opts)

	case key.Matches(msg, m.keys.ToggleOrder):
		opts := m.options()
		opts.SortDesc = !opts.SortDesc
		opts.Page = 1
		return m, m.applyOptions(opts)

	case key.Matches(msg, m.keys.NextPage):
		current, last, _ := m.snapshot.PageInfo(m.active())
		if current >= last {
			return m, nil
		}
		opts := m.options()
		opts.Page = current + 1
		return m, m.applyOptions(opts)

	case key.Matches(msg, m.keys.PrevPage):
		current, _, _ := m.snapshot.PageInfo(m.active())
		if current <= 1 {
			return m, nil
		}
		opts := m.options()
		opts.Page = current - 1
		return m, m.applyOptions(opts)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshActive()

	case key.Matches(msg, m.keys.Action):
		return m.promptAction()

	case key.Matches(msg, m.keys.HalfPageDown):
		m.detailViewport.HalfPageDown()
		return m, nil

	case key.Matches(msg, m.keys.HalfPageUp):
		m.detailViewport.HalfPageUp()
		return m, nil
	}

	return m.handleListKey(msg)
}

// handleListKey moves the selection, or scrolls the detail pane when it
// has focus.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focusedPane == 1 {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.detailViewport.ScrollDown(1)
		case key.Matches(msg, m.keys.Up):
			m.detailViewport.ScrollUp(1)
		case key.Matches(msg, m.keys.Top):
			m.detailViewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.detailViewport.GotoBottom()
		}
		return m, nil
	}

	count := m.snapshot.Len(m.active())
	if count == 0 {
		return m, nil
	}

	previous := m.selectedRow
	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	}

	if m.selectedRow == previous {
		return m, nil
	}
	m.detailViewport.GotoTop()
	m.updateDetailViewport()
	return m, m.loadDetail()
}

// handleSearchInput handles keyboard input while the search prompt is open.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		opts := m.options()
		opts.Query = strings.TrimSpace(m.searchInput.Value())
		opts.Page = 1
		return m, m.applyOptions(opts)

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

func (m Model) active() state.Resource {
	if m.snapshot.Active == "" {
		return state.Magnets
	}
	return m.snapshot.Active
}

func (m Model) options() magnetdb.ListOptions {
	if m.store != nil {
		return m.store.Options(m.active())
	}
	return m.snapshot.Options[m.active()]
}

// switchResource activates another tab and re-fetches it.
func (m *Model) switchResource(r state.Resource) tea.Cmd {
	if m.store != nil {
		m.store.SetActive(r)
	}
	m.snapshot.Active = r
	m.selectedRow = 0
	m.focusedPane = 0
	m.detailViewport.GotoTop()
	m.updateDetailViewport()
	return m.refreshActive()
}

// applyOptions stores new list options for the active tab and re-fetches.
func (m *Model) applyOptions(opts magnetdb.ListOptions) tea.Cmd {
	if m.store != nil {
		m.store.SetOptions(m.active(), opts)
	}
	if m.snapshot.Options == nil {
		m.snapshot.Options = map[state.Resource]magnetdb.ListOptions{}
	}
	m.snapshot.Options[m.active()] = opts
	m.selectedRow = 0
	return m.refreshActive()
}

func (m Model) refreshActive() tea.Cmd {
	if m.store == nil || m.client == nil {
		return nil
	}
	return refreshCmd(m.ctx, m.store, m.client, m.active())
}

// clampSelection keeps the selected row inside the loaded page.
func (m *Model) clampSelection() {
	count := m.snapshot.Len(m.active())
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
}

func (m *Model) setNotice(text string, isError bool) {
	m.notice = text
	m.noticeError = isError
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderBrowser())

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type refreshDoneMsg struct {
	resource state.Resource
	err      error
}

type detailMsg struct {
	key    detailKey
	record any
	err    error
}

type actionDoneMsg struct {
	label string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, store *state.Store, client *magnetdb.Client, r state.Resource) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{resource: r, err: store.Refresh(ctx, client, r)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
