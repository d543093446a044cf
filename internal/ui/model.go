package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/liststate"
)

// Modal represents which modal is currently shown.
type Modal int

const (
	ModalNone Modal = iota
	ModalHelp
	ModalConfirmDelete
	ModalDetail
	ModalDashboard
	ModalPicker
)

// StatusMessageType represents the type of status message.
type StatusMessageType int

const (
	StatusInfo StatusMessageType = iota
	StatusWarning
	StatusError
)

// StatusMessage represents a status message to display.
type StatusMessage struct {
	Type StatusMessageType
	Text string
}

// Model is the Bubble Tea model for the application.
type Model struct {
	// UI state
	Theme       Theme
	Width       int
	Height      int
	ActiveModal Modal

	// Application state
	Screens       []Screen
	Active        int
	Selection     *SelectionManager
	StatusMessage *StatusMessage

	// Async operation state
	IsLoading   bool
	LoadingText string
	spinner     spinner.Model
	mutating    bool // a delete, toggle, save or reorder is in flight

	search    textinput.Model
	searching bool
	picker    *picker

	pendingDelete int
	detail        string
	dashboard     string
	period        int // index into api.Periods

	// Preferences (set by main)
	ConfirmDelete        bool
	NotifyReorderFailure bool
	ExportDir            string

	// OnDashboard renders the dashboard for a period as markdown.
	OnDashboard func(ctx context.Context, period string) (string, error)
}

// KeyMap defines the key bindings.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	PrevPage     key.Binding
	NextPage     key.Binding
	FirstPage    key.Binding
	LastPage     key.Binding
	NextScreen   key.Binding
	PrevScreen   key.Binding
	JumpScreen   key.Binding
	PrevTab      key.Binding
	NextTab      key.Binding
	Enter        key.Binding
	Quit         key.Binding
	Help         key.Binding
	Refresh      key.Binding
	Search       key.Binding
	Filter       key.Binding
	ClearFilters key.Binding
	ClearTypes   key.Binding
	Create       key.Binding
	Edit         key.Binding
	Delete       key.Binding
	Detail       key.Binding
	Toggle       key.Binding
	Export       key.Binding
	Reorder      key.Binding
	Dashboard    key.Binding
	Period       key.Binding
	Confirm      key.Binding
	Escape       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		NextScreen: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next screen"),
		),
		PrevScreen: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous screen"),
		),
		JumpScreen: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "go to screen"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next tab"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "open"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		ClearTypes: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear selection"),
		),
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Detail: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "toggle"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export"),
		),
		Reorder: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "dashboard"),
		),
		Period: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "period"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

var keys = DefaultKeyMap()

// busyText is shown when a row action is refused because a request for the
// list is in flight and its rows may still change.
const busyText = "Wait for the list to finish loading"

// NewModel creates a new Model over screens, with the first one active.
func NewModel(theme Theme, screens []Screen) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.StatusWarning

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search"
	search.CharLimit = 120

	m := Model{
		Theme:         theme,
		Screens:       screens,
		Selection:     NewSelectionManager(),
		spinner:       sp,
		search:        search,
		pendingDelete: -1,
		ConfirmDelete: true,
	}
	if len(screens) > 0 {
		m.IsLoading = true
		m.LoadingText = "Loading..."
	}
	return m
}

// SelectScreen makes the named screen active. Unknown names are ignored.
func (m *Model) SelectScreen(name string) bool {
	for i, s := range m.Screens {
		if s.Name() == name {
			m.Active = i
			m.Selection.Reset()
			m.syncSelection()
			return true
		}
	}
	return false
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if len(m.Screens) == 0 {
		return nil
	}
	s := m.current()
	return tea.Batch(m.spinner.Tick, fetchCmd(s))
}

// Message types for async operations.
type (
	FetchDoneMsg struct {
		Screen string
		Err    error
	}
	OperationDoneMsg struct {
		Screen string
		Text   string
		Err    error
		// ReloadErr is set when the change succeeded but the list could
		// not be reloaded afterwards.
		ReloadErr error
	}
	ReorderDoneMsg struct {
		Screen string
		Err    error
	}
	EditorDoneMsg struct {
		Screen  string
		Session EditSession
		Err     error
	}
	DashboardMsg struct {
		Period   string
		Markdown string
		Err      error
	}
	ClearFlashMsg struct{}
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FetchDoneMsg:
		if errors.Is(msg.Err, liststate.ErrStale) {
			// A newer fetch is in flight and will report instead.
			return m, nil
		}
		if msg.Screen != m.current().Name() {
			// The user has moved on. Its error shows when they come back.
			if !m.busy() {
				m.settle()
			}
			return m, nil
		}
		m.settle()
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) && !errors.Is(msg.Err, liststate.ErrClosed) {
			m.StatusMessage = &StatusMessage{Type: StatusError, Text: m.loadError(msg)}
		}
		return m, m.fetchIfNeeded()

	case OperationDoneMsg:
		m.mutating = false
		m.settle()
		if msg.Err != nil {
			m.StatusMessage = &StatusMessage{Type: StatusError, Text: errorText(msg.Err)}
			return m, m.fetchIfNeeded()
		}
		if msg.ReloadErr != nil {
			m.StatusMessage = &StatusMessage{
				Type: StatusWarning,
				Text: msg.Text + "; list not reloaded: " + errorText(msg.ReloadErr),
			}
			return m, m.fetchIfNeeded()
		}
		if msg.Text != "" {
			m.StatusMessage = &StatusMessage{Type: StatusInfo, Text: msg.Text}
		}
		return m, tea.Batch(m.flashCmd(), m.fetchIfNeeded())

	case ReorderDoneMsg:
		m.mutating = false
		m.settle()
		if msg.Err != nil {
			if m.NotifyReorderFailure {
				m.StatusMessage = &StatusMessage{Type: StatusError, Text: "Order not saved: " + errorText(msg.Err)}
			}
			return m, nil
		}
		m.StatusMessage = &StatusMessage{Type: StatusInfo, Text: "Order saved"}
		return m, m.flashCmd()

	case EditorDoneMsg:
		if msg.Err != nil {
			m.StatusMessage = &StatusMessage{Type: StatusError, Text: "Editor failed: " + msg.Err.Error()}
			return m, nil
		}
		m.IsLoading = true
		m.mutating = true
		m.LoadingText = "Saving..."
		return m, submitCmd(m.screen(msg.Screen), msg.Session)

	case DashboardMsg:
		m.settle()
		if msg.Err != nil {
			m.dashboard = ""
			m.StatusMessage = &StatusMessage{Type: StatusError, Text: errorText(msg.Err)}
			if m.ActiveModal == ModalDashboard {
				m.ActiveModal = ModalNone
			}
			return m, nil
		}
		m.dashboard = msg.Markdown
		return m, nil

	case ClearFlashMsg:
		// Clear non-error status messages after timeout
		if m.StatusMessage != nil && m.StatusMessage.Type != StatusError {
			m.StatusMessage = nil
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ActiveModal != ModalNone || m.searching || len(m.Screens) == 0 {
		return m, nil
	}
	if r := m.current().Reorder(); r != nil && r.State() != liststate.Idle {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.Selection.SelectPrevious()
		return m, nil
	case tea.MouseButtonWheelDown:
		m.Selection.SelectNext()
		return m, nil
	}
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	// Header box (3), list border (1), list title (1), column header (1).
	row := msg.Y - listTop
	if row < 0 || row >= m.listRows() {
		return m, nil
	}
	index := m.Selection.Window(m.listRows()) + row
	if index < m.Selection.TotalItems() {
		m.Selection.SetIndex(index)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.ActiveModal != ModalNone {
		return m.handleModalKeyPress(msg)
	}
	if len(m.Screens) == 0 {
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	s := m.current()
	if r := s.Reorder(); r != nil && r.State() == liststate.Dragging {
		return m.handleReorderKey(msg, s, r)
	}

	row := m.Selection.Selected()
	caps := s.Capabilities()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.ActiveModal = ModalHelp
		return m, nil

	case key.Matches(msg, keys.Up):
		m.Selection.SelectPrevious()
		return m, nil

	case key.Matches(msg, keys.Down):
		m.Selection.SelectNext()
		return m, nil

	case key.Matches(msg, keys.NextScreen):
		m.switchScreen(m.Active + 1)

	case key.Matches(msg, keys.PrevScreen):
		m.switchScreen(m.Active - 1)

	case key.Matches(msg, keys.JumpScreen):
		if n := int(msg.Runes[0] - '1'); n < len(m.Screens) {
			m.switchScreen(n)
		}

	case key.Matches(msg, keys.NextPage):
		m.goToPage(s.Meta().CurrentPage + 1)

	case key.Matches(msg, keys.PrevPage):
		m.goToPage(s.Meta().CurrentPage - 1)

	case key.Matches(msg, keys.FirstPage):
		m.goToPage(1)

	case key.Matches(msg, keys.LastPage):
		m.goToPage(s.Meta().TotalPages)

	case key.Matches(msg, keys.NextTab), key.Matches(msg, keys.PrevTab):
		tabs := s.Tabs()
		if len(tabs) == 0 {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, keys.PrevTab) {
			delta = -1
		}
		i := indexOf(tabs, s.Meta().Filters.Tab)
		s.SetFilters(liststate.SetTab(tabs[(i+delta+len(tabs))%len(tabs)]))
		m.Selection.Reset()

	case key.Matches(msg, keys.Refresh):
		m.IsLoading = true
		m.LoadingText = "Refreshing " + s.Title() + "..."
		return m, fetchCmd(s)

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(s.Meta().Filters.Text)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, keys.Filter):
		options := s.TypeOptions()
		if len(options) == 0 {
			return m.warn(s.Title() + " have no type filter")
		}
		m.picker = newPicker(options)
		m.ActiveModal = ModalPicker
		return m, textinput.Blink

	case key.Matches(msg, keys.ClearFilters):
		if s.Meta().Filters.IsZero() {
			return m, nil
		}
		s.ResetFilters()
		m.Selection.Reset()
		m.StatusMessage = &StatusMessage{Type: StatusInfo, Text: "Filters cleared"}
		return m, tea.Batch(m.flashCmd(), m.fetchIfNeeded())

	case key.Matches(msg, keys.Enter):
		if row < 0 || caps.DrillDown == "" {
			return m, nil
		}
		target, patch, ok := s.DrillDown(row)
		if !ok {
			return m, nil
		}
		if m.switchScreenByName(target) {
			m.current().SetFilters(patch)
		}

	case key.Matches(msg, keys.Create):
		if !caps.Create {
			return m.warn("New " + s.Title() + " cannot be created here")
		}
		if m.busy() {
			return m.warn(busyText)
		}
		return m.edit(s, -1)

	case key.Matches(msg, keys.Edit):
		if !caps.Edit || row < 0 {
			return m, nil
		}
		if m.busy() {
			return m.warn(busyText)
		}
		return m.edit(s, row)

	case key.Matches(msg, keys.Delete):
		if row < 0 {
			return m, nil
		}
		if !caps.Delete {
			return m.warn(s.Title() + " cannot be deleted")
		}
		if m.busy() {
			return m.warn(busyText)
		}
		if m.ConfirmDelete {
			m.pendingDelete = row
			m.ActiveModal = ModalConfirmDelete
			return m, nil
		}
		m.IsLoading = true
		m.mutating = true
		m.LoadingText = "Deleting..."
		return m, deleteCmd(s, row)

	case key.Matches(msg, keys.Detail):
		if row < 0 {
			return m, nil
		}
		m.detail = s.Detail(row)
		m.ActiveModal = ModalDetail
		return m, nil

	case key.Matches(msg, keys.Toggle):
		if caps.Toggle == "" || row < 0 {
			return m, nil
		}
		if m.busy() {
			return m.warn(busyText)
		}
		m.IsLoading = true
		m.mutating = true
		m.LoadingText = "Updating..."
		return m, toggleCmd(s, row)

	case key.Matches(msg, keys.Export):
		m.IsLoading = true
		m.LoadingText = "Exporting..."
		return m, exportCmd(s, m.ExportDir)

	case key.Matches(msg, keys.Reorder):
		if !caps.Reorder || row < 0 {
			return m, nil
		}
		if m.busy() {
			return m.warn(busyText)
		}
		if err := s.Reorder().Pick(row); err != nil {
			return m.warn(errorText(err))
		}
		return m, nil

	case key.Matches(msg, keys.Dashboard):
		if m.OnDashboard == nil {
			return m, nil
		}
		m.ActiveModal = ModalDashboard
		return m.loadDashboard()
	}

	return m, m.fetchIfNeeded()
}

func (m Model) handleReorderKey(msg tea.KeyMsg, s Screen, r Reorder) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.Selection.SetIndex(r.Step(-1))

	case key.Matches(msg, keys.Down):
		m.Selection.SetIndex(r.Step(1))

	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Reorder):
		m.IsLoading = true
		m.mutating = true
		m.LoadingText = "Saving order..."
		return m, dropCmd(s, r)

	case key.Matches(msg, keys.Escape):
		r.Cancel()
		m.syncSelection()
		m.StatusMessage = &StatusMessage{Type: StatusInfo, Text: "Move cancelled"}
		return m, m.flashCmd()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		if len(m.Screens) > 0 {
			m.current().SetFilters(liststate.SetText(m.search.Value()))
			m.Selection.Reset()
		}
		return m, m.fetchIfNeeded()
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleModalKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.ActiveModal {
	case ModalHelp:
		if key.Matches(msg, keys.Help) || key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Quit) {
			m.ActiveModal = ModalNone
		}
		return m, nil

	case ModalConfirmDelete:
		row := m.pendingDelete
		m.pendingDelete = -1
		m.ActiveModal = ModalNone
		if key.Matches(msg, keys.Confirm) && row >= 0 {
			m.IsLoading = true
			m.mutating = true
			m.LoadingText = "Deleting..."
			return m, deleteCmd(m.current(), row)
		}
		return m, nil

	case ModalDetail:
		if key.Matches(msg, keys.Detail) || key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Quit) {
			m.ActiveModal = ModalNone
			m.detail = ""
		}
		return m, nil

	case ModalDashboard:
		switch {
		case key.Matches(msg, keys.Period):
			m.period = (m.period + 1) % len(api.Periods)
			return m.loadDashboard()
		case key.Matches(msg, keys.Dashboard), key.Matches(msg, keys.Escape), key.Matches(msg, keys.Quit):
			m.ActiveModal = ModalNone
		}
		return m, nil

	case ModalPicker:
		return m.handlePickerKey(msg)
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.picker
	s := m.current()
	switch msg.Type {
	case tea.KeyEsc:
		m.ActiveModal = ModalNone
		m.picker = nil
		return m, m.fetchIfNeeded()
	case tea.KeyUp, tea.KeyCtrlP:
		p.move(-1)
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN:
		p.move(1)
		return m, nil
	case tea.KeyEnter:
		if opt, ok := p.current(); ok {
			s.SetFilters(s.Meta().Filters.Toggle(opt.Value))
			m.Selection.Reset()
		}
		return m, m.fetchIfNeeded()
	}
	if key.Matches(msg, keys.ClearTypes) {
		s.SetFilters(liststate.ClearTypes())
		m.Selection.Reset()
		return m, m.fetchIfNeeded()
	}

	var cmd tea.Cmd
	p.query, cmd = p.query.Update(msg)
	p.refilter()
	return m, cmd
}

func (m Model) edit(s Screen, row int) (tea.Model, tea.Cmd) {
	sess, err := s.Edit(row)
	if err != nil {
		m.StatusMessage = &StatusMessage{Type: StatusError, Text: errorText(err)}
		return m, nil
	}
	name := s.Name()
	return m, tea.ExecProcess(sess.Command(), func(err error) tea.Msg {
		return EditorDoneMsg{Screen: name, Session: sess, Err: err}
	})
}

func (m Model) loadDashboard() (tea.Model, tea.Cmd) {
	period := api.Periods[m.period]
	m.IsLoading = true
	m.LoadingText = "Loading dashboard..."
	load := m.OnDashboard
	return m, func() tea.Msg {
		md, err := load(context.Background(), period)
		return DashboardMsg{Period: period, Markdown: md, Err: err}
	}
}

// busy reports whether row actions must wait: the active list is loading or
// about to, or a change started here has not finished.
func (m Model) busy() bool {
	if m.mutating {
		return true
	}
	s := m.current()
	return s.Meta().IsLoading || s.NeedsFetch()
}

// settle recomputes the loading indicator after a request finishes.
func (m *Model) settle() {
	m.IsLoading = m.mutating
	if len(m.Screens) > 0 {
		s := m.current()
		m.IsLoading = m.IsLoading || s.Meta().IsLoading
	}
	if !m.IsLoading {
		m.LoadingText = ""
	}
	m.syncSelection()
}

func (m Model) warn(text string) (tea.Model, tea.Cmd) {
	m.StatusMessage = &StatusMessage{Type: StatusWarning, Text: text}
	return m, m.flashCmd()
}

func (m Model) current() Screen {
	return m.Screens[m.Active]
}

func (m Model) screen(name string) Screen {
	for _, s := range m.Screens {
		if s.Name() == name {
			return s
		}
	}
	return m.current()
}

func (m *Model) switchScreen(i int) {
	n := len(m.Screens)
	m.Active = (i%n + n) % n
	m.Selection.Reset()
	m.syncSelection()
}

func (m *Model) switchScreenByName(name string) bool {
	for i, s := range m.Screens {
		if s.Name() == name {
			m.switchScreen(i)
			return true
		}
	}
	return false
}

func (m *Model) goToPage(page int) {
	s := m.current()
	before := s.Meta().CurrentPage
	if s.SetPage(page) != before {
		m.Selection.Reset()
	}
}

// syncSelection clamps the cursor to the rows of the active screen.
func (m *Model) syncSelection() {
	if len(m.Screens) == 0 {
		return
	}
	m.Selection.SetTotal(len(m.current().Rows()))
	if r := m.current().Reorder(); r != nil && r.State() == liststate.Dragging {
		m.Selection.SetIndex(r.Picked())
	}
}

// fetchIfNeeded starts loading the active screen when its page or filters
// changed since the last request.
func (m *Model) fetchIfNeeded() tea.Cmd {
	if len(m.Screens) == 0 {
		return nil
	}
	s := m.current()
	if !s.NeedsFetch() {
		m.syncSelection()
		return nil
	}
	m.IsLoading = true
	m.LoadingText = "Loading " + s.Title() + "..."
	return fetchCmd(s)
}

func (m Model) loadError(msg FetchDoneMsg) string {
	if text := m.screen(msg.Screen).Meta().Error; text != "" {
		return text
	}
	return errorText(msg.Err)
}

// Command functions

func fetchCmd(s Screen) tea.Cmd {
	return func() tea.Msg {
		return FetchDoneMsg{Screen: s.Name(), Err: s.Fetch(context.Background())}
	}
}

func deleteCmd(s Screen, row int) tea.Cmd {
	return func() tea.Msg {
		text, err := s.Delete(context.Background(), row)
		return OperationDoneMsg{Screen: s.Name(), Text: text, Err: err}
	}
}

func toggleCmd(s Screen, row int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		text, err := s.Toggle(ctx, row)
		if err != nil {
			return OperationDoneMsg{Screen: s.Name(), Err: err}
		}
		return OperationDoneMsg{Screen: s.Name(), Text: text, ReloadErr: reload(ctx, s)}
	}
}

func exportCmd(s Screen, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := s.Export(dir)
		if err != nil {
			return OperationDoneMsg{Screen: s.Name(), Err: err}
		}
		return OperationDoneMsg{Screen: s.Name(), Text: "Exported to " + path}
	}
}

func dropCmd(s Screen, r Reorder) tea.Cmd {
	return func() tea.Msg {
		_, err := r.Drop(context.Background())
		return ReorderDoneMsg{Screen: s.Name(), Err: err}
	}
}

// submitCmd sends an edited document and reloads the list on success.
// A rejected document stays open for the next edit of the same row.
func submitCmd(s Screen, sess EditSession) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		text, err := sess.Submit(ctx)
		if err != nil {
			return OperationDoneMsg{Screen: s.Name(), Err: fmt.Errorf("not saved: %w", err)}
		}
		return OperationDoneMsg{Screen: s.Name(), Text: text, ReloadErr: reload(ctx, s)}
	}
}

// reload refetches a list after a change. Being superseded by a newer fetch
// is not a failure.
func reload(ctx context.Context, s Screen) error {
	if err := s.Fetch(ctx); err != nil && !errors.Is(err, liststate.ErrStale) {
		return err
	}
	return nil
}

// flashCmd returns a command that clears the status message after a delay.
func (m Model) flashCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return ClearFlashMsg{}
	})
}

func errorText(err error) string {
	return api.Message(err, err.Error())
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return 0
}
