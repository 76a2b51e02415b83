package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/darsamo/bites/internal/activity"
	"github.com/darsamo/bites/internal/i18n"
	"github.com/darsamo/bites/internal/ledger"
	"github.com/darsamo/bites/internal/menu"
	"github.com/darsamo/bites/internal/prefs"
	"github.com/darsamo/bites/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewMenu View = iota
	ViewCart
	ViewOrders
	ViewActivity
)

var viewOrder = []View{ViewMenu, ViewCart, ViewOrders, ViewActivity}

// Kiosk is the set of actions the UI can take on kiosk state.
type Kiosk interface {
	AddItem(ctx context.Context, item menu.Item) (ledger.CartLine, error)
	ChangeQuantity(ctx context.Context, name string, delta int)
	RemoveItem(ctx context.Context, name string)
	ClearCart(ctx context.Context)
	Checkout(ctx context.Context) (ledger.Order, bool, error)
	MergeIntoOrder(ctx context.Context, id int) (ledger.Order, error)
	BeginEdit(ctx context.Context, id int) error
	CompleteOrder(ctx context.Context, id int) (ledger.Order, error)
	ToggleLanguage(ctx context.Context) i18n.Language
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Kiosk     Kiosk
	Store     *state.Store
	Catalog   *menu.Catalog
	LogPath   string
	Refresh   time.Duration
	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	kiosk     Kiosk
	store     *state.Store
	catalog   *menu.Catalog
	logPath   string
	prefsPath string
	refresh   time.Duration
	log       *zap.Logger

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	prefs       prefs.Prefs
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	modal       Modal

	// Data state
	snapshot state.Snapshot

	// Per-view selection
	favoritesOnly bool
	menuRow       int
	cartRow       int
	orderRow      int

	// Activity state
	activityViewport viewport.Model
	activity         []activity.Entry
	activityLevel    string // minimum level shown; empty shows all

	toasts []toast
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		ctx:         ctx,
		kiosk:       opts.Kiosk,
		store:       opts.Store,
		catalog:     opts.Catalog,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		refresh:     refresh,
		log:         logger,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       GetTheme(themeName),
		prefs:       opts.Prefs,
		currentView: ViewMenu,
	}
	m.prefs.Theme = m.theme.Name
	m.applyHelpStyles()
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.refresh),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initActivityViewport()
		}
		m.ready = true
		m.help.Width = msg.Width
		m.resizeActivityViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(msg.snapshot, msg.notices, msg.at)
		return m, nil

	case activityMsg:
		m.handleActivity(msg)
		return m, nil

	case clearCartMsg:
		m.kiosk.ClearCart(m.ctx)
		m.pushToast(i18n.T(m.lang(), i18n.CartCleared), toastInfo, time.Now())
		m.syncSnapshot(time.Now())
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
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
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	now := time.Now()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.applyHelpStyles()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLanguage):
		if m.kiosk == nil {
			return m, nil
		}
		lang := m.kiosk.ToggleLanguage(m.ctx)
		m.pushToast(i18n.T(lang, i18n.LanguageName), toastInfo, now)
		m.syncSnapshot(now)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.switchView(1)
		return m, m.enterView()

	case key.Matches(msg, m.keys.ShiftTab):
		m.switchView(-1)
		return m, m.enterView()
	}

	switch m.currentView {
	case ViewMenu:
		return m.handleMenuKey(msg, now)
	case ViewCart:
		return m.handleCartKey(msg, now)
	case ViewOrders:
		return m.handleOrdersKey(msg, now)
	case ViewActivity:
		return m.handleActivityKey(msg)
	}
	return m, nil
}

// switchView moves through the view cycle by step.
func (m *Model) switchView(step int) {
	for i, v := range viewOrder {
		if v == m.currentView {
			m.currentView = viewOrder[(i+step+len(viewOrder))%len(viewOrder)]
			return
		}
	}
	m.currentView = ViewMenu
}

// enterView returns the command to run when a view becomes active.
func (m *Model) enterView() tea.Cmd {
	if m.currentView == ViewActivity {
		return fetchActivityCmd(m.logPath)
	}
	return nil
}

// moveSelection applies the shared navigation keys to a row index.
func (m Model) moveSelection(msg tea.KeyMsg, row, count int) int {
	switch {
	case key.Matches(msg, m.keys.Up):
		row--
	case key.Matches(msg, m.keys.Down):
		row++
	case key.Matches(msg, m.keys.Top):
		row = 0
	case key.Matches(msg, m.keys.Bottom):
		row = count - 1
	}
	return clamp(row, count)
}

// handleTick processes the refresh tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	m.pruneToasts(now)
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewActivity {
		cmds = append(cmds, fetchActivityCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.refresh))

	return m, tea.Batch(cmds...)
}

// syncSnapshot reads the store directly after a local action so the next
// frame already shows its effect.
func (m *Model) syncSnapshot(now time.Time) {
	if m.store == nil {
		return
	}
	m.applySnapshot(m.store.Snapshot(), m.store.TakeNotices(), now)
}

func (m *Model) applySnapshot(snap state.Snapshot, notices []state.Notice, now time.Time) {
	m.snapshot = snap
	m.cartRow = clamp(m.cartRow, len(snap.Cart))
	m.orderRow = clamp(m.orderRow, len(m.visibleOrders()))
	for _, n := range notices {
		switch n.Kind {
		case state.NoticeEditClosed:
			m.pushToastWithID(n.ID, i18n.WithID(m.lang(), i18n.EditClosed, n.OrderID), toastError, now)
		default:
			m.pushToastWithID(n.ID, i18n.WithID(m.lang(), i18n.OrderReady, n.OrderID), toastSuccess, now)
		}
	}
}

// lang returns the language the kiosk is currently displayed in.
func (m Model) lang() i18n.Language {
	if m.snapshot.Language == "" {
		return i18n.Default
	}
	return m.snapshot.Language
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn("save prefs", zap.Error(err))
	}
}

func (m *Model) applyHelpStyles() {
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Faint))
}

// Messages

type tickMsg time.Time

type snapshotMsg struct {
	snapshot state.Snapshot
	notices  []state.Notice
	at       time.Time
}

type clearCartMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snapshot: store.Snapshot(), notices: store.TakeNotices(), at: time.Now()}
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
