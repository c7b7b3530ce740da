package cli

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/router"
)

// View is a full-screen page of the TUI.
type View interface {
	tea.Model
	Page() router.Page
	ShortHelp() []key.Binding
	Title() string
}

// inputCapturer is implemented by views that take every key while a text
// field is focused, bypassing global keys like q and esc.
type inputCapturer interface {
	CapturesInput() bool
}

// closer is implemented by views holding work that must stop when they
// are replaced.
type closer interface {
	Close()
}

// tuiState is shared by every view.
type tuiState struct {
	// Ctx is the command's context; every request a view starts uses it.
	Ctx    context.Context
	App    *App
	Width  int
	Height int

	// Notice is a one-shot message for the next view, e.g. after signup.
	Notice string
}

// ContentHeight leaves room for the header (2 lines) and status bar (2 lines).
func (s *tuiState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}

func (s *tuiState) takeNotice() string {
	n := s.Notice
	s.Notice = ""
	return n
}

type navigateMsg struct {
	path   string
	notice string
}

type backMsg struct{}

// sessionMsg reports a finished session transition (restore, login, logout).
type sessionMsg struct {
	err error
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

func goBack() tea.Cmd {
	return func() tea.Msg { return backMsg{} }
}

var (
	keyQuit   = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	keyBack   = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))
	keyReload = key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("R", "reload"))
)

// tuiModel is the root model. The Navigator decides which page shows; the
// model swaps views whenever that decision changes.
type tuiModel struct {
	state *tuiState
	nav   *router.Navigator
	unsub func()

	page     router.Page
	view     View
	restore  bool
	crashed  string
	quitting bool
}

// newTUIModel loads any stored session before resolving path, so a
// protected page shows the placeholder rather than flashing the login page.
func newTUIModel(ctx context.Context, app *App, path string) *tuiModel {
	restore := app.Session.State() == auth.Unauthenticated && app.Session.Boot()
	nav, unsub := router.NewNavigator(app.Session, path, app.Logger)
	m := &tuiModel{
		state:   &tuiState{Ctx: ctx, App: app},
		nav:     nav,
		unsub:   unsub,
		restore: restore,
	}
	d := nav.Current()
	m.page = d.Page
	m.view = m.buildView(d.Page)
	return m
}

func runTUI(ctx context.Context, app *App, path string) error {
	m := newTUIModel(ctx, app, path)
	defer m.Close()
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

// Close stops following the session and releases the active view.
func (m *tuiModel) Close() {
	m.unsub()
	if c, ok := m.view.(closer); ok {
		c.Close()
	}
}

func (m *tuiModel) buildView(page router.Page) View {
	switch page {
	case router.PageLogin:
		return newAuthView(m.state, false)
	case router.PageSignup:
		return newAuthView(m.state, true)
	case router.PageDocs:
		return newDocsView(m.state)
	case router.PagePlaceholder:
		return newPlaceholderView(m.state)
	case router.PageDashboard:
		return newDashboardView(m.state)
	default:
		return newHomeView(m.state)
	}
}

func (m *tuiModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.view.Init()}
	if m.restore {
		store, ctx := m.state.App.Session, m.state.Ctx
		cmds = append(cmds, func() tea.Msg {
			return sessionMsg{err: store.Restore(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

func (m *tuiModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.recovered(r)
			model, cmd = m, nil
		}
	}()

	if m.crashed != "" {
		return m.updateCrashed(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if !m.capturing() {
			switch {
			case key.Matches(msg, keyQuit):
				m.quitting = true
				return m, tea.Quit
			case key.Matches(msg, keyBack) && m.page != router.PageDashboard:
				m.nav.Back()
				return m, m.sync()
			}
		}

	case navigateMsg:
		m.state.Notice = msg.notice
		m.nav.Go(msg.path)
		return m, m.sync()

	case backMsg:
		m.nav.Back()
		return m, m.sync()

	case sessionMsg:
		if msg.err != nil {
			m.state.App.Logger.Debug("Session transition failed", zap.Error(msg.err))
		}
		return m, m.sync()
	}

	updated, cmd := m.view.Update(msg)
	m.view = updated.(View)
	return m, tea.Batch(cmd, m.sync())
}

func (m *tuiModel) capturing() bool {
	c, ok := m.view.(inputCapturer)
	return ok && c.CapturesInput()
}

// sync swaps the view when the Navigator's decision has changed, which
// happens after navigation and after any session transition.
func (m *tuiModel) sync() tea.Cmd {
	d := m.nav.Current()
	if d.Page == m.page {
		return nil
	}
	m.state.App.Logger.Debug("Page changed",
		zap.String("from", string(m.page)),
		zap.String("to", string(d.Page)),
		zap.String("path", d.Path),
	)
	if c, ok := m.view.(closer); ok {
		c.Close()
	}
	m.page = d.Page
	m.view = m.buildView(d.Page)
	return m.view.Init()
}

func (m *tuiModel) recovered(r any) {
	m.crashed = fmt.Sprint(r)
	m.state.App.Logger.Error("Recovered from panic in view",
		zap.String("page", string(m.page)),
		zap.String("panic", m.crashed),
		zap.ByteString("stack", debug.Stack()),
	)
}

// updateCrashed only offers reload and quit; reload rebuilds the view.
func (m *tuiModel) updateCrashed(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case k.Type == tea.KeyCtrlC, key.Matches(k, keyQuit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(k, keyReload):
		if c, ok := m.view.(closer); ok {
			c.Close()
		}
		m.crashed = ""
		d := m.nav.Current()
		m.page = d.Page
		m.view = m.buildView(d.Page)
		return m, m.view.Init()
	}
	return m, nil
}

func (m *tuiModel) View() (out string) {
	if m.quitting {
		return ""
	}
	if m.crashed != "" {
		return m.crashView()
	}
	defer func() {
		if r := recover(); r != nil {
			m.recovered(r)
			out = m.crashView()
		}
	}()

	sections := []string{m.renderHeader(), m.view.View(), m.renderStatusBar()}
	return strings.Join(sections, "\n")
}

func (m *tuiModel) crashView() string {
	body := formatter.StyleRed.Render("Something went wrong.") + "\n\n" +
		formatter.Dim(m.crashed) + "\n\n" +
		"Press " + formatter.Bold("R") + " to reload or " + formatter.Bold("q") + " to quit."
	return formatter.RenderBox("Error", body)
}

func (m *tuiModel) renderHeader() string {
	header := formatter.StylePurple.Render("nagster")
	if t := m.view.Title(); t != "" {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(t)
	}
	snap := m.state.App.Session.Snapshot()
	if snap.State == auth.Authenticated {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(snap.Username()) +
			formatter.Dim(" · "+snap.Session.Role+"]")
	}
	return header + "\n" + formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
}

func (m *tuiModel) renderStatusBar() string {
	var hints []string
	for _, b := range m.view.ShortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	if !m.capturing() {
		if m.page != router.PageDashboard && m.page != router.PageHome {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim("q: quit"))
	}
	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
