package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/router"
)

// ── home ─────────────────────────────────────────────────────────────────────

var (
	keyLogin     = key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "sign in"))
	keySignup    = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign up"))
	keyDocs      = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "docs"))
	keyDashboard = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "dashboard"))
	keyOpen      = key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in browser"))
)

type homeView struct {
	state *tuiState
}

func newHomeView(state *tuiState) *homeView {
	return &homeView{state: state}
}

func (v *homeView) Page() router.Page { return router.PageHome }
func (v *homeView) Title() string { return "Home" }

func (v *homeView) ShortHelp() []key.Binding {
	return []key.Binding{keyDashboard, keyLogin, keySignup, keyDocs}
}

func (v *homeView) Init() tea.Cmd { return nil }

func (v *homeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, keyDashboard):
			return v, navigate(router.PathDashboard)
		case key.Matches(k, keyLogin):
			return v, navigate(router.PathLogin)
		case key.Matches(k, keySignup):
			return v, navigate(router.PathSignup)
		case key.Matches(k, keyDocs):
			return v, navigate(router.PathDocs)
		}
	}
	return v, nil
}

func (v *homeView) View() string {
	var b strings.Builder
	b.WriteString(formatter.Bold("Employee activity, at a glance.") + "\n\n")
	b.WriteString("The Nagster agent runs on employee workstations, tracks keyboard,\n")
	b.WriteString("mouse and app activity, and flags idle or suspicious patterns.\n")
	b.WriteString("This console shows managers what the backend has collected.\n\n")
	b.WriteString(formatter.StyleGreen.Render("●") + " Real-time activity overview\n")
	b.WriteString(formatter.StyleYellow.Render("●") + " Active and idle minutes per employee\n")
	b.WriteString(formatter.StyleRed.Render("●") + " Suspicious session reports\n")
	return formatter.RenderBox("Nagster", b.String())
}

// ── docs ─────────────────────────────────────────────────────────────────────

type docsOpenedMsg struct {
	err error
}

type docsView struct {
	state  *tuiState
	status string
}

func newDocsView(state *tuiState) *docsView {
	return &docsView{state: state}
}

func (v *docsView) Page() router.Page { return router.PageDocs }
func (v *docsView) Title() string { return "Docs" }
func (v *docsView) ShortHelp() []key.Binding { return []key.Binding{keyOpen} }
func (v *docsView) Init() tea.Cmd { return nil }

func (v *docsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keyOpen) {
			app := v.state.App
			url := app.docsURL()
			return v, func() tea.Msg { return docsOpenedMsg{err: openBrowser(app, url)} }
		}
	case docsOpenedMsg:
		if msg.err != nil {
			v.status = formatter.ErrorLine(msg.err.Error())
		} else {
			v.status = formatter.SuccessLine("Opened in your browser")
		}
	}
	return v, nil
}

func (v *docsView) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("How it works") + "\n")
	b.WriteString("  1. The agent on each workstation collects activity.\n")
	b.WriteString("  2. Data syncs to the backend.\n")
	b.WriteString("  3. Managers review it here.\n\n")
	b.WriteString(formatter.Header("API reference") + "\n")
	b.WriteString("  " + formatter.StyleBlue.Render(v.state.App.docsURL()) + "\n")
	if v.status != "" {
		b.WriteString("\n" + v.status + "\n")
	}
	return b.String()
}

// ── placeholder ──────────────────────────────────────────────────────────────

// placeholderView is shown on protected pages while the session is validated.
type placeholderView struct {
	state *tuiState
}

func newPlaceholderView(state *tuiState) *placeholderView {
	return &placeholderView{state: state}
}

func (v *placeholderView) Page() router.Page { return router.PagePlaceholder }
func (v *placeholderView) Title() string { return "" }
func (v *placeholderView) ShortHelp() []key.Binding { return nil }
func (v *placeholderView) Init() tea.Cmd { return nil }
func (v *placeholderView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v *placeholderView) View() string { return "\n  " + formatter.Dim("Restoring session...") + "\n" }

// ── login / signup ───────────────────────────────────────────────────────────

type authDoneMsg struct {
	err      error
	signup   bool
	loggedIn bool
}

var (
	keyNextField = key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next"))
	keyPrevField = key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev"))
	keySubmit    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	keySwitch    = key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "switch"))
	keyRole      = key.NewBinding(key.WithKeys("left", "right", " "), key.WithHelp("←/→", "role"))
)

var signupRoles = []string{models.RoleAdmin, models.RoleManager}

// authView is the sign-in page, or the sign-up page when signup is set.
type authView struct {
	state  *tuiState
	signup bool

	inputs  []textinput.Model
	role    int
	focus   int
	loading bool
	err     string
	notice  string
}

func newAuthView(state *tuiState, signup bool) *authView {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "username"
	user.CharLimit = 64

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "password"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 128

	return &authView{
		state:  state,
		signup: signup,
		inputs: []textinput.Model{user, pass},
		notice: state.takeNotice(),
	}
}

func (v *authView) Page() router.Page {
	if v.signup {
		return router.PageSignup
	}
	return router.PageLogin
}

func (v *authView) Title() string {
	if v.signup {
		return "Sign up"
	}
	return "Sign in"
}

func (v *authView) ShortHelp() []key.Binding {
	hints := []key.Binding{keyNextField, keySubmit}
	if v.signup {
		hints = append(hints, keyRole)
	}
	return append(hints, keySwitch, keyBack)
}

// CapturesInput is always true: the fields take q and friends as text.
func (v *authView) CapturesInput() bool { return true }

func (v *authView) fieldCount() int {
	if v.signup {
		return len(v.inputs) + 1
	}
	return len(v.inputs)
}

func (v *authView) Init() tea.Cmd {
	return v.inputs[0].Focus()
}

func (v *authView) setFocus(i int) tea.Cmd {
	n := v.fieldCount()
	v.focus = (i + n) % n
	var cmd tea.Cmd
	for j := range v.inputs {
		if j == v.focus {
			cmd = v.inputs[j].Focus()
		} else {
			v.inputs[j].Blur()
		}
	}
	return cmd
}

func (v *authView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		v.loading = false
		if msg.err != nil {
			v.err = userMessage(msg.err)
			return v, nil
		}
		if msg.signup && !msg.loggedIn {
			return v, func() tea.Msg { return navigateMsg{path: router.PathLogin, notice: MsgAccountCreated} }
		}
		return v, func() tea.Msg { return sessionMsg{} }

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		switch {
		case key.Matches(msg, keyBack):
			return v, goBack()
		case key.Matches(msg, keySwitch):
			if v.signup {
				return v, navigate(router.PathLogin)
			}
			return v, navigate(router.PathSignup)
		case key.Matches(msg, keyNextField):
			return v, v.setFocus(v.focus + 1)
		case key.Matches(msg, keyPrevField):
			return v, v.setFocus(v.focus - 1)
		case key.Matches(msg, keySubmit):
			if v.focus < v.fieldCount()-1 {
				return v, v.setFocus(v.focus + 1)
			}
			return v, v.submit()
		case v.signup && v.focus == len(v.inputs) && key.Matches(msg, keyRole):
			v.role = (v.role + 1) % len(signupRoles)
			return v, nil
		}
	}

	if v.focus < len(v.inputs) {
		var cmd tea.Cmd
		v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey {
			v.err = ""
		}
		return v, cmd
	}
	return v, nil
}

func (v *authView) submit() tea.Cmd {
	v.err = ""
	v.notice = ""
	v.loading = true
	store, ctx := v.state.App.Session, v.state.Ctx
	username := v.inputs[0].Value()
	password := v.inputs[1].Value()
	if !v.signup {
		return func() tea.Msg {
			return authDoneMsg{err: store.Login(ctx, username, password)}
		}
	}
	role := signupRoles[v.role]
	return func() tea.Msg {
		loggedIn, err := store.Signup(ctx, username, password, role)
		return authDoneMsg{err: err, signup: true, loggedIn: loggedIn}
	}
}

func (v *authView) View() string {
	var b strings.Builder
	label := func(i int, text string) string {
		if i == v.focus {
			return formatter.StyleHeader.Render("› " + text)
		}
		return formatter.Dim("  " + text)
	}

	b.WriteString(label(0, "Username") + "\n  " + v.inputs[0].View() + "\n\n")
	b.WriteString(label(1, "Password") + "\n  " + v.inputs[1].View() + "\n")
	if v.signup {
		b.WriteString("\n" + label(2, "Role") + "\n  ")
		for i, r := range signupRoles {
			if i == v.role {
				b.WriteString(formatter.StyleGreen.Render("(•) "+r) + "  ")
			} else {
				b.WriteString(formatter.Dim("( ) "+r) + "  ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case v.loading && v.signup:
		b.WriteString(formatter.Dim("Creating account...") + "\n")
	case v.loading:
		b.WriteString(formatter.Dim("Signing in...") + "\n")
	case v.err != "":
		b.WriteString(formatter.ErrorLine(v.err) + "\n")
	case v.notice != "":
		b.WriteString(formatter.SuccessLine(v.notice) + "\n")
	}

	if v.signup {
		b.WriteString(formatter.Dim("Already have an account? ctrl+n to sign in."))
	} else {
		b.WriteString(formatter.Dim("No account yet? ctrl+n to sign up."))
	}
	return formatter.RenderBox(v.Title(), b.String())
}
