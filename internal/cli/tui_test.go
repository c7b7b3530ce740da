package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/employees"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/router"
	"Mansoor88-6/nagster-console/internal/storage"
	"Mansoor88-6/nagster-console/internal/teatest"
)

var testDay = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

// fakeBackend answers every call from memory.
type fakeBackend struct {
	mu        sync.Mutex
	signupTok string
	meErr     error
	roster    []models.Employee
	created   []models.NewEmployee
	deleted   []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		signupTok: "tok",
		roster: []models.Employee{
			{EmployeeID: "E1", Name: "Ana", Department: "Eng", Status: "Active", ActiveMinutes: 125},
			{EmployeeID: "E2", Name: "Bo", Department: "Ops", Status: "Inactive", SuspiciousFlagCount: 2},
		},
	}
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	if password != "pw" {
		return nil, &client.Error{Kind: client.KindAuth, StatusCode: 401, Message: "Invalid credentials"}
	}
	return &models.AuthResponse{AccessToken: "tok", Role: "admin"}, nil
}

func (f *fakeBackend) Signup(ctx context.Context, username, password, role string) (*models.AuthResponse, error) {
	return &models.AuthResponse{AccessToken: f.signupTok, Role: role}, nil
}

func (f *fakeBackend) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return &models.UserProfile{Username: "boss", Role: "admin"}, nil
}

func (f *fakeBackend) SetToken(string) {}

func (f *fakeBackend) Overview(ctx context.Context, date string) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Employee(nil), f.roster...), nil
}

func (f *fakeBackend) Summary(ctx context.Context, id, date string) (*models.EmployeeSummary, error) {
	return &models.EmployeeSummary{EmployeeID: id, Date: date}, nil
}

func (f *fakeBackend) Activity(ctx context.Context, id, date string) ([]models.ActivityEntry, error) {
	return []models.ActivityEntry{{Type: "active", Title: "Editing report.xlsx"}}, nil
}

func (f *fakeBackend) CreateEmployee(ctx context.Context, e models.NewEmployee) (*models.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, e)
	f.roster = append(f.roster, models.Employee{EmployeeID: e.EmployeeID, Name: e.Name})
	return &models.Ack{Message: "ok"}, nil
}

func (f *fakeBackend) DeleteEmployee(ctx context.Context, id string) (*models.Ack, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return &models.Ack{Message: "ok"}, nil
}

func (f *fakeBackend) ListEmployees(ctx context.Context, status string) ([]models.EmployeeRecord, error) {
	return nil, nil
}

func (f *fakeBackend) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeBackend) BaseURL() string { return "http://backend.test" }

func newTestApp(t *testing.T, api *fakeBackend, mem *storage.MemoryStore) *App {
	t.Helper()
	if mem == nil {
		mem = storage.NewMemoryStore()
	}
	return &App{
		Logger:        zap.NewNop(),
		API:           api,
		Session:       auth.NewStore(api, mem, zap.NewNop()),
		Now:           func() time.Time { return testDay },
		IsInteractive: func() bool { return true },
	}
}

func startTUI(t *testing.T, app *App, path string) *teatest.Driver {
	t.Helper()
	m := newTUIModel(context.Background(), app, path)
	t.Cleanup(m.Close)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func signedIn(t *testing.T, api *fakeBackend) *App {
	t.Helper()
	app := newTestApp(t, api, nil)
	require.NoError(t, app.Session.Login(context.Background(), "boss", "pw"))
	return app
}

func TestTUI_HomeToLoginToDashboard(t *testing.T) {
	app := newTestApp(t, newFakeBackend(), nil)
	d := startTUI(t, app, router.PathHome)
	d.AssertContains("Employee activity, at a glance.")

	d.PressKey('l')
	d.AssertContains("Sign in", "Username", "Password")

	d.Type("boss")
	d.PressTab()
	d.Type("wrong")
	d.PressEnter()
	d.AssertContains("Invalid credentials")

	for range "wrong" {
		d.SendKey(tea.KeyMsg{Type: tea.KeyBackspace})
	}
	d.Type("pw")
	d.PressEnter()

	assert.Equal(t, auth.Authenticated, app.Session.State())
	d.AssertContains("Nagster Dashboard", "Ana", "Bo", "[boss · admin]")
}

func TestTUI_ProtectedPageRedirectsToLogin(t *testing.T) {
	d := startTUI(t, newTestApp(t, newFakeBackend(), nil), router.PathDashboard)
	d.AssertContains("Sign in")
}

func TestTUI_RestoreShowsPlaceholderFirst(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(storage.KeyToken, "tok"))
	require.NoError(t, mem.Set(storage.KeyRole, "admin"))
	app := newTestApp(t, newFakeBackend(), mem)

	m := newTUIModel(context.Background(), app, router.PathDashboard)
	t.Cleanup(m.Close)
	d := teatest.New(t, m)
	d.AssertContains("Restoring session...")

	d.DrainInit()
	d.AssertContains("Nagster Dashboard", "Ana")
}

func TestTUI_FailedRestoreLandsOnLogin(t *testing.T) {
	mem := storage.NewMemoryStore()
	require.NoError(t, mem.Set(storage.KeyToken, "tok"))
	require.NoError(t, mem.Set(storage.KeyRole, "admin"))
	api := newFakeBackend()
	api.meErr = &client.Error{Kind: client.KindAuth, StatusCode: 401, Message: "expired"}
	app := newTestApp(t, api, mem)

	d := startTUI(t, app, router.PathDashboard)

	d.AssertContains("Sign in")
	_, ok, _ := mem.Get(storage.KeyToken)
	assert.False(t, ok)
}

func TestTUI_SignupWithoutTokenShowsNotice(t *testing.T) {
	api := newFakeBackend()
	api.signupTok = ""
	d := startTUI(t, newTestApp(t, api, nil), router.PathSignup)
	d.AssertContains("Sign up", "admin", "manager")

	d.Type("new")
	d.PressTab()
	d.Type("secret")
	d.PressTab()
	d.PressEnter()

	d.AssertContains("Sign in", MsgAccountCreated)
}

func TestTUI_DashboardPagesAndLogout(t *testing.T) {
	app := signedIn(t, newFakeBackend())
	d := startTUI(t, app, router.PathDashboard)
	d.AssertContains("Nagster Dashboard", "Total", "Ana")

	d.PressKey('2')
	d.AssertContains("My Employees")

	d.PressKey('j')
	d.PressKey('a')
	d.AssertContains("Activity Logs", "Bo", "Editing report.xlsx")

	d.PressKey('6')
	d.AssertContains("Suspicious Reports", "Bo")

	d.PressKey('8')
	d.AssertContains("Admin Profile", "boss", "admin")

	d.PressKey('L')
	assert.Equal(t, auth.Unauthenticated, app.Session.State())
	d.AssertContains("Sign in")
}

func TestTUI_AddEmployee(t *testing.T) {
	api := newFakeBackend()
	d := startTUI(t, signedIn(t, api), router.PathDashboard)

	d.PressKey('3')
	d.AssertContains("Add Employee", "Employee ID *")

	// q is text while editing
	d.PressKey('e')
	d.Type("Eq9")
	d.PressTab()
	d.Type("Zed")
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, api.created, 1)
	assert.Equal(t, "Eq9", api.created[0].EmployeeID)
	assert.Equal(t, "Zed", api.created[0].Name)
	assert.Equal(t, models.WorkModeHybrid, api.created[0].WorkMode)
	d.AssertContains(employees.MsgAdded)
	assert.False(t, d.Quitting)
}

func TestTUI_AddEmployeeValidation(t *testing.T) {
	api := newFakeBackend()
	d := startTUI(t, signedIn(t, api), router.PathDashboard)

	d.PressKey('3')
	d.PressKey('e')
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Empty(t, api.created)
	d.AssertContains(employees.MsgIDAndNameRequired)
}

func TestTUI_RemoveEmployeeAsksFirst(t *testing.T) {
	api := newFakeBackend()
	d := startTUI(t, signedIn(t, api), router.PathDashboard)

	d.PressKey('4')
	d.PressKey('x')
	d.AssertContains(employees.MsgSelectToRemove)

	d.PressKey('j')
	d.PressKey('x')
	d.AssertContains("Are you sure you want to remove Ana?")

	d.PressKey('n')
	assert.Empty(t, api.deleted)

	d.PressKey('x')
	d.PressKey('y')
	assert.Equal(t, []string{"E1"}, api.deleted)
	d.AssertContains(employees.MsgRemoved)
}

func TestTUI_QuitKey(t *testing.T) {
	d := startTUI(t, newTestApp(t, newFakeBackend(), nil), router.PathHome)
	d.PressKey('q')
	assert.True(t, d.Quitting)
}

// panicView blows up on its first key press.
type panicView struct{}

func (panicView) Init() tea.Cmd { return nil }
func (panicView) View() string { return "boom view" }
func (panicView) Page() router.Page { return router.PageHome }
func (panicView) Title() string { return "Boom" }
func (panicView) ShortHelp() []key.Binding { return nil }
func (v panicView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		panic("kaboom")
	}
	return v, nil
}

func TestTUI_RecoversFromPanickingView(t *testing.T) {
	app := newTestApp(t, newFakeBackend(), nil)
	m := newTUIModel(context.Background(), app, router.PathHome)
	t.Cleanup(m.Close)
	m.view = panicView{}
	d := teatest.New(t, m)

	d.PressKey('x')
	d.AssertContains("Something went wrong.", "kaboom", "Press R to reload")

	d.PressKey('R')
	d.AssertContains("Employee activity, at a glance.")
}

func TestMoveSelection(t *testing.T) {
	list := []models.Employee{{EmployeeID: "A"}, {EmployeeID: "B"}, {EmployeeID: "C"}}

	assert.Equal(t, "A", moveSelection(list, "", 1))
	assert.Equal(t, "B", moveSelection(list, "A", 1))
	assert.Equal(t, "C", moveSelection(list, "C", 1))
	assert.Equal(t, "A", moveSelection(list, "A", -1))
	assert.Equal(t, "x", moveSelection(nil, "x", 1))
}

func TestPageForKey(t *testing.T) {
	p, ok := pageForKey("1")
	assert.True(t, ok)
	assert.Equal(t, "dashboard", string(p))

	_, ok = pageForKey("9")
	assert.False(t, ok)
}
