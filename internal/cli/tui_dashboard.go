package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"Mansoor88-6/nagster-console/internal/auth"
	"Mansoor88-6/nagster-console/internal/cli/formatter"
	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/dashboard"
	"Mansoor88-6/nagster-console/internal/employees"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/router"
)

// fetchDoneMsg carries a finished dashboard query back to the UI goroutine.
type fetchDoneMsg struct {
	outcome dashboard.Outcome
}

type addDoneMsg struct{ err error }

type removeDoneMsg struct {
	removed bool
	err     error
}

var (
	keyDown     = key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/k", "move"))
	keyUp       = key.NewBinding(key.WithKeys("k", "up"))
	keyEnter    = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
	keyActivity = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "activity"))
	keyPrevDay  = key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "day"))
	keyNextDay  = key.NewBinding(key.WithKeys("]"))
	keyToday    = key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today"))
	keyRefresh  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	keyLogout   = key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout"))
	keyPages    = key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "page"))
	keyEdit     = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	keySave     = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save"))
	keyStopEdit = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done"))
	keyRemove   = key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x", "remove"))
	keyYes      = key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm"))
	keyNo       = key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel"))
)

// dashboardView is the signed-in shell: sidebar, header and one content page.
type dashboardView struct {
	state *tuiState
	shell *dashboard.Shell

	add        *employees.AddForm
	addInputs  []textinput.Model
	addFocus   int
	editing    bool
	remove     *employees.RemoveForm
	confirming bool
	// confirmID is the employee the open prompt asks about.
	confirmID string
}

func newDashboardView(state *tuiState) *dashboardView {
	app := state.App
	v := &dashboardView{
		state:  state,
		shell:  dashboard.NewShell(state.Ctx, app.API, app.now(), app.Logger),
		add:    employees.NewAddForm(app.API, app.Logger),
		remove: employees.NewRemoveForm(app.API, app.Logger),
	}
	v.addInputs = make([]textinput.Model, len(employees.Fields))
	for i, f := range employees.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 128
		v.addInputs[i] = ti
	}
	v.loadAddInputs()
	return v
}

func (v *dashboardView) Page() router.Page { return router.PageDashboard }
func (v *dashboardView) Title() string { return v.shell.Snapshot().Page.Title() }

// Close cancels in-flight queries.
func (v *dashboardView) Close() {
	v.shell.Close()
}

func (v *dashboardView) CapturesInput() bool {
	return v.editing || v.confirming
}

func (v *dashboardView) ShortHelp() []key.Binding {
	switch {
	case v.editing:
		return []key.Binding{keyNextField, keySave, keyStopEdit}
	case v.confirming:
		return []key.Binding{keyYes, keyNo}
	}
	page := v.shell.Snapshot().Page
	hints := []key.Binding{keyDown}
	switch page {
	case dashboard.PageAddEmployee:
		hints = []key.Binding{keyEdit}
	case dashboard.PageRemoveEmployee:
		hints = append(hints, keyRemove)
	case dashboard.PageEmployees, dashboard.PageSuspicious:
		hints = append(hints, keyEnter, keyActivity)
	default:
		hints = append(hints, keyActivity)
	}
	return append(hints, keyPrevDay, keyToday, keyRefresh, keyPages, keyLogout)
}

func (v *dashboardView) Init() tea.Cmd {
	return runFetches(v.shell.Init())
}

// runFetches turns pending shell work into concurrent Cmds.
func runFetches(fetches []dashboard.Fetch) tea.Cmd {
	if len(fetches) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(fetches))
	for _, f := range fetches {
		cmds = append(cmds, func() tea.Msg { return fetchDoneMsg{outcome: f()} })
	}
	return tea.Batch(cmds...)
}

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		return v, runFetches(v.shell.Apply(msg.outcome))

	case addDoneMsg:
		if msg.err != nil {
			return v, nil
		}
		v.loadAddInputs()
		v.editing = false
		return v, runFetches(v.shell.Refresh())

	case removeDoneMsg:
		if !msg.removed {
			return v, nil
		}
		return v, runFetches(v.shell.Refresh())

	case tea.KeyMsg:
		switch {
		case v.editing:
			return v.updateEditing(msg)
		case v.confirming:
			return v.updateConfirm(msg)
		}
		return v.updateKeys(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.addInputs[v.addFocus], cmd = v.addInputs[v.addFocus].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *dashboardView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := v.shell.Snapshot()
	app := v.state.App

	switch {
	case key.Matches(msg, keyLogout):
		app.Session.Logout()
		return v, nil
	case key.Matches(msg, keyPages):
		if p, ok := pageForKey(msg.String()); ok {
			return v, runFetches(v.shell.SetPage(p))
		}
	case key.Matches(msg, keyPrevDay):
		return v, runFetches(v.shell.ShiftDate(-1))
	case key.Matches(msg, keyNextDay):
		return v, runFetches(v.shell.ShiftDate(1))
	case key.Matches(msg, keyToday):
		return v, runFetches(v.shell.SetDate(app.now()))
	case key.Matches(msg, keyRefresh):
		return v, runFetches(v.shell.Refresh())
	}

	switch snap.Page {
	case dashboard.PageAddEmployee:
		if key.Matches(msg, keyEdit) {
			return v, v.startEditing()
		}
		return v, nil

	case dashboard.PageRemoveEmployee:
		switch {
		case key.Matches(msg, keyDown):
			v.remove.Select(moveSelection(snap.Employees, v.remove.Selected(), 1))
		case key.Matches(msg, keyUp):
			v.remove.Select(moveSelection(snap.Employees, v.remove.Selected(), -1))
		case key.Matches(msg, keyRemove):
			if v.remove.Selected() == "" {
				// No selection fails validation without a request.
				_, _ = v.remove.Submit(v.state.Ctx, nil)
				return v, nil
			}
			v.confirming = true
			v.confirmID = v.remove.Selected()
		}
		return v, nil
	}

	list := snap.Employees
	if snap.Page == dashboard.PageSuspicious {
		list = snap.Suspicious()
	}
	switch {
	case key.Matches(msg, keyDown):
		return v, runFetches(v.shell.Select(moveSelection(list, snap.SelectedID, 1)))
	case key.Matches(msg, keyUp):
		return v, runFetches(v.shell.Select(moveSelection(list, snap.SelectedID, -1)))
	case key.Matches(msg, keyActivity):
		if snap.SelectedID != "" {
			return v, runFetches(v.shell.ViewActivity(snap.SelectedID))
		}
	case key.Matches(msg, keyEnter):
		if snap.SelectedID != "" && snap.Page != dashboard.PageDashboard {
			return v, runFetches(v.shell.OpenEmployee(snap.SelectedID))
		}
	}
	return v, nil
}

// pageForKey maps "1".."8" to the sidebar pages.
func pageForKey(k string) (dashboard.Page, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '8' {
		return "", false
	}
	i := int(k[0] - '1')
	if i >= len(dashboard.Pages) {
		return "", false
	}
	return dashboard.Pages[i], true
}

// moveSelection steps from current by delta within list, clamped. An
// unknown current starts at the top.
func moveSelection(list []models.Employee, current string, delta int) string {
	if len(list) == 0 {
		return current
	}
	idx := -1
	for i, e := range list {
		if e.EmployeeID == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		return list[0].EmployeeID
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(list) {
		idx = len(list) - 1
	}
	return list[idx].EmployeeID
}

// ── add employee form ────────────────────────────────────────────────────────

func (v *dashboardView) loadAddInputs() {
	for i, f := range employees.Fields {
		v.addInputs[i].SetValue(v.add.Get(f.Key))
	}
}

func (v *dashboardView) startEditing() tea.Cmd {
	v.editing = true
	return v.focusAddField(v.addFocus)
}

func (v *dashboardView) focusAddField(i int) tea.Cmd {
	n := len(v.addInputs)
	v.addFocus = (i + n) % n
	var cmd tea.Cmd
	for j := range v.addInputs {
		if j == v.addFocus {
			cmd = v.addInputs[j].Focus()
		} else {
			v.addInputs[j].Blur()
		}
	}
	return cmd
}

func (v *dashboardView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyStopEdit):
		v.editing = false
		v.addInputs[v.addFocus].Blur()
		return v, nil
	case key.Matches(msg, keySave):
		return v, v.submitAdd()
	case key.Matches(msg, keyNextField):
		return v, v.focusAddField(v.addFocus + 1)
	case key.Matches(msg, keyPrevField):
		return v, v.focusAddField(v.addFocus - 1)
	case key.Matches(msg, keySubmit):
		if v.addFocus == len(v.addInputs)-1 {
			return v, v.submitAdd()
		}
		return v, v.focusAddField(v.addFocus + 1)
	}

	var cmd tea.Cmd
	before := v.addInputs[v.addFocus].Value()
	v.addInputs[v.addFocus], cmd = v.addInputs[v.addFocus].Update(msg)
	if after := v.addInputs[v.addFocus].Value(); after != before {
		_ = v.add.Set(employees.Fields[v.addFocus].Key, after)
	}
	return v, cmd
}

func (v *dashboardView) submitAdd() tea.Cmd {
	form, ctx := v.add, v.state.Ctx
	return func() tea.Msg {
		return addDoneMsg{err: form.Submit(ctx)}
	}
}

// ── remove employee ──────────────────────────────────────────────────────────

func (v *dashboardView) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keyYes):
		v.confirming = false
		form, ctx, confirmed := v.remove, v.state.Ctx, v.confirmID
		return v, func() tea.Msg {
			removed, err := form.Submit(ctx, func(id string) bool { return id == confirmed })
			return removeDoneMsg{removed: removed, err: err}
		}
	case key.Matches(msg, keyNo):
		v.confirming = false
	}
	return v, nil
}

// ── rendering ────────────────────────────────────────────────────────────────

var (
	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(formatter.ColorDim).
			PaddingRight(1).
			MarginRight(1)
	cursorMark = formatter.StyleHeader.Render("›")
	labelStyle = lipgloss.NewStyle().Width(20)
)

func (v *dashboardView) View() string {
	snap := v.shell.Snapshot()
	content := v.renderHeaderLine(snap) + "\n\n" + v.renderPage(snap)
	return lipgloss.JoinHorizontal(lipgloss.Top, v.renderSidebar(snap), content)
}

func (v *dashboardView) renderSidebar(snap dashboard.Snapshot) string {
	var b strings.Builder
	for i, p := range dashboard.Pages {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == snap.Page {
			b.WriteString(formatter.StyleHeader.Render("▌"+label) + "\n")
		} else {
			b.WriteString(formatter.Dim(" "+label) + "\n")
		}
	}
	return sidebarStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (v *dashboardView) renderHeaderLine(snap dashboard.Snapshot) string {
	line := formatter.Bold(snap.Page.Title()) + "  " + formatter.StyleBlue.Render(snap.Date)
	if snap.OverviewLoading {
		line += "  " + formatter.Dim("loading...")
	}
	return line
}

func (v *dashboardView) renderPage(snap dashboard.Snapshot) string {
	switch snap.Page {
	case dashboard.PageEmployees:
		return v.renderEmployees(snap)
	case dashboard.PageAddEmployee:
		return v.renderAddForm()
	case dashboard.PageRemoveEmployee:
		return v.renderRemove(snap)
	case dashboard.PageActivityLogs:
		return v.renderActivity(snap)
	case dashboard.PageSuspicious:
		return v.renderSuspicious(snap)
	case dashboard.PageSettings:
		return formatter.Dim("Settings are not available yet.")
	case dashboard.PageProfile:
		return v.renderProfile()
	default:
		return v.renderOverview(snap)
	}
}

func errBanner(err *client.Error) string {
	if err == nil {
		return ""
	}
	return formatter.ErrorLine(err.Message) + "\n"
}

func (v *dashboardView) employeeTable(list []models.Employee, selected string) string {
	if len(list) == 0 {
		return formatter.Dim("No employees for this date.") + "\n"
	}
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		mark := " "
		if e.EmployeeID == selected {
			mark = cursorMark
		}
		rows = append(rows, []string{
			mark, e.EmployeeID, e.Name, e.Department,
			formatter.StatusPill(e.Status),
			formatter.FormatMinutes(e.ActiveMinutes),
			formatter.FlagBadge(e.SuspiciousFlagCount),
		})
	}
	return formatter.RenderTable([]string{"", "ID", "NAME", "DEPARTMENT", "STATUS", "ACTIVE", "FLAGS"}, rows)
}

func (v *dashboardView) renderOverview(snap dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(errBanner(snap.OverviewErr))
	b.WriteString(formatter.FormatStats(snap.Stats) + "\n\n")
	b.WriteString(v.employeeTable(snap.Employees, snap.SelectedID))
	b.WriteString("\n")
	switch {
	case snap.SummaryErr != nil:
		b.WriteString(errBanner(snap.SummaryErr))
	case snap.SummaryLoading && snap.Summary == nil:
		b.WriteString(formatter.Dim("Loading summary...") + "\n")
	case snap.SelectedID != "":
		b.WriteString(formatter.FormatSummary(snap.Summary) + "\n")
	}
	return b.String()
}

func (v *dashboardView) renderEmployees(snap dashboard.Snapshot) string {
	return errBanner(snap.OverviewErr) + v.employeeTable(snap.Employees, snap.SelectedID)
}

func (v *dashboardView) renderSuspicious(snap dashboard.Snapshot) string {
	flagged := snap.Suspicious()
	if len(flagged) == 0 && snap.OverviewErr == nil {
		return formatter.StyleGreen.Render("No suspicious activity.") + "\n"
	}
	return errBanner(snap.OverviewErr) + v.employeeTable(flagged, snap.SelectedID)
}

func (v *dashboardView) renderActivity(snap dashboard.Snapshot) string {
	if snap.SelectedID == "" {
		return formatter.Dim("Select an employee to view activity.") + "\n"
	}
	var b strings.Builder
	if e, ok := snap.Selected(); ok {
		b.WriteString(formatter.Bold(e.Name) + "  " + formatter.Dim(e.EmployeeID) + "\n\n")
	}
	switch {
	case snap.ActivityErr != nil:
		b.WriteString(errBanner(snap.ActivityErr))
	case snap.ActivityLoading:
		b.WriteString(formatter.Dim("Loading activity...") + "\n")
	default:
		b.WriteString(formatter.FormatActivity(snap.Activity) + "\n")
	}
	return b.String()
}

func (v *dashboardView) renderAddForm() string {
	var b strings.Builder
	for i, f := range employees.Fields {
		label := f.Label
		if f.Required {
			label += " *"
		}
		if v.editing && i == v.addFocus {
			label = formatter.StyleHeader.Render("› " + label)
		} else {
			label = formatter.Dim("  " + label)
		}
		b.WriteString(labelStyle.Render(label) + " " + v.addInputs[i].View() + "\n")
	}
	b.WriteString("\n")
	loading, err, success := v.add.Status()
	switch {
	case loading:
		b.WriteString(formatter.Dim("Adding employee...") + "\n")
	case err != nil:
		b.WriteString(formatter.ErrorLine(err.Message) + "\n")
	case success != "":
		b.WriteString(formatter.SuccessLine(success) + "\n")
	}
	return b.String()
}

func (v *dashboardView) renderRemove(snap dashboard.Snapshot) string {
	var b strings.Builder
	b.WriteString(v.employeeTable(snap.Employees, v.remove.Selected()))
	b.WriteString("\n")
	if v.confirming {
		id := v.remove.Selected()
		name := ""
		for _, e := range snap.Employees {
			if e.EmployeeID == id {
				name = e.Name
			}
		}
		b.WriteString(formatter.StyleYellow.Render(employees.ConfirmPrompt(name, id)) + " " + formatter.Dim("[y/n]") + "\n")
		return b.String()
	}
	loading, err, success := v.remove.Status()
	switch {
	case loading:
		b.WriteString(formatter.Dim("Removing employee...") + "\n")
	case err != nil:
		b.WriteString(formatter.ErrorLine(err.Message) + "\n")
	case success != "":
		b.WriteString(formatter.SuccessLine(success) + "\n")
	}
	return b.String()
}

func (v *dashboardView) renderProfile() string {
	snap := v.state.App.Session.Snapshot()
	if snap.State != auth.Authenticated {
		return formatter.Dim("Not signed in.")
	}
	return formatter.FormatWhoami(snap.Username(), snap.Session.Role,
		tokenExpiry(snap.Session.Token), v.state.App.now())
}
