package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu          sync.Mutex
	overview    map[string][]models.Employee
	overviewErr error
	summaryErr  error
	calls       []string
	ctxs        map[string]context.Context
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		overview: map[string][]models.Employee{
			"2025-03-10": {
				{EmployeeID: "E1", Name: "Ana", Status: "Active"},
				{EmployeeID: "E2", Name: "Bo", Status: "Inactive", SuspiciousFlagCount: 2},
				{EmployeeID: "E3", Name: "Cy", Status: "Active", SuspiciousFlagCount: 1},
			},
			"2025-03-11": {
				{EmployeeID: "E3", Name: "Cy", Status: "Inactive"},
				{EmployeeID: "E4", Name: "Di", Status: "Active"},
			},
		},
		ctxs: map[string]context.Context{},
	}
}

func (f *fakeAPI) record(call string, ctx context.Context) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.ctxs[call] = ctx
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Reset() {
	f.mu.Lock()
	f.calls = nil
	f.mu.Unlock()
}

func (f *fakeAPI) Overview(ctx context.Context, date string) ([]models.Employee, error) {
	f.record("overview:"+date, ctx)
	if f.overviewErr != nil {
		return nil, f.overviewErr
	}
	return f.overview[date], nil
}

func (f *fakeAPI) Summary(ctx context.Context, id, date string) (*models.EmployeeSummary, error) {
	f.record("summary:"+id+":"+date, ctx)
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return &models.EmployeeSummary{EmployeeID: id, Date: date}, nil
}

func (f *fakeAPI) Activity(ctx context.Context, id, date string) ([]models.ActivityEntry, error) {
	f.record("activity:"+id+":"+date, ctx)
	return []models.ActivityEntry{{Type: "active", Title: id}}, nil
}

var day = time.Date(2025, 3, 10, 15, 4, 0, 0, time.Local)

func newTestShell(t *testing.T) (*Shell, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	s := NewShell(context.Background(), api, day, zap.NewNop())
	t.Cleanup(s.Close)
	return s, api
}

func drain(t *testing.T, s *Shell, fetches []Fetch) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Drain(ctx, fetches))
}

func TestShell_InitLoadsOverviewThenSummary(t *testing.T) {
	s, api := newTestShell(t)

	drain(t, s, s.Init())

	snap := s.Snapshot()
	assert.Equal(t, "2025-03-10", snap.Date)
	assert.Len(t, snap.Employees, 3)
	assert.Equal(t, models.Stats{Total: 3, Active: 2, Suspicious: 3}, snap.Stats)
	assert.Equal(t, "E1", snap.SelectedID)
	require.NotNil(t, snap.Summary)
	assert.Equal(t, "E1", snap.Summary.EmployeeID)
	assert.Empty(t, snap.Activity)
	assert.Equal(t, []string{"overview:2025-03-10", "summary:E1:2025-03-10"}, api.Calls())
}

func TestShell_ActivityOnlyOnActivityPage(t *testing.T) {
	s, api := newTestShell(t)
	drain(t, s, s.Init())
	api.Reset()

	drain(t, s, s.Select("E2"))
	assert.Equal(t, []string{"summary:E2:2025-03-10"}, api.Calls())

	drain(t, s, s.SetPage(PageActivityLogs))
	assert.Equal(t, []string{"summary:E2:2025-03-10", "activity:E2:2025-03-10"}, api.Calls())
	assert.Len(t, s.Snapshot().Activity, 1)

	api.Reset()
	assert.Empty(t, s.SetPage(PageSuspicious))
	assert.Empty(t, api.Calls())
	assert.Empty(t, s.Snapshot().Activity)
}

func TestShell_ViewActivityIsAtomic(t *testing.T) {
	s, api := newTestShell(t)
	drain(t, s, s.Init())
	api.Reset()

	fetches := s.ViewActivity("E3")
	assert.Len(t, fetches, 2)
	drain(t, s, fetches)

	snap := s.Snapshot()
	assert.Equal(t, PageActivityLogs, snap.Page)
	assert.Equal(t, "E3", snap.SelectedID)
	assert.ElementsMatch(t, []string{"summary:E3:2025-03-10", "activity:E3:2025-03-10"}, api.Calls())
}

func TestShell_DateChangePreservesOrReplacesSelection(t *testing.T) {
	s, api := newTestShell(t)
	drain(t, s, s.Init())
	drain(t, s, s.Select("E3"))
	api.Reset()

	// E3 exists on the next day, so it stays selected
	drain(t, s, s.ShiftDate(1))
	snap := s.Snapshot()
	assert.Equal(t, "2025-03-11", snap.Date)
	assert.Equal(t, "E3", snap.SelectedID)
	assert.Equal(t, "2025-03-11", snap.Summary.Date)

	// E4 does not exist on the previous day, so the first row is picked
	drain(t, s, s.Select("E4"))
	drain(t, s, s.ShiftDate(-1))
	assert.Equal(t, "E1", s.Snapshot().SelectedID)

	// no rows clears the selection and the summary
	drain(t, s, s.SetDate(day.AddDate(0, 0, 5)))
	snap = s.Snapshot()
	assert.Empty(t, snap.SelectedID)
	assert.Nil(t, snap.Summary)

	// with nothing selected, summary and activity never hit the backend
	api.Reset()
	assert.Empty(t, s.SetPage(PageActivityLogs))
	assert.Empty(t, api.Calls())
	assert.Empty(t, s.Snapshot().Activity)
}

func TestShell_SameDateIsNoop(t *testing.T) {
	s, _ := newTestShell(t)
	drain(t, s, s.Init())

	assert.Empty(t, s.SetDate(day.Add(3*time.Hour)))
	assert.Empty(t, s.Select("E1"))
	assert.Empty(t, s.SetPage(PageDashboard))
}

func TestShell_OverviewFailureClearsState(t *testing.T) {
	s, api := newTestShell(t)
	drain(t, s, s.Init())

	api.overviewErr = &client.Error{Kind: client.KindHTTP, StatusCode: 500, Message: "HTTP error! status: 500"}
	drain(t, s, s.Refresh())

	snap := s.Snapshot()
	assert.Empty(t, snap.Employees)
	assert.Equal(t, models.Stats{}, snap.Stats)
	assert.Empty(t, snap.SelectedID)
	assert.Nil(t, snap.Summary)
	require.NotNil(t, snap.OverviewErr)
	assert.Equal(t, "HTTP error! status: 500", snap.OverviewErr.Message)
	assert.Nil(t, snap.SummaryErr)
}

func TestShell_SummaryFailureIsIndependent(t *testing.T) {
	s, api := newTestShell(t)
	api.summaryErr = errors.New("boom")

	drain(t, s, s.Init())

	snap := s.Snapshot()
	assert.Len(t, snap.Employees, 3)
	assert.Nil(t, snap.Summary)
	require.NotNil(t, snap.SummaryErr)
	assert.Nil(t, snap.OverviewErr)
}

func TestShell_StaleOverviewIsDropped(t *testing.T) {
	s, _ := newTestShell(t)
	slow := s.Init()[0]
	fast := s.ShiftDate(1)[0]

	// the newer date answers first, then the old request straggles in
	follow := s.Apply(fast())
	assert.Empty(t, s.Apply(slow()))
	drain(t, s, follow)

	snap := s.Snapshot()
	assert.Equal(t, "2025-03-11", snap.Date)
	assert.Len(t, snap.Employees, 2)
	assert.Equal(t, "E3", snap.SelectedID)
}

func TestShell_SelectionChangeCancelsSummary(t *testing.T) {
	s, api := newTestShell(t)
	drain(t, s, s.Init())

	first := s.Select("E2")
	second := s.Select("E3")
	require.Len(t, first, 1)

	s.Apply(first[0]())
	drain(t, s, second)

	ctx := api.ctxs["summary:E2:2025-03-10"]
	require.NotNil(t, ctx)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, "E3", s.Snapshot().Summary.EmployeeID)
	assert.Nil(t, s.Snapshot().SummaryErr)
}

func TestShell_RefreshRefetchesSameKey(t *testing.T) {
	s, api := newTestShell(t)
	drain(t, s, s.ViewActivity("E1"))
	drain(t, s, s.Init())
	api.Reset()

	drain(t, s, s.Refresh())

	assert.ElementsMatch(t, []string{
		"overview:2025-03-10",
		"summary:E1:2025-03-10",
		"activity:E1:2025-03-10",
	}, api.Calls())
}

func TestSnapshot_Helpers(t *testing.T) {
	s, _ := newTestShell(t)
	drain(t, s, s.Init())
	snap := s.Snapshot()

	sel, ok := snap.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Ana", sel.Name)

	sus := snap.Suspicious()
	require.Len(t, sus, 2)
	assert.Equal(t, "E2", sus[0].EmployeeID)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Day())

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestPages(t *testing.T) {
	assert.Equal(t, "Nagster Dashboard", PageDashboard.Title())
	assert.Equal(t, "Suspicious Reports", PageSuspicious.Title())
	assert.Equal(t, "Admin Profile", PageProfile.Title())

	p, ok := ParsePage("activity-logs")
	assert.True(t, ok)
	assert.Equal(t, PageActivityLogs, p)
	_, ok = ParsePage("nope")
	assert.False(t, ok)
}
