package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Mansoor88-6/nagster-console/internal/client"
	"Mansoor88-6/nagster-console/internal/models"
	"Mansoor88-6/nagster-console/internal/query"

	"go.uber.org/zap"
)

// DateLayout is the backend's date_str format.
const DateLayout = "2006-01-02"

// API is the read side of the backend used by the dashboard.
type API interface {
	Overview(ctx context.Context, date string) ([]models.Employee, error)
	Summary(ctx context.Context, employeeID, date string) (*models.EmployeeSummary, error)
	Activity(ctx context.Context, employeeID, date string) ([]models.ActivityEntry, error)
}

type employeeKey struct {
	ID   string
	Date string
}

type (
	overviewResult = query.Result[string, []models.Employee]
	summaryResult  = query.Result[employeeKey, *models.EmployeeSummary]
	activityResult = query.Result[employeeKey, []models.ActivityEntry]
)

// Fetch is pending network work. Run it off the UI goroutine and pass its
// Outcome to Shell.Apply.
type Fetch func() Outcome

// Outcome carries exactly one query result.
type Outcome struct {
	overview *overviewResult
	summary  *summaryResult
	activity *activityResult
}

// Shell holds the dashboard's (date, selection, page) and drives the three
// independent queries keyed by them.
type Shell struct {
	api    API
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	overview *query.Query[string, []models.Employee]
	summary  *query.Query[employeeKey, *models.EmployeeSummary]
	activity *query.Query[employeeKey, []models.ActivityEntry]

	mu         sync.Mutex
	date       time.Time
	selectedID string
	page       Page
	employees  []models.Employee
	stats      models.Stats
}

// NewShell starts on day (local date) with the dashboard page open. Its
// requests end when parent is done or Close is called.
func NewShell(parent context.Context, api API, day time.Time, logger *zap.Logger) *Shell {
	ctx, cancel := context.WithCancel(parent)
	s := &Shell{
		api:    api,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		date:   truncateDay(day),
		page:   PageDashboard,
	}
	s.overview = query.New(func(ctx context.Context, date string) ([]models.Employee, error) {
		return api.Overview(ctx, date)
	})
	s.summary = query.New(func(ctx context.Context, k employeeKey) (*models.EmployeeSummary, error) {
		return api.Summary(ctx, k.ID, k.Date)
	})
	s.activity = query.New(func(ctx context.Context, k employeeKey) ([]models.ActivityEntry, error) {
		return api.Activity(ctx, k.ID, k.Date)
	})
	return s
}

// Close cancels every request in flight.
func (s *Shell) Close() {
	s.cancel()
}

// Init issues the first overview load.
func (s *Shell) Init() []Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	fetches := []Fetch{s.beginOverviewLocked()}
	return append(fetches, s.reconcileLocked(false)...)
}

// SetDate changes the day being viewed. The overview reloads; summary and
// activity follow since their keys include the date.
func (s *Shell) SetDate(day time.Time) []Fetch {
	day = truncateDay(day)
	s.mu.Lock()
	defer s.mu.Unlock()
	if day.Equal(s.date) {
		return nil
	}
	s.date = day
	s.logger.Debug("Dashboard date changed", zap.String("date", s.dateLocked()))
	fetches := []Fetch{s.beginOverviewLocked()}
	return append(fetches, s.reconcileLocked(false)...)
}

// ShiftDate moves the date by days.
func (s *Shell) ShiftDate(days int) []Fetch {
	s.mu.Lock()
	d := s.date.AddDate(0, 0, days)
	s.mu.Unlock()
	return s.SetDate(d)
}

// Select changes the selected employee. An empty id clears the selection.
func (s *Shell) Select(id string) []Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.selectedID {
		return nil
	}
	s.selectedID = id
	return s.reconcileLocked(false)
}

// SetPage switches the content page.
func (s *Shell) SetPage(p Page) []Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == s.page {
		return nil
	}
	s.page = p
	return s.reconcileLocked(false)
}

// ViewActivity selects id and opens the activity log in one transition, so
// the activity query never fires for a stale selection or page.
func (s *Shell) ViewActivity(id string) []Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
	s.page = PageActivityLogs
	return s.reconcileLocked(false)
}

// OpenEmployee selects id and returns to the dashboard page.
func (s *Shell) OpenEmployee(id string) []Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
	s.page = PageDashboard
	return s.reconcileLocked(false)
}

// Refresh reloads everything for the current key.
func (s *Shell) Refresh() []Fetch {
	s.mu.Lock()
	defer s.mu.Unlock()
	fetches := []Fetch{s.beginOverviewLocked()}
	return append(fetches, s.reconcileLocked(true)...)
}

// Apply folds an outcome into the shell and returns any follow-up work.
// Results from superseded requests are ignored.
func (s *Shell) Apply(o Outcome) []Fetch {
	switch {
	case o.overview != nil:
		return s.applyOverview(*o.overview)
	case o.summary != nil:
		if s.summary.Apply(*o.summary) && o.summary.Err != nil {
			s.logFailure("summary", o.summary.Ticket.Key.ID, o.summary.Err)
		}
	case o.activity != nil:
		if s.activity.Apply(*o.activity) && o.activity.Err != nil {
			s.logFailure("activity", o.activity.Ticket.Key.ID, o.activity.Err)
		}
	}
	return nil
}

func (s *Shell) applyOverview(r overviewResult) []Fetch {
	if !s.overview.Apply(r) {
		s.logger.Debug("Dropped stale overview", zap.String("date", r.Ticket.Key))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Err != nil {
		s.logFailure("overview", "", r.Err)
		s.employees = nil
		s.stats = models.Stats{}
		s.selectedID = ""
		return s.reconcileLocked(false)
	}

	s.employees = r.Data
	s.stats = models.ComputeStats(r.Data)
	s.selectedID = preserveSelection(s.selectedID, r.Data)
	return s.reconcileLocked(false)
}

// preserveSelection keeps current if it is still listed, otherwise picks
// the first employee, otherwise nothing.
func preserveSelection(current string, employees []models.Employee) string {
	if current != "" {
		for _, e := range employees {
			if e.EmployeeID == current {
				return current
			}
		}
	}
	if len(employees) > 0 {
		return employees[0].EmployeeID
	}
	return ""
}

func (s *Shell) beginOverviewLocked() Fetch {
	t := s.overview.Begin(s.ctx, s.dateLocked())
	return func() Outcome {
		r := s.overview.Run(t)
		return Outcome{overview: &r}
	}
}

// reconcileLocked brings summary and activity in line with the current
// (selection, date, page). force re-fetches even when the key is unchanged.
func (s *Shell) reconcileLocked(force bool) []Fetch {
	var fetches []Fetch
	key := employeeKey{ID: s.selectedID, Date: s.dateLocked()}

	if s.selectedID == "" {
		s.summary.Clear()
	} else if cur, ok := s.summary.Current(); force || !ok || cur != key {
		t := s.summary.Begin(s.ctx, key)
		fetches = append(fetches, func() Outcome {
			r := s.summary.Run(t)
			return Outcome{summary: &r}
		})
	}

	if s.selectedID == "" || s.page != PageActivityLogs {
		s.activity.Clear()
	} else if cur, ok := s.activity.Current(); force || !ok || cur != key {
		t := s.activity.Begin(s.ctx, key)
		fetches = append(fetches, func() Outcome {
			r := s.activity.Run(t)
			return Outcome{activity: &r}
		})
	}
	return fetches
}

func (s *Shell) dateLocked() string {
	return s.date.Format(DateLayout)
}

func (s *Shell) logFailure(what, employeeID string, err error) {
	if client.IsCanceled(err) {
		return
	}
	s.logger.Warn("Dashboard fetch failed",
		zap.String("query", what),
		zap.String("employee_id", employeeID),
		zap.Error(err),
	)
}

// Snapshot is an immutable view of the dashboard for rendering.
type Snapshot struct {
	Date       string
	SelectedID string
	Page       Page

	Employees []models.Employee
	Stats     models.Stats
	Summary   *models.EmployeeSummary
	Activity  []models.ActivityEntry

	OverviewLoading bool
	SummaryLoading  bool
	ActivityLoading bool

	OverviewErr *client.Error
	SummaryErr  *client.Error
	ActivityErr *client.Error
}

func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Date:       s.dateLocked(),
		SelectedID: s.selectedID,
		Page:       s.page,
		Employees:  append([]models.Employee(nil), s.employees...),
		Stats:      s.stats,
	}
	s.mu.Unlock()

	ov := s.overview.State()
	snap.OverviewLoading = ov.Loading
	snap.OverviewErr = visibleErr(ov.Err)

	sum := s.summary.State()
	snap.Summary = sum.Data
	snap.SummaryLoading = sum.Loading
	snap.SummaryErr = visibleErr(sum.Err)

	act := s.activity.State()
	snap.Activity = append([]models.ActivityEntry(nil), act.Data...)
	snap.ActivityLoading = act.Loading
	snap.ActivityErr = visibleErr(act.Err)
	return snap
}

func visibleErr(err error) *client.Error {
	if err == nil || client.IsCanceled(err) {
		return nil
	}
	return client.AsError(err)
}

// Selected returns the selected overview row.
func (s Snapshot) Selected() (models.Employee, bool) {
	for _, e := range s.Employees {
		if e.EmployeeID == s.SelectedID {
			return e, true
		}
	}
	return models.Employee{}, false
}

// Suspicious lists employees with at least one flag.
func (s Snapshot) Suspicious() []models.Employee {
	return models.FilterSuspicious(s.Employees)
}

// Drain runs fetches concurrently, feeding outcomes back through Apply
// until no work remains or ctx is done.
func (s *Shell) Drain(ctx context.Context, fetches []Fetch) error {
	results := make(chan Outcome)
	pending := 0
	start := func(fs []Fetch) {
		for _, f := range fs {
			pending++
			go func(f Fetch) {
				o := f()
				select {
				case results <- o:
				case <-ctx.Done():
				}
			}(f)
		}
	}

	start(fetches)
	for pending > 0 {
		select {
		case o := <-results:
			pending--
			start(s.Apply(o))
		case <-ctx.Done():
			return fmt.Errorf("dashboard load interrupted: %w", ctx.Err())
		}
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date in local time.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return t, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
