package formatter

import (
	"fmt"
	"strings"
	"time"

	"Mansoor88-6/nagster-console/internal/models"
)

// FormatStats renders the three headline counts.
func FormatStats(s models.Stats) string {
	card := func(label, value string) string {
		return fmt.Sprintf("%s %s", Dim(label), Bold(value))
	}
	return strings.Join([]string{
		card("Total", Count(s.Total)),
		card("Active", StyleGreen.Render(Count(s.Active))),
		card("Suspicious", StyleRed.Render(Count(s.Suspicious))),
	}, "   ")
}

// FormatOverview renders the daily overview table.
func FormatOverview(date string, employees []models.Employee) string {
	var b strings.Builder
	b.WriteString(Header("Overview " + date))
	b.WriteString("\n")
	b.WriteString(FormatStats(models.ComputeStats(employees)))
	b.WriteString("\n\n")
	if len(employees) == 0 {
		b.WriteString(Dim("No employees for this date.") + "\n")
		return b.String()
	}
	b.WriteString(RenderTable(overviewHeaders, overviewRows(employees)))
	return b.String()
}

var overviewHeaders = []string{"ID", "NAME", "DEPARTMENT", "STATUS", "LOGIN", "LOGOUT", "ACTIVE", "IDLE", "FLAGS"}

func overviewRows(employees []models.Employee) [][]string {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		rows = append(rows, []string{
			e.EmployeeID,
			e.Name,
			e.Department,
			StatusPill(e.Status),
			models.ClockTime(e.LoginTime),
			models.ClockTime(e.LogoutTime),
			FormatMinutes(e.ActiveMinutes),
			FormatMinutes(e.IdleMinutes),
			FlagBadge(e.SuspiciousFlagCount),
		})
	}
	return rows
}

// FormatSuspicious lists only flagged employees.
func FormatSuspicious(date string, employees []models.Employee) string {
	flagged := models.FilterSuspicious(employees)
	var b strings.Builder
	b.WriteString(Header("Suspicious Reports " + date))
	b.WriteString("\n")
	if len(flagged) == 0 {
		b.WriteString(StyleGreen.Render("No suspicious activity.") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(flagged))
	for _, e := range flagged {
		rows = append(rows, []string{e.EmployeeID, e.Name, e.Department, FlagBadge(e.SuspiciousFlagCount)})
	}
	b.WriteString(RenderTable([]string{"ID", "NAME", "DEPARTMENT", "FLAGS"}, rows))
	return b.String()
}

// FormatSummary renders one employee's day.
func FormatSummary(s *models.EmployeeSummary) string {
	if s == nil {
		return Dim("Select an employee to view details.")
	}
	var b strings.Builder
	b.WriteString(Bold(s.Name) + "  " + Dim(s.EmployeeID) + "  " + StatusPill(s.Status) + "\n\n")
	b.WriteString(KeyValue("designation", s.Designation))
	b.WriteString(KeyValue("department", s.Department))
	b.WriteString(KeyValue("domain", s.Domain))
	b.WriteString(KeyValue("location", s.Location))
	b.WriteString(KeyValue("work mode", s.WorkMode))
	b.WriteString(KeyValue("email", s.Email))
	b.WriteString(KeyValue("manager", s.ManagerName))
	b.WriteString("\n")
	b.WriteString(KeyValue("login", models.ClockTime(s.LoginTime)))
	b.WriteString(KeyValue("logout", models.ClockTime(s.LogoutTime)))
	b.WriteString(KeyValue("active", StyleGreen.Render(s.Active.String())))
	b.WriteString(KeyValue("idle", StyleYellow.Render(s.Idle.String())))
	b.WriteString(KeyValue("flags", FlagBadge(s.SuspiciousFlagCount)))
	return b.String()
}

// FormatActivity renders an activity log in order.
func FormatActivity(entries []models.ActivityEntry) string {
	if len(entries) == 0 {
		return Dim("No activity recorded.")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		style := ActivityStyle(e.Type)
		desc := e.Description
		if e.Details != "" {
			desc += " " + Dim("("+e.Details+")")
		}
		rows = append(rows, []string{
			models.ClockTime(e.Timestamp),
			style.Render(strings.ToUpper(e.Type)),
			e.Title,
			desc,
			orDash(e.Duration),
		})
	}
	return RenderTable([]string{"TIME", "TYPE", "TITLE", "DESCRIPTION", "DURATION"}, rows)
}

// FormatEmployees renders the employee directory.
func FormatEmployees(records []models.EmployeeRecord) string {
	if len(records) == 0 {
		return Dim("No employees found.")
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.EmployeeID, r.Name, r.Designation, r.Department, r.Location, r.WorkMode, StatusPill(r.Status)})
	}
	return RenderTable([]string{"ID", "NAME", "DESIGNATION", "DEPARTMENT", "LOCATION", "MODE", "STATUS"}, rows)
}

// FormatWhoami renders the signed-in identity. expires is zero when the
// token carries no exp claim.
func FormatWhoami(username, role string, expires, now time.Time) string {
	var b strings.Builder
	b.WriteString(KeyValue("username", Bold(username)))
	b.WriteString(KeyValue("role", StylePurple.Render(role)))
	if !expires.IsZero() {
		b.WriteString(KeyValue("token", Relative(expires, now)))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
