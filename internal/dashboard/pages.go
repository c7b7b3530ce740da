package dashboard

// Page is a section of the dashboard shell.
type Page string

const (
	PageDashboard      Page = "dashboard"
	PageEmployees      Page = "employees"
	PageAddEmployee    Page = "add-employee"
	PageRemoveEmployee Page = "remove-employee"
	PageActivityLogs   Page = "activity-logs"
	PageSuspicious     Page = "suspicious"
	PageSettings       Page = "settings"
	PageProfile        Page = "profile"
)

// Pages in sidebar order.
var Pages = []Page{
	PageDashboard,
	PageEmployees,
	PageAddEmployee,
	PageRemoveEmployee,
	PageActivityLogs,
	PageSuspicious,
	PageSettings,
	PageProfile,
}

var pageTitles = map[Page]string{
	PageDashboard:      "Nagster Dashboard",
	PageEmployees:      "My Employees",
	PageAddEmployee:    "Add Employee",
	PageRemoveEmployee: "Remove Employee",
	PageActivityLogs:   "Activity Logs",
	PageSuspicious:     "Suspicious Reports",
	PageSettings:       "Settings",
	PageProfile:        "Admin Profile",
}

func (p Page) Title() string {
	if t, ok := pageTitles[p]; ok {
		return t
	}
	return pageTitles[PageDashboard]
}

// ParsePage accepts a page id.
func ParsePage(s string) (Page, bool) {
	for _, p := range Pages {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}
