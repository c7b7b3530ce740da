package models

import (
	"fmt"
	"strings"
)

// Employee is one row of the daily overview.
type Employee struct {
	EmployeeID          string `json:"employee_id"`
	Name                string `json:"name"`
	Designation         string `json:"designation"`
	Domain              string `json:"domain"`
	Department          string `json:"department"`
	Location            string `json:"location"`
	WorkMode            string `json:"work_mode"`
	Status              string `json:"status"` // Active, Inactive
	LoginTime           string `json:"login_time,omitempty"`
	LogoutTime          string `json:"logout_time,omitempty"`
	ActiveMinutes       int    `json:"active_minutes"`
	IdleMinutes         int    `json:"idle_minutes"`
	SuspiciousFlagCount int    `json:"suspicious_flag_count"`
}

// Employee status values reported by the backend.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

func (e Employee) IsSuspicious() bool {
	return e.SuspiciousFlagCount > 0
}

// Stats are the dashboard headline numbers. Suspicious is the total flag
// count across employees, not the number of flagged employees.
type Stats struct {
	Total      int
	Active     int
	Suspicious int
}

// ComputeStats folds an overview list into headline counts.
func ComputeStats(employees []Employee) Stats {
	var s Stats
	for _, e := range employees {
		s.Total++
		if e.IsActive() {
			s.Active++
		}
		s.Suspicious += e.SuspiciousFlagCount
	}
	return s
}

// FilterSuspicious returns the employees with at least one suspicious flag.
func FilterSuspicious(employees []Employee) []Employee {
	out := make([]Employee, 0, len(employees))
	for _, e := range employees {
		if e.IsSuspicious() {
			out = append(out, e)
		}
	}
	return out
}

// DurationParts is an hours/minutes/seconds breakdown.
type DurationParts struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// String renders "2h 5m"; seconds only appear when hours and minutes are zero.
func (d DurationParts) String() string {
	var parts []string
	if d.Hours != 0 {
		parts = append(parts, fmt.Sprintf("%dh", d.Hours))
	}
	if d.Minutes != 0 {
		parts = append(parts, fmt.Sprintf("%dm", d.Minutes))
	}
	if d.Hours == 0 && d.Minutes == 0 && d.Seconds != 0 {
		parts = append(parts, fmt.Sprintf("%ds", d.Seconds))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}

// EmployeeSummary is the per-employee detail for one day.
type EmployeeSummary struct {
	EmployeeID          string        `json:"employee_id"`
	Date                string        `json:"date"`
	Name                string        `json:"name"`
	Email               string        `json:"email,omitempty"`
	Phone               string        `json:"phone,omitempty"`
	Designation         string        `json:"designation"`
	Domain              string        `json:"domain"`
	Department          string        `json:"department"`
	Location            string        `json:"location"`
	WorkMode            string        `json:"work_mode"`
	EmployeeType        string        `json:"employee_type,omitempty"`
	SalaryBand          string        `json:"salary_band,omitempty"`
	JoiningDate         string        `json:"joining_date,omitempty"`
	ManagerName         string        `json:"manager_name,omitempty"`
	ManagerEmail        string        `json:"manager_email,omitempty"`
	Status              string        `json:"status"`
	LoginTime           string        `json:"login_time,omitempty"`
	LogoutTime          string        `json:"logout_time,omitempty"`
	Active              DurationParts `json:"active"`
	Idle                DurationParts `json:"idle"`
	SuspiciousFlagCount int           `json:"suspicious_flag_count"`
}

// EmployeeRecord is a row of the employee directory (GET /employees).
type EmployeeRecord struct {
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Domain      string `json:"domain"`
	Department  string `json:"department"`
	Location    string `json:"location"`
	WorkMode    string `json:"work_mode"`
	Status      string `json:"status"`
}

// Work modes accepted by the add form.
const (
	WorkModeOffice = "Office"
	WorkModeWFH    = "WFH"
	WorkModeHybrid = "Hybrid"
)

var WorkModes = []string{WorkModeOffice, WorkModeWFH, WorkModeHybrid}

// NewEmployee is the payload for POST /employees.
type NewEmployee struct {
	EmployeeID   string `json:"employee_id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Designation  string `json:"designation"`
	Domain       string `json:"domain"`
	Department   string `json:"department"`
	EmployeeType string `json:"employee_type,omitempty"`
	SalaryBand   string `json:"salary_band,omitempty"`
	ManagerName  string `json:"manager_name"`
	ManagerEmail string `json:"manager_email,omitempty"`
	Location     string `json:"location"`
	JoiningDate  string `json:"joining_date"`
	WorkMode     string `json:"work_mode"`
}

// Ack is the body of a successful mutation.
type Ack struct {
	Message string `json:"message"`
}
