package models

import (
	"strings"
	"time"
)

// ActivityEntry is one interval of an employee's activity log.
type ActivityEntry struct {
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"` // active, idle, suspicious
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    string `json:"duration,omitempty"` // "60s"
	Details     string `json:"details,omitempty"`
}

// Activity entry types.
const (
	ActivityActive     = "active"
	ActivityIdle       = "idle"
	ActivitySuspicious = "suspicious"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseTimestamp accepts the ISO forms the backend emits, with or without
// a zone. Zone-less values are read as local time.
func ParseTimestamp(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClockTime renders a timestamp as local "HH:MM", or "-" when missing or
// unparseable.
func ClockTime(ts string) string {
	t, ok := ParseTimestamp(ts)
	if !ok {
		return "-"
	}
	return t.Local().Format("15:04")
}
