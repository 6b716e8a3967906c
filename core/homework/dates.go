package homework

import (
	"fmt"
	"time"
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar",
	"Apr", "May", "Jun", "Jul",
	"Aug", "Sep", "Oct",
	"Nov", "Dec",
}

// FormatDate returns "<day> <Mon> <year>", e.g. "5 Jan 2024", in t's own location.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), monthNames[t.Month()-1], t.Year())
}

// DueLabel is the text shown next to a rendered assignment.
func DueLabel(due time.Time) string {
	return "Due: " + FormatDate(due)
}
