package chore

import (
	"fmt"
	"time"
)

// IsOverdue reports whether a recurring task is due again. A task that was
// never done is overdue; otherwise it is overdue once strictly more than
// frequencyHours have elapsed since lastDoneAt.
func IsOverdue(lastDoneAt *time.Time, frequencyHours int, now time.Time) bool {
	if lastDoneAt == nil {
		return true
	}
	return now.Sub(*lastDoneAt) > time.Duration(frequencyHours)*time.Hour
}

// NextDue returns when a recurring task falls overdue, or nil if it never ran.
func NextDue(lastDoneAt *time.Time, frequencyHours int) *time.Time {
	if lastDoneAt == nil {
		return nil
	}
	next := lastDoneAt.Add(time.Duration(frequencyHours) * time.Hour)
	return &next
}

// Since renders elapsed time the way the task list shows it: minutes under an
// hour, hours under a day, then days.
func Since(lastDoneAt *time.Time, now time.Time) string {
	if lastDoneAt == nil {
		return "never"
	}
	d := now.Sub(*lastDoneAt)
	switch {
	case d < time.Hour:
		return formatUnit(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return formatUnit(int(d.Hours()), "hour")
	}
	return formatUnit(int(d.Hours()/24), "day")
}

func formatUnit(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
