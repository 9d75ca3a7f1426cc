package utils

import (
	"time"
)

// DateLayout is the canonical YYYY-MM-DD key for a local calendar day.
const DateLayout = "2006-01-02"

// Today returns the current calendar date in the process's local timezone.
// Re-evaluated on every call so a day boundary is never cached over.
func Today() string {
	return time.Now().Format(DateLayout)
}

// TodayIn returns the current calendar date in the given location.
func TodayIn(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}

// TodayInTimezone returns today's date key in the named IANA timezone.
func TodayInTimezone(timezone string) (string, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", err
	}
	return TodayIn(loc), nil
}

// LocalHour returns the current hour (0-23) in the named IANA timezone.
func LocalHour(timezone string) (int, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return 0, err
	}
	return time.Now().In(loc).Hour(), nil
}

// PreviousDay returns the date one calendar day before d. The arithmetic
// runs on date components anchored at local midnight, not on raw durations,
// so month, year and DST boundaries never drift the result by an hour.
func PreviousDay(d string) string {
	t, err := time.ParseInLocation(DateLayout, d, time.Local)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// DateRange returns every date from start to end inclusive, ascending.
// Reversed bounds yield an empty range.
func DateRange(start, end string) []string {
	startDay, err := time.ParseInLocation(DateLayout, start, time.Local)
	if err != nil {
		return nil
	}
	endDay, err := time.ParseInLocation(DateLayout, end, time.Local)
	if err != nil {
		return nil
	}

	var dates []string
	for cur := startDay; !cur.After(endDay); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, cur.Format(DateLayout))
	}
	return dates
}

// ValidDateKey reports whether s is a well-formed YYYY-MM-DD date key.
func ValidDateKey(s string) bool {
	_, err := time.ParseInLocation(DateLayout, s, time.Local)
	return err == nil && len(s) == len(DateLayout)
}
