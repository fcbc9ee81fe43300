package utils

import "time"

const dateLayout = "2006-01-02"

// ResolveDateRange turns the dashboard's start/end query parameters
// (YYYY-MM-DD) into an inclusive timestamp range. Missing, malformed or
// inverted dates are silently replaced by the trailing 30-day window ending
// today: start at 00:00:00, end at 23:59:59.
func ResolveDateRange(startParam, endParam string, now time.Time) (time.Time, time.Time) {
	start, startErr := time.ParseInLocation(dateLayout, startParam, now.Location())
	end, endErr := time.ParseInLocation(dateLayout, endParam, now.Location())
	if startErr != nil || endErr != nil || start.After(end) {
		return defaultWindow(now)
	}
	return dayStart(start), dayEnd(end)
}

func defaultWindow(now time.Time) (time.Time, time.Time) {
	end := dayEnd(now)
	start := dayStart(end.AddDate(0, 0, -29))
	return start, end
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
