package meetup

import (
	"time"

	"github.com/jinzhu/now"
)

const dayLayout = "2006-01-02"

// HourStart truncates t to the beginning of its hour, keeping t's location.
func HourStart(t time.Time) time.Time {
	return now.With(t).BeginningOfHour()
}

// IsPast reports whether the hour containing date has already started at current.
// The same rule guards creation, updates and deletion.
func IsPast(date, current time.Time) bool {
	return !HourStart(date).After(current)
}

// DayBounds returns the first and last instant of the calendar day holding day.
func DayBounds(day time.Time) (time.Time, time.Time) {
	n := now.With(day)

	return n.BeginningOfDay(), n.EndOfDay()
}

// ParseDay parses a YYYY-MM-DD query value in loc.
func ParseDay(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	return time.ParseInLocation(dayLayout, raw, loc)
}
