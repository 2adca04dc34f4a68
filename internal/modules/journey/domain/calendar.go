package domain

import "time"

const daysPerWeek = 7

// Position is where "now" falls in a journey, counted in calendar days from
// the start date. Week and DayOfWeek are 1-based.
type Position struct {
	ElapsedDays int
	Week        int
	DayOfWeek   int
}

func PositionFor(elapsedDays int) Position {
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return Position{
		ElapsedDays: elapsedDays,
		Week:        elapsedDays/daysPerWeek + 1,
		DayOfWeek:   elapsedDays%daysPerWeek + 1,
	}
}

// Locate returns the position of now relative to start. A nil start is day 1
// of week 1.
func Locate(start *time.Time, now time.Time) Position {
	if start == nil {
		return PositionFor(0)
	}
	return PositionFor(DaysBetween(start.In(now.Location()), now))
}

// Midnight strips the time of day, keeping the location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from one date to another. Dates are
// compared in UTC after taking their local calendar date, so DST changes
// never produce a 23 or 25 hour "day".
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// WeekStart is the first day of the given journey week.
func WeekStart(start time.Time, week int) time.Time {
	if week < 1 {
		week = 1
	}
	return Midnight(start).AddDate(0, 0, (week-1)*daysPerWeek)
}
