package booking

import (
	"errors"
	"fmt"
	"time"

	"bistro-backend/models"
)

// DefaultInterval is the spacing between bookable slots when no interval
// is configured.
const DefaultInterval = 30 * time.Minute

var (
	// ErrScheduleMissing means no opening-hours row exists for the requested
	// weekday. Every weekday must have one; this is a configuration defect,
	// not a user-facing condition.
	ErrScheduleMissing = errors.New("no opening hours configured for this weekday")

	// ErrNoAvailability means the date has no bookable slots left: today's
	// window has already passed, or the day has an empty window.
	ErrNoAvailability = errors.New("no bookings available for this date")
)

// ParseWallClock parses an "HH:MM" 24-hour wall-clock string and anchors it
// to the calendar day of date, in date's location.
func ParseWallClock(hm string, date time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid wall-clock time %q: %w", hm, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}

// RoundUpToInterval rounds t up to the next multiple of interval within the
// day. A moment already on the boundary stays unchanged; it must not advance
// a full interval.
func RoundUpToInterval(t time.Time, interval time.Duration) time.Time {
	step := int(interval / time.Minute)
	if step <= 0 {
		step = int(DefaultInterval / time.Minute)
	}

	minute := t.Hour()*60 + t.Minute()
	if t.Second() > 0 || t.Nanosecond() > 0 {
		minute++
	}
	if rem := minute % step; rem != 0 {
		minute += step - rem
	}

	// time.Date normalizes an overflow past midnight into the next day.
	return time.Date(t.Year(), t.Month(), t.Day(), minute/60, minute%60, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day, evaluated
// in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Slots returns the ordered bookable timestamps for targetDate.
//
// The weekday entry is resolved from schedule; open and close bound the
// window. When targetDate is the same calendar day as now, the first slot is
// max(open, now rounded up to the interval), and a rounded now at or past
// close fails with ErrNoAvailability. The result is ascending, includes the
// closing time itself when it lands on the grid, and is recomputed fresh on
// every call.
//
// Closed-date filtering is the caller's responsibility: a date present in
// the closed-date set should never reach this function.
func Slots(targetDate time.Time, schedule []models.OpeningHours, now time.Time, interval time.Duration) ([]time.Time, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	weekday := int(targetDate.Weekday())
	var hours *models.OpeningHours
	for i := range schedule {
		if schedule[i].DayOfWeek == weekday {
			hours = &schedule[i]
			break
		}
	}
	if hours == nil {
		return nil, fmt.Errorf("%w: weekday %d", ErrScheduleMissing, weekday)
	}

	open, err := ParseWallClock(hours.OpenTime, targetDate)
	if err != nil {
		return nil, err
	}
	closing, err := ParseWallClock(hours.CloseTime, targetDate)
	if err != nil {
		return nil, err
	}

	// An empty window (open == close) never produces a slot.
	if !open.Before(closing) {
		return nil, ErrNoAvailability
	}

	first := open
	if SameDay(targetDate, now) {
		rounded := RoundUpToInterval(now.In(targetDate.Location()), interval)
		if !rounded.Before(closing) {
			return nil, ErrNoAvailability
		}
		if rounded.After(first) {
			first = rounded
		}
	}

	var slots []time.Time
	for t := first; !t.After(closing); t = t.Add(interval) {
		slots = append(slots, t)
	}
	if len(slots) == 0 {
		return nil, ErrNoAvailability
	}
	return slots, nil
}

// ClosedOn reports whether date matches an entry in the closed-date set.
// Closed dates are day-granular, so only calendar fields are compared -
// the stored timestamp's zone is irrelevant.
func ClosedOn(date time.Time, closedDates []models.ClosedDate) bool {
	y, m, d := date.Date()
	for _, closed := range closedDates {
		cy, cm, cd := closed.Date.Date()
		if y == cy && m == cm && d == cd {
			return true
		}
	}
	return false
}
