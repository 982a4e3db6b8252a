// Package dayclock is the single authority for the "logical day" a
// submission or penalty assessment is attributed to.
//
// The rule: the day rolls over at a configured cutoff time-of-day, not
// at midnight. Before the cutoff the active day is still the previous
// calendar date, so a proof posted at 04:59 counts toward yesterday.
// Every time-dependent operation resolves through this package so the
// facade, scheduler, and store can never disagree about which day is
// active.
package dayclock

import (
	"fmt"
	"time"
)

// DayFormat is the calendar-day key used throughout the ledger.
const DayFormat = "2006-01-02"

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &tod.Hour, &tod.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

// String renders the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Clock resolves logical days for one fixed time zone and cutoff.
type Clock struct {
	loc    *time.Location
	cutoff TimeOfDay

	// now is swappable in tests.
	now func() time.Time
}

// New builds a Clock for the given IANA zone name and cutoff.
func New(zone string, cutoff TimeOfDay) (*Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return &Clock{loc: loc, cutoff: cutoff, now: time.Now}, nil
}

// NewFixed builds a Clock with an injected now source. Used in tests.
func NewFixed(loc *time.Location, cutoff TimeOfDay, now func() time.Time) *Clock {
	return &Clock{loc: loc, cutoff: cutoff, now: now}
}

// Cutoff returns the configured cutoff time-of-day.
func (c *Clock) Cutoff() TimeOfDay {
	return c.cutoff
}

// Location returns the clock's time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// ActiveDay returns the logical day submissions are currently
// attributed to. At exactly the cutoff the new day is active.
func (c *Clock) ActiveDay() string {
	return c.ActiveDayAt(c.now())
}

// ActiveDayAt is ActiveDay for an arbitrary instant.
func (c *Clock) ActiveDayAt(t time.Time) string {
	local := t.In(c.loc)
	if beforeCutoff(local, c.cutoff) {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format(DayFormat)
}

// ClosedDay returns the day that settles when the cutoff fires: the
// calendar date immediately preceding the currently active day. The
// settlement trigger runs at the cutoff itself, so at 05:00 this is
// yesterday's date.
func (c *Clock) ClosedDay() string {
	return c.ClosedDayAt(c.now())
}

// ClosedDayAt is ClosedDay for an arbitrary instant.
func (c *Clock) ClosedDayAt(t time.Time) string {
	active, err := time.ParseInLocation(DayFormat, c.ActiveDayAt(t), c.loc)
	if err != nil {
		// ActiveDayAt always produces DayFormat; unreachable.
		panic(err)
	}
	return active.AddDate(0, 0, -1).Format(DayFormat)
}

// Next returns the first instant strictly after t at which the given
// wall-clock time occurs in the clock's zone. Callers recompute this
// after every firing rather than sleeping fixed durations.
func (c *Clock) Next(t time.Time, at TimeOfDay) time.Time {
	local := t.In(c.loc)
	target := time.Date(local.Year(), local.Month(), local.Day(), at.Hour, at.Minute, 0, 0, c.loc)
	if !target.After(local) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// Now returns the clock's current time. Exposed so the scheduler uses
// the same (possibly injected) source.
func (c *Clock) Now() time.Time {
	return c.now()
}

func beforeCutoff(local time.Time, cutoff TimeOfDay) bool {
	h, m := local.Hour(), local.Minute()
	if h != cutoff.Hour {
		return h < cutoff.Hour
	}
	return m < cutoff.Minute
}
