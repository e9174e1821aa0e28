// Package dates provides civil-date arithmetic for the budget engine.
// Dates are zero-padded YYYY-MM-DD strings so lexicographic comparison
// equals chronological comparison.
package dates

import "time"

const dayFormat = "2006-01-02"

// Clock resolves "today" in a fixed reference timezone. Commands build one
// from config at startup; tests pin NowFn to a fixed instant.
type Clock struct {
	Loc   *time.Location
	NowFn func() time.Time
}

// NewClock returns a clock for the given timezone name. An unknown or empty
// name falls back to the local zone.
func NewClock(tz string) Clock {
	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "" {
		loc = time.Local
	}
	return Clock{Loc: loc}
}

// FixedClock returns a clock whose Today() is always the given date.
// Used by tests and by the daemon when replaying a specific day.
func FixedClock(date string) Clock {
	t, err := time.Parse(dayFormat, date)
	if err != nil {
		t = time.Now()
	}
	return Clock{
		Loc:   time.UTC,
		NowFn: func() time.Time { return t },
	}
}

func (c Clock) now() time.Time {
	if c.NowFn != nil {
		return c.NowFn()
	}
	return time.Now()
}

// Today returns the current civil date in the clock's timezone.
func (c Clock) Today() string {
	loc := c.Loc
	if loc == nil {
		loc = time.Local
	}
	return c.now().In(loc).Format(dayFormat)
}

// Now returns the current instant. Envelope records store it as set_at.
func (c Clock) Now() time.Time {
	return c.now()
}

// DaysLeft returns the inclusive day count from today through endDate.
// Empty, malformed, or past end dates yield 0.
func (c Clock) DaysLeft(endDate string) int {
	return DaysBetween(c.Today(), endDate)
}

// DaysBetween returns the inclusive day count from the `from` date through
// the `to` date: floor((to-from)/day) + 1, floored at 0. Malformed input
// yields 0 rather than an error; user-entered legacy data may be dirty and
// the engine degrades gracefully.
func DaysBetween(from, to string) int {
	if from == "" || to == "" {
		return 0
	}
	a, err := time.Parse(dayFormat, from)
	if err != nil {
		return 0
	}
	b, err := time.Parse(dayFormat, to)
	if err != nil {
		return 0
	}
	days := int(b.Sub(a).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// AddDays shifts a civil date by n days. Malformed input returns "".
func AddDays(date string, n int) string {
	t, err := time.Parse(dayFormat, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, n).Format(dayFormat)
}

// WeekStart returns the Monday of the ISO week containing date.
// Malformed input returns "".
func WeekStart(date string) string {
	t, err := time.Parse(dayFormat, date)
	if err != nil {
		return ""
	}
	// Go's Weekday has Sunday=0; shift so Monday=0.
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(dayFormat)
}

// MonthStart returns the first day of the month containing date.
// Malformed input returns "".
func MonthStart(date string) string {
	t, err := time.Parse(dayFormat, date)
	if err != nil {
		return ""
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dayFormat)
}

// DaysInMonth returns the number of calendar days in the month containing
// date, or 0 for malformed input.
func DaysInMonth(date string) int {
	t, err := time.Parse(dayFormat, date)
	if err != nil {
		return 0
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}

// Valid reports whether date is a well-formed zero-padded civil date.
func Valid(date string) bool {
	_, err := time.Parse(dayFormat, date)
	return err == nil
}
