// Package calendar holds the date arithmetic used for membership expiry,
// freezes and the daily sweeps. Dates are represented as time.Time values at
// midnight UTC carrying the calendar day of the zone they were taken in.
package calendar

import "time"

// Clock returns the current instant. Services take one so tests can pin "now".
type Clock func() time.Time

// DateOf strips the clock part of t, keeping the calendar day t has in its
// own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is DateOf(clock()) evaluated in loc.
func Today(clock Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(clock().In(loc))
}

func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// AddMonths adds n calendar months. When the target month is shorter than
// the source day the result is clamped to the target month's last day, so
// Jan 31 + 1 month is Feb 28 (Feb 29 in leap years), never Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(floorMod(total, 12) + 1)

	if last := daysIn(ty, tm, t.Location()); d > last {
		d = last
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// AddYears adds n years with the same clamping as AddMonths (Feb 29 + 1 year
// is Feb 28).
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
