package booking

import "time"

// DateOf drops the time of day. The calendar date is read in t's location and
// returned as midnight UTC, the form dates are stored in.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsWithinWindow reports whether date falls in [from, to], both bounds inclusive.
// Only calendar dates are compared.
func IsWithinWindow(date, from, to time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(from)) && !d.After(DateOf(to))
}

func FitsCapacity(partySize, capacity int) bool {
	return partySize <= capacity
}
