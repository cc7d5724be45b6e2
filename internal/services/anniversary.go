package services

import "time"

// DaysTogether returns the number of whole days elapsed since the
// anniversary date. Negative if the anniversary lies in the future.
func DaysTogether(anniversary, now time.Time) int {
	a := startOfDay(anniversary)
	n := startOfDay(now)
	return int(n.Sub(a).Hours() / 24)
}

// NextAnniversary returns the date of the next anniversary occurrence
// and the number of days until it. An anniversary falling on today
// counts as today (0 days). A Feb 29 anniversary normalizes to Mar 1
// in non-leap years, per time.Date semantics.
func NextAnniversary(anniversary, now time.Time) (time.Time, int) {
	n := startOfDay(now)
	next := time.Date(n.Year(), anniversary.Month(), anniversary.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(n) {
		next = time.Date(n.Year()+1, anniversary.Month(), anniversary.Day(), 0, 0, 0, 0, now.Location())
	}
	return next, int(next.Sub(n).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
