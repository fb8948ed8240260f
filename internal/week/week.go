// Package week computes the Monday-anchored key identifying the current
// survey week. The key is always derived from the wall clock at interaction
// time; past and future weeks are never addressed.
package week

import "time"

// Layout is the date format used for week keys in the store.
const Layout = "2006-01-02"

// Start returns the week key for the ISO week containing t: the date of
// that week's Monday, formatted as YYYY-MM-DD.
func Start(t time.Time) string {
	return StartTime(t).Format(Layout)
}

// StartTime returns midnight on the Monday of the ISO week containing t,
// in t's location.
func StartTime(t time.Time) time.Time {
	// time.Weekday numbers Sunday as 0; shift so Monday is 0.
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
