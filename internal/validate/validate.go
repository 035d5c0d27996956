// Package validate holds the pure input checks shared by the listing
// and auction endpoints: publication year range, closing-date window
// and minimum bid positivity. The authoritative clock for anything
// date-related is the current calendar date in US Eastern time, no
// matter where the server runs.
package validate

import (
	"strconv"
	"time"
)

// DateLayout is the wire format of auction closing dates.
const DateLayout = "2006-01-02"

const (
	minPubYear = 1900
	maxPubYear = 2017

	// maxClosingDays bounds how far out an auction may close.
	maxClosingDays = 60
)

// now is swapped out by tests to pin the clock.
var now = time.Now

// eastern is loaded once; the tz database handles DST transitions so a
// listing created at 23:30 EDT still lands on the right calendar day.
var eastern *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Fixed offset fallback for hosts without tzdata. EST only,
		// so dates within the DST hour may shift; tzdata is expected
		// in any real deployment.
		loc = time.FixedZone("EST", -5*60*60)
	}
	eastern = loc
}

// CurrentESTDate returns today's calendar date in US Eastern time,
// normalized to midnight UTC so it compares cleanly against values
// scanned from DATE columns.
func CurrentESTDate() time.Time {
	t := now().In(eastern)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StringToDate parses a closing-date string in DateLayout.
func StringToDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// ValidDateString reports whether s parses as a date strictly after
// tomorrow (current Eastern date + 1) and no more than 60 days after
// the current Eastern date.
func ValidDateString(s string) bool {
	d, err := StringToDate(s)
	if err != nil {
		return false
	}
	today := CurrentESTDate()
	tomorrow := today.AddDate(0, 0, 1)
	limit := today.AddDate(0, 0, maxClosingDays)
	return d.After(tomorrow) && !d.After(limit)
}

// ValidPubYear reports whether s parses as an integer between 1900 and
// 2017 inclusive.
func ValidPubYear(s string) bool {
	y, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return y >= minPubYear && y <= maxPubYear
}

// ValidMinimumBid reports whether s parses as a strictly positive
// integer.
func ValidMinimumBid(s string) bool {
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n > 0
}
