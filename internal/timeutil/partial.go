// Package timeutil implements the time model: PartialDateTime completion
// with left-to-right inheritance, globalize/localize against a user's IANA
// timezone, and the allocation-window union the scheduler splices through.
package timeutil

import (
	"fmt"
	"time"
)

// PartialDate is a calendar date with any component absent.
type PartialDate struct {
	Y *int
	M *int
	D *int
}

// PartialTime is a time-of-day with any component absent.
type PartialTime struct {
	H  *int
	Mi *int
}

// PartialDateTime is the parser's raw datetime value: either side, or
// both, may be nil.
type PartialDateTime struct {
	Date *PartialDate
	Time *PartialTime
}

func ip(i int) *int { return &i }

// Complete resolves p against nowLocal (already in the user's timezone)
// following the left-to-right inheritance rule: a present field sets
// inherit; an absent field copies from nowLocal while inherit holds, or
// takes a fixed default (minute/hour 0, day/month 1) before it does. Year
// has no fixed default and always falls back to nowLocal.Year().
func (p PartialDateTime) Complete(nowLocal time.Time, loc *time.Location) (time.Time, error) {
	inherit := false

	minute := 0
	if p.Time != nil && p.Time.Mi != nil {
		minute = *p.Time.Mi
		inherit = true
	}

	hour := 0
	if p.Time != nil && p.Time.H != nil {
		hour = *p.Time.H
		inherit = true
	} else if inherit {
		hour = nowLocal.Hour()
	}

	day := 1
	if p.Date != nil && p.Date.D != nil {
		day = *p.Date.D
		inherit = true
	} else if inherit {
		day = nowLocal.Day()
	}

	month := 1
	if p.Date != nil && p.Date.M != nil {
		month = *p.Date.M
		inherit = true
	} else if inherit {
		month = int(nowLocal.Month())
	}

	var year int
	if p.Date != nil && p.Date.Y != nil {
		year = *p.Date.Y
	} else {
		year = nowLocal.Year()
	}

	local := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if ambiguous(loc, year, time.Month(month), day, hour, minute) {
		return time.Time{}, fmt.Errorf("failed to interpret datetime")
	}
	return local, nil
}

// ambiguous is a best-effort DST gap/overlap detector: it flags a spring
// gap (the normalized wall clock doesn't match what was requested) and a
// fall-back overlap (the zone offset an hour either side of dt differs
// from dt's own offset but matches each other).
func ambiguous(loc *time.Location, y int, mo time.Month, d, h, mi int) bool {
	t := time.Date(y, mo, d, h, mi, 0, 0, loc)
	if t.Year() != y || t.Month() != mo || t.Day() != d || t.Hour() != h || t.Minute() != mi {
		return true
	}
	_, offBefore := t.Add(-time.Hour).Zone()
	_, off := t.Zone()
	_, offAfter := t.Add(time.Hour).Zone()
	return offBefore != off && offAfter != off && offBefore == offAfter
}

// Globalize resolves p to an absolute instant (UTC) in the timezone named
// by tz, completing absent fields against now.
func Globalize(p PartialDateTime, tz string, now time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	local, err := p.Complete(now.In(loc), loc)
	if err != nil {
		return time.Time{}, err
	}
	return local.UTC(), nil
}

// Localize renders instant in the timezone named by tz as "YYYY/MM/DDTHH:MM".
func Localize(instant time.Time, tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", tz, err)
	}
	return instant.In(loc).Format("2006/01/02T15:04"), nil
}
