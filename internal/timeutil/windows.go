package timeutil

import "time"

// Window is a half-open wall-clock interval [L, R).
type Window struct {
	L time.Time
	R time.Time
}

// Alloc is a recurring daily work window, decoupled from model.Allocation
// so this package stays free of a dependency on internal/model.
type Alloc struct {
	Open  time.Time // only hour/minute significant
	Hours int
}

// AllocationWindows returns the union of half-open working-time intervals
// covering date0-1 day through date0+days+1 days (inclusive), one per
// allocation per day, in loc.
func AllocationWindows(date0 time.Time, days int, allocs []Alloc, loc *time.Location) []Window {
	local := date0.In(loc)
	base := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	var windows []Window
	for i := -1; i <= days+1; i++ {
		day := base.AddDate(0, 0, i)
		for _, alc := range allocs {
			openLocal := alc.Open.In(loc)
			open := time.Date(day.Year(), day.Month(), day.Day(), openLocal.Hour(), openLocal.Minute(), 0, 0, loc)
			close := open.Add(time.Duration(alc.Hours) * time.Hour)
			windows = append(windows, Window{L: open, R: close})
		}
	}
	return windows
}

// Intersect returns the total seconds of overlap between [a, b) and the
// given windows.
func Intersect(a, b time.Time, windows []Window) float64 {
	if !a.Before(b) {
		return 0
	}
	var total float64
	for _, w := range windows {
		lo := a
		if w.L.After(lo) {
			lo = w.L
		}
		hi := b
		if w.R.Before(hi) {
			hi = w.R
		}
		if hi.After(lo) {
			total += hi.Sub(lo).Seconds()
		}
	}
	return total
}
