package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/satu-n/sprig/internal/timeutil"
)

// spliceSpanDays is how many days of allocation windows Splice/Unsplice
// generate around their anchor date — wide enough to always cover the
// sub-day remainder the algorithms walk.
const spliceSpanDays = 2

func dailySeconds(allocs []timeutil.Alloc) float64 {
	sum := 0
	for _, a := range allocs {
		sum += a.Hours
	}
	return float64(sum) * hoursToSeconds
}

// Splice maps a wall-clock instant dt to cumulative allocated work-seconds,
// relative to now: daily*days + the allocated seconds between (now
// advanced by days whole days) and dt.
func Splice(now, dt time.Time, allocs []timeutil.Alloc, loc *time.Location) float64 {
	daily := dailySeconds(allocs)
	signedDays := dt.Sub(now).Hours() / 24
	days := math.Floor(signedDays)
	spanStart := now.AddDate(0, 0, int(days))

	windows := timeutil.AllocationWindows(spanStart, spliceSpanDays, allocs, loc)
	adjust := timeutil.Intersect(spanStart, dt, windows)

	return daily*days + adjust
}

// Unsplice maps cumulative allocated work-seconds back to a wall-clock
// instant. Returns ok=false when daily is zero (no allocations: undefined).
func Unsplice(now time.Time, dtAlloc float64, allocs []timeutil.Alloc, loc *time.Location) (time.Time, bool) {
	daily := dailySeconds(allocs)
	if daily <= 0 {
		return time.Time{}, false
	}

	days := math.Floor(dtAlloc / daily)
	remain := dtAlloc - days*daily
	approx := now.AddDate(0, 0, int(days))

	windows := timeutil.AllocationWindows(approx, spliceSpanDays, allocs, loc)
	sort.Slice(windows, func(i, j int) bool { return windows[i].L.Before(windows[j].L) })

	cursor := approx
	for _, w := range windows {
		if !w.R.After(cursor) {
			continue
		}
		lo := w.L
		if cursor.After(lo) {
			lo = cursor
		}
		avail := w.R.Sub(lo).Seconds()
		draw := remain
		if avail < draw {
			draw = avail
		}
		cursor = lo.Add(time.Duration(draw * float64(time.Second)))
		remain -= draw
		if remain <= 0 {
			break
		}
	}

	return cursor, true
}
