package timetext

import (
	"time"
)

// Resolver turns bare wall-clock times into absolute instants in a local
// timezone. The zero value resolves against time.Now in the process-local
// zone; tests inject Now and Location.
type Resolver struct {
	Now      func() time.Time
	Location *time.Location
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Resolver) location() *time.Location {
	if r.Location != nil {
		return r.Location
	}
	return time.Local
}

// Resolve disambiguates a start/end clock-time pair into absolute instants.
//
// Start is today at the given time; if that has already passed, the user
// means tomorrow, so it rolls forward one day. End lands on the same calendar
// day as the resolved start and rolls forward one day when end <= start
// (overnight ranges like 23:00-01:00). Both results carry the local UTC
// offset explicitly.
func (r Resolver) Resolve(start, end HourMinute) (time.Time, time.Time) {
	loc := r.location()
	now := r.now().In(loc)

	startAt := time.Date(now.Year(), now.Month(), now.Day(), start.Hour, start.Minute, 0, 0, loc)
	if !startAt.After(now) {
		startAt = startAt.AddDate(0, 0, 1)
	}

	endAt := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), end.Hour, end.Minute, 0, 0, loc)
	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}

	return startAt, endAt
}
