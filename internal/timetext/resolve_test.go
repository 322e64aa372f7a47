package timetext

import (
	"testing"
	"time"
)

func fixedResolver(now time.Time) Resolver {
	return Resolver{
		Now:      func() time.Time { return now },
		Location: now.Location(),
	}
}

func TestResolve_SameDay(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, loc)
	r := fixedResolver(now)

	start, end := r.Resolve(HourMinute{17, 30}, HourMinute{19, 0})

	wantStart := time.Date(2026, 2, 11, 17, 30, 0, 0, loc)
	wantEnd := time.Date(2026, 2, 11, 19, 0, 0, 0, loc)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, expected %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, expected %v", end, wantEnd)
	}
}

func TestResolve_StartAlreadyPassedRollsToTomorrow(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 2, 11, 18, 0, 0, 0, loc)
	r := fixedResolver(now)

	start, end := r.Resolve(HourMinute{17, 30}, HourMinute{19, 0})

	if start.Day() != 12 {
		t.Errorf("start day = %d, expected tomorrow (12)", start.Day())
	}
	if end.Day() != 12 {
		t.Errorf("end day = %d, expected tomorrow (12)", end.Day())
	}
}

func TestResolve_StartExactlyNowRollsToTomorrow(t *testing.T) {
	// "Strictly after now" means an event at the current minute is tomorrow's.
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 2, 11, 17, 30, 0, 0, loc)
	r := fixedResolver(now)

	start, _ := r.Resolve(HourMinute{17, 30}, HourMinute{19, 0})
	if start.Day() != 12 {
		t.Errorf("start day = %d, expected tomorrow (12)", start.Day())
	}
}

func TestResolve_OvernightRange(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, loc)
	r := fixedResolver(now)

	start, end := r.Resolve(HourMinute{23, 0}, HourMinute{1, 0})

	if start.Day() != 11 {
		t.Errorf("start day = %d, expected 11", start.Day())
	}
	if end.Day() != 12 {
		t.Errorf("end day = %d, expected 12 (overnight rollover)", end.Day())
	}
	if !end.After(start) {
		t.Errorf("end %v must be after start %v", end, start)
	}
}

func TestResolve_EndEqualStartRollsForward(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, loc)
	r := fixedResolver(now)

	start, end := r.Resolve(HourMinute{10, 0}, HourMinute{10, 0})
	if !end.Equal(start.AddDate(0, 0, 1)) {
		t.Errorf("end = %v, expected start + one day (%v)", end, start.AddDate(0, 0, 1))
	}
}

func TestResolve_CarriesExplicitOffset(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	now := time.Date(2026, 2, 11, 9, 0, 0, 0, loc)
	r := fixedResolver(now)

	start, end := r.Resolve(HourMinute{17, 30}, HourMinute{19, 0})

	_, startOffset := start.Zone()
	_, endOffset := end.Zone()
	if startOffset != 8*3600 || endOffset != 8*3600 {
		t.Errorf("offsets = %d/%d, expected 28800", startOffset, endOffset)
	}
}
