package calendar

import (
	"fmt"
	"strings"
	"time"

	calv3 "google.golang.org/api/calendar/v3"
)

// DigestEmpty is the sentinel for a day with no events. Host frameworks match
// it verbatim to tell "nothing scheduled" apart from a failed fetch.
const DigestEmpty = "HEARTBEAT_OK - No events today"

// Urgency markers, ordered by how soon the event starts.
const (
	MarkerUrgent   = "[urgent]"
	MarkerSoon     = "[soon]"
	MarkerUpcoming = "[upcoming]"
	MarkerAllDay   = "[all-day]"
)

// Formatter renders a day's events as a plain-text digest with urgency
// markers and start countdowns.
type Formatter struct {
	// Now anchors the urgency computation; defaults to time.Now.
	Now func() time.Time

	// Style optionally decorates markers, e.g. with terminal colors. It
	// receives the bare marker and returns the rendered form.
	Style func(marker string) string
}

func (f Formatter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f Formatter) style(marker string) string {
	if f.Style != nil {
		return f.Style(marker)
	}
	return marker
}

// Digest renders events into the daily digest. Events missing both start and
// end are skipped; events with a date but no time render as all-day lines.
func (f Formatter) Digest(events []*calv3.Event) string {
	if len(events) == 0 {
		return DigestEmpty
	}

	now := f.now().UTC()
	out := []string{fmt.Sprintf("Calendar - %s\n", now.Format("2006-01-02"))}

	for _, event := range events {
		line, ok := f.eventLine(event, now)
		if !ok {
			continue
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func (f Formatter) eventLine(event *calv3.Event, now time.Time) (string, bool) {
	startRaw, endRaw := EventTimes(event)
	if startRaw == "" || endRaw == "" {
		return "", false
	}

	title := event.Summary
	if title == "" {
		title = "No title"
	}

	var line string
	if strings.Contains(startRaw, "T") {
		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return "", false
		}
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return "", false
		}

		minutesUntil := start.Sub(now).Minutes()
		marker := urgencyMarker(minutesUntil)
		if marker != "" {
			marker = f.style(marker)
		}

		line = strings.TrimSpace(fmt.Sprintf("%s %s-%s %s",
			marker, start.Format("15:04"), end.Format("15:04"), title))

		if minutesUntil > 0 && minutesUntil < 120 {
			line += " (in " + countdown(minutesUntil) + ")"
		}
	} else {
		line = f.style(MarkerAllDay) + " " + title
	}

	if event.Location != "" {
		line += "\n  location: " + event.Location
	}
	return line, true
}

// EventTimes extracts the raw start and end of an event, preferring the
// timed form over the all-day date.
func EventTimes(event *calv3.Event) (start, end string) {
	if event.Start != nil {
		start = event.Start.DateTime
		if start == "" {
			start = event.Start.Date
		}
	}
	if event.End != nil {
		end = event.End.DateTime
		if end == "" {
			end = event.End.Date
		}
	}
	return start, end
}

// urgencyMarker classifies how soon the event starts. Events already under
// way (negative minutes) count as urgent.
func urgencyMarker(minutesUntil float64) string {
	switch {
	case minutesUntil < 30:
		return MarkerUrgent
	case minutesUntil < 60:
		return MarkerSoon
	case minutesUntil < 120:
		return MarkerUpcoming
	default:
		return ""
	}
}

func countdown(minutesUntil float64) string {
	total := int(minutesUntil)
	hours := total / 60
	mins := total % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
