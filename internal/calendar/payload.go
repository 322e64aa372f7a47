package calendar

import (
	"strings"
	"time"

	calv3 "google.golang.org/api/calendar/v3"

	"agendabot/internal/timetext"
)

// Payload carries the raw create-event inputs as supplied by the caller.
// Explicit fields win over whatever the free-text parse produces.
type Payload struct {
	Title       string
	Start       string
	End         string
	Location    string
	Description string
	Text        string
}

// ResolvePayload merges explicit fields and parsed free text into a calendar
// event body. Start and end must carry a timezone offset; the free-text path
// produces them in the resolver's zone.
func ResolvePayload(p Payload, resolver timetext.Resolver) (*calv3.Event, error) {
	title := strings.TrimSpace(p.Title)
	start := strings.TrimSpace(p.Start)
	end := strings.TrimSpace(p.End)

	if start == "" || end == "" {
		if p.Text == "" {
			return nil, &timetext.ParseError{
				Msg: "provide either start+end ISO datetimes or text like '17:30-19:00跑步'",
			}
		}
		parsed, err := timetext.ParseRange(p.Text)
		if err != nil {
			return nil, err
		}
		startAt, endAt := resolver.Resolve(parsed.Start, parsed.End)
		if title == "" {
			title = parsed.Title
		}
		if start == "" {
			start = startAt.Format(time.RFC3339)
		}
		if end == "" {
			end = endAt.Format(time.RFC3339)
		}
	}

	if title == "" {
		return nil, &timetext.ParseError{Msg: "missing title for event creation"}
	}

	startAt, err := parseISO(start, "start")
	if err != nil {
		return nil, err
	}
	endAt, err := parseISO(end, "end")
	if err != nil {
		return nil, err
	}
	if !endAt.After(startAt) {
		return nil, &timetext.ParseError{Msg: "invalid time range: end must be later than start"}
	}

	ev := &calv3.Event{
		Summary: title,
		Start:   &calv3.EventDateTime{DateTime: startAt.Format(time.RFC3339)},
		End:     &calv3.EventDateTime{DateTime: endAt.Format(time.RFC3339)},
	}
	if p.Location != "" {
		ev.Location = p.Location
	}
	if p.Description != "" {
		ev.Description = p.Description
	}
	return ev, nil
}

// CreateConfirmation renders the user-facing confirmation for a created
// event.
func CreateConfirmation(created *calv3.Event) string {
	startText, endText := EventTimes(created)
	return "Created calendar event successfully.\n" +
		"- title: " + created.Summary + "\n" +
		"- time: " + startText + " -> " + endText + "\n" +
		"- id: " + created.Id + "\n" +
		"- link: " + created.HtmlLink
}

// parseISO accepts RFC 3339 datetimes only. A value without an offset would
// silently land in the wrong zone, so it is rejected instead.
func parseISO(value, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &timetext.ParseError{
			Msg: "invalid " + field + ": timezone is required in ISO datetime, got '" + value + "'",
		}
	}
	return t, nil
}
