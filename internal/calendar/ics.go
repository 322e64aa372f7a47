package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	calv3 "google.golang.org/api/calendar/v3"
)

// ExportICS renders events as an iCalendar document, so a digest can feed
// other calendar tooling. Events without usable times are skipped, same as in
// the text digest.
func ExportICS(events []*calv3.Event, now time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//agendabot//EN")

	for i, event := range events {
		startRaw, endRaw := EventTimes(event)
		if startRaw == "" || endRaw == "" {
			continue
		}

		uid := event.Id
		if uid == "" {
			uid = fmt.Sprintf("agendabot-%d-%d", now.Unix(), i)
		}
		entry := cal.AddEvent(uid)
		entry.SetDtStampTime(now)

		title := event.Summary
		if title == "" {
			title = "No title"
		}
		entry.SetSummary(title)
		if event.Location != "" {
			entry.SetLocation(event.Location)
		}
		if event.Description != "" {
			entry.SetDescription(event.Description)
		}

		if strings.Contains(startRaw, "T") {
			start, err := time.Parse(time.RFC3339, startRaw)
			if err != nil {
				continue
			}
			end, err := time.Parse(time.RFC3339, endRaw)
			if err != nil {
				continue
			}
			entry.SetStartAt(start)
			entry.SetEndAt(end)
		} else {
			start, err := time.Parse("2006-01-02", startRaw)
			if err != nil {
				continue
			}
			end, err := time.Parse("2006-01-02", endRaw)
			if err != nil {
				continue
			}
			entry.SetAllDayStartAt(start)
			entry.SetAllDayEndAt(end)
		}
	}

	return cal.Serialize(), nil
}
