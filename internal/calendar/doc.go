// Package calendar implements the Google Calendar operations: fetching a
// day's events, creating events from explicit fields or free text, and
// rendering digests as plain text or iCalendar.
package calendar
