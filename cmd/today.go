package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"agendabot/internal/calendar"
	"agendabot/internal/errfmt"
	"agendabot/internal/googleauth"
)

var (
	todayJSON    bool
	todayICS     bool
	todayNoColor bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's calendar events",
	Long: `Show today's events as a digest with urgency markers, or as raw
JSON or an iCalendar feed for piping into other tools.`,
	RunE: runToday,
}

func init() {
	todayCmd.Flags().BoolVar(&todayJSON, "json", false, "print raw events as JSON")
	todayCmd.Flags().BoolVar(&todayICS, "ics", false, "print events as an iCalendar feed")
	todayCmd.Flags().BoolVar(&todayNoColor, "no-color", false, "disable urgency marker colors")
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	a, err := newApp(googleauth.ScopeReadOnly)
	if err != nil {
		return err
	}

	events, err := a.client.ListDay(cmd.Context(), a.policy(), time.Now())
	if err != nil {
		return errors.New(errfmt.Format(err))
	}

	switch {
	case todayJSON:
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case todayICS:
		feed, err := calendar.ExportICS(events, time.Now())
		if err != nil {
			return err
		}
		fmt.Print(feed)
	default:
		fmt.Println(calendar.Formatter{Style: markerStyle()}.Digest(events))
	}
	return nil
}

// markerStyle colors urgency markers when stdout supports it. A nil style
// leaves markers bare.
func markerStyle() func(string) string {
	out := termenv.NewOutput(os.Stdout)
	if todayNoColor || out.Profile == termenv.Ascii {
		return nil
	}
	colors := map[string]termenv.Color{
		calendar.MarkerUrgent:   out.Color("1"),
		calendar.MarkerSoon:     out.Color("3"),
		calendar.MarkerUpcoming: out.Color("6"),
		calendar.MarkerAllDay:   out.Color("4"),
	}
	return func(marker string) string {
		color, ok := colors[marker]
		if !ok {
			return marker
		}
		return out.String(marker).Foreground(color).String()
	}
}
