package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agendabot/internal/calendar"
	"agendabot/internal/errfmt"
	"agendabot/internal/googleauth"
)

var (
	createTitle       string
	createStart       string
	createEnd         string
	createLocation    string
	createDescription string
)

var createCmd = &cobra.Command{
	Use:   "create [text]",
	Short: "Create a calendar event",
	Long: `Create an event from explicit --start/--end datetimes or from free
text like "17:30-19:00跑步". Free text resolves to the next occurrence of the
given time range in the configured timezone.`,
	Args: cobra.ArbitraryArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "event title")
	createCmd.Flags().StringVar(&createStart, "start", "", "start datetime (RFC 3339, offset required)")
	createCmd.Flags().StringVar(&createEnd, "end", "", "end datetime (RFC 3339, offset required)")
	createCmd.Flags().StringVar(&createLocation, "location", "", "event location")
	createCmd.Flags().StringVar(&createDescription, "description", "", "event description")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp(googleauth.ScopeReadWrite)
	if err != nil {
		return err
	}

	payload := calendar.Payload{
		Title:       createTitle,
		Start:       createStart,
		End:         createEnd,
		Location:    createLocation,
		Description: createDescription,
		Text:        strings.Join(args, " "),
	}
	ev, err := calendar.ResolvePayload(payload, a.resolver)
	if err != nil {
		return errors.New(errfmt.Format(err))
	}

	created, err := a.client.CreateEvent(cmd.Context(), a.policy(), ev)
	if err != nil {
		return errors.New(errfmt.Format(err))
	}

	fmt.Println(calendar.CreateConfirmation(created))
	return nil
}
