package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"agendabot/internal/calendar"
	"agendabot/internal/errfmt"
	"agendabot/internal/googleauth"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the daily digest on a cron schedule",
	Long: `Print the digest once, then again on every tick of the watch_cron
schedule from the config file. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(googleauth.ScopeReadOnly)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printDigest := func() {
		events, err := a.client.ListDay(ctx, a.policy(), time.Now())
		if err != nil {
			fmt.Fprintln(os.Stderr, errfmt.Format(err))
			return
		}
		fmt.Println(calendar.Formatter{Style: markerStyle()}.Digest(events))
	}

	c := cron.New()
	if _, err := c.AddFunc(a.conf.WatchCron, printDigest); err != nil {
		return fmt.Errorf("invalid watch_cron %q: %w", a.conf.WatchCron, err)
	}

	printDigest()
	c.Start()
	a.logger.Info("watching calendar", "schedule", a.conf.WatchCron)

	<-ctx.Done()
	// Stop returns a context that is done once running jobs finish.
	<-c.Stop().Done()
	return nil
}
