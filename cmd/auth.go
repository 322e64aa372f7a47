package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"agendabot/internal/errfmt"
	"agendabot/internal/googleauth"
)

var authClear bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Calendar access",
	Long: `Run the OAuth consent flow and store the resulting token. A stored
token that is still valid and covers the calendar scope is kept as is.`,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().BoolVar(&authClear, "clear", false, "remove the stored token instead of authorizing")
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, args []string) error {
	a, err := newApp(googleauth.ScopeReadWrite)
	if err != nil {
		return err
	}

	if authClear {
		if err := a.creds.Clear(); err != nil {
			return errors.New(errfmt.Format(err))
		}
		fmt.Println("Stored token removed.")
		return nil
	}

	if _, err := a.creds.Obtain(cmd.Context(), true); err != nil {
		return errors.New(errfmt.Format(err))
	}
	if a.conf.UseKeyring {
		fmt.Println("Authorization successful. Token saved to the system keyring.")
	} else {
		fmt.Printf("Authorization successful. Token saved to %s.\n", a.conf.TokenPath)
	}
	return nil
}
