// Package errfmt turns internal error types into the messages users see.
// Every boundary (CLI commands and tool handlers) formats through here, so a
// failure reads the same regardless of the surface it escaped from.
package errfmt

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"agendabot/internal/config"
	"agendabot/internal/googleauth"
	"agendabot/internal/request"
	"agendabot/internal/timetext"
)

// Format renders err for the user, with a recovery hint where one exists.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var transientErr *request.TransientError
	if errors.As(err, &transientErr) {
		return fmt.Sprintf("Timeout Error: %v\n"+
			"Troubleshooting:\n"+
			"1. Check your internet connection\n"+
			"2. Try again in a few moments\n"+
			"3. If problem persists, re-run the auth action", transientErr)
	}

	var credErr *googleauth.CredentialsMissingError
	if errors.As(err, &credErr) {
		return fmt.Sprintf("Credentials file not found: %s. "+
			"Create OAuth Desktop credentials in Google Cloud, save them there, "+
			"then run the auth action.", credErr.Path)
	}

	var authErr *googleauth.AuthError
	if errors.As(err, &authErr) {
		return fmt.Sprintf("%v\nRun the auth action to (re-)authorize calendar access.", authErr)
	}

	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "No token found in the keyring. Run the auth action to authorize calendar access."
	}

	var parseErr *timetext.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}

	var confErr *config.Error
	if errors.As(err, &confErr) {
		return confErr.Error()
	}

	var statusErr *request.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Error: %v\n"+
			"If this looks like a permissions/scope issue, run the auth action again.", statusErr)
	}

	return err.Error()
}
