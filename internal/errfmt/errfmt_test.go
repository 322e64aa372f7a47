package errfmt

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"

	"agendabot/internal/config"
	"agendabot/internal/googleauth"
	"agendabot/internal/request"
	"agendabot/internal/timetext"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"nil error",
			nil,
			"",
		},
		{
			"transient error gets troubleshooting steps",
			&request.TransientError{Attempts: 4, Timeout: 60 * time.Second, Err: errors.New("connection refused")},
			"Timeout Error",
		},
		{
			"credentials missing names the path",
			&googleauth.CredentialsMissingError{Path: "/home/u/.agendabot/google-credentials.json"},
			"google-credentials.json",
		},
		{
			"auth error points at the auth action",
			&googleauth.AuthError{Msg: "not authorized, run the auth flow first"},
			"auth action",
		},
		{
			"keyring miss points at the auth action",
			keyring.ErrKeyNotFound,
			"keyring",
		},
		{
			"parse error passes through verbatim",
			&timetext.ParseError{Msg: "could not parse time range from text, use format like '17:30-19:00跑步'"},
			"17:30-19:00跑步",
		},
		{
			"config error passes through verbatim",
			&config.Error{Msg: "timeout must be between 1 and 600 seconds, got 1200"},
			"1200",
		},
		{
			"status error suggests scope check",
			&request.StatusError{Code: 403, Status: "403 Forbidden"},
			"permissions/scope",
		},
		{
			"unknown error falls back to its message",
			errors.New("something odd"),
			"something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestFormat_UnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("fetching digest: %w", &googleauth.CredentialsMissingError{Path: "/tmp/creds.json"})
	assert.Contains(t, Format(err), "OAuth Desktop credentials")
}
