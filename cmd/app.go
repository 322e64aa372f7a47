package cmd

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"agendabot/internal/calendar"
	"agendabot/internal/config"
	"agendabot/internal/googleauth"
	"agendabot/internal/request"
	"agendabot/internal/timetext"
)

// app bundles what every subcommand needs: configuration, logger, credential
// store and calendar client.
type app struct {
	conf     *config.Config
	logger   *slog.Logger
	creds    *googleauth.Store
	resolver timetext.Resolver
	client   *calendar.Client
}

// newApp loads the configuration and wires the credential store and calendar
// client. Scopes name what the command needs; read-only commands keep working
// with a read-write grant.
func newApp(scopes ...string) (*app, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	loc, err := conf.Location()
	if err != nil {
		return nil, err
	}

	var tokens googleauth.TokenStore
	if conf.UseKeyring {
		tokens, err = googleauth.OpenKeyring(filepath.Dir(conf.TokenPath))
		if err != nil {
			return nil, err
		}
	}

	creds := googleauth.NewStore(googleauth.Config{
		TokenPath:       conf.TokenPath,
		CredentialsPath: conf.CredentialsPath,
		Scopes:          scopes,
		ScopeCheck:      !conf.DisableScopeCheck,
		TokenStore:      tokens,
		Logger:          logger,
	})

	return &app{
		conf:     conf,
		logger:   logger,
		creds:    creds,
		resolver: timetext.Resolver{Location: loc},
		client:   calendar.NewClient(creds, request.New(logger), logger),
	}, nil
}

// policy builds the request policy from the configured defaults.
func (a *app) policy() request.Policy {
	return request.Policy{
		Timeout:     time.Duration(a.conf.TimeoutSeconds) * time.Second,
		Retries:     a.conf.Retries,
		BackoffBase: a.conf.BackoffBase,
	}
}
