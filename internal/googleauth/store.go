package googleauth

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/99designs/keyring"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"agendabot/internal/logging"
)

// Calendar scopes. The read-write scope strictly contains the read-only one.
const (
	ScopeReadOnly  = "https://www.googleapis.com/auth/calendar.readonly"
	ScopeReadWrite = "https://www.googleapis.com/auth/calendar"
)

const oobRedirect = "urn:ietf:wg:oauth:2.0:oob"

// Config wires a Store. TokenStore and Flow default to a FileTokenStore at
// TokenPath and a ConsoleFlow.
type Config struct {
	TokenPath       string
	CredentialsPath string

	// Scopes are the scopes this process needs. Defaults to read-only.
	Scopes []string

	// ScopeCheck rejects stored tokens whose recorded grant does not cover
	// Scopes. Tokens with no recorded scopes are rejected too, since an
	// unknown grant cannot be trusted to be sufficient.
	ScopeCheck bool

	TokenStore TokenStore
	Flow       Flow
	Logger     *slog.Logger

	// Endpoint overrides the Google OAuth endpoint. Tests only.
	Endpoint oauth2.Endpoint
}

// Store owns the OAuth credential lifecycle: load, validate, refresh,
// re-authorize. Safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	conf      Config
	tokens    TokenStore
	flow      Flow
	logger    *slog.Logger
	onRefresh func(success bool)
}

// NewStore creates a Store from conf, filling in defaults.
func NewStore(conf Config) *Store {
	if len(conf.Scopes) == 0 {
		conf.Scopes = []string{ScopeReadOnly}
	}
	tokens := conf.TokenStore
	if tokens == nil {
		tokens = &FileTokenStore{Path: conf.TokenPath}
	}
	flow := conf.Flow
	if flow == nil {
		flow = &ConsoleFlow{}
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		conf:   conf,
		tokens: tokens,
		flow:   flow,
		logger: logger,
	}
}

// Scopes returns the scopes this store requests.
func (s *Store) Scopes() []string {
	return s.conf.Scopes
}

// SetRefreshHook installs a callback invoked after every token refresh
// attempt with its outcome. Metrics wiring goes through here so this package
// stays free of instrumentation imports.
func (s *Store) SetRefreshHook(fn func(success bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

// Obtain returns a usable access token, walking the credential lifecycle:
// stored and fresh wins, stored but expired is refreshed, and anything else
// needs authorization. A failed refresh is always an AuthError; re-consent
// stays an explicit step (Clear then authorize). When allowInteractive is
// false a missing or unusable credential is an AuthError instead of a prompt.
func (s *Store) Obtain(ctx context.Context, allowInteractive bool) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// The credentials file is only needed to refresh or run the consent
	// flow; a stored token that is still valid must not depend on it.
	stored, err := s.tokens.Load()
	switch {
	case err == nil && s.usable(stored):
		tok := stored.OAuth()
		if tok.Valid() {
			return tok, nil
		}
		conf, cerr := s.oauthConfig()
		if cerr != nil {
			return nil, cerr
		}
		refreshed, rerr := s.refreshLocked(ctx, conf, tok)
		if rerr == nil {
			return refreshed, nil
		}
		s.logger.Warn("stored token refresh failed, authorization required",
			logging.Err(rerr))
		return nil, &AuthError{Msg: "stored token expired and refresh failed, re-authorization required", Err: rerr}
	case err == nil:
		s.logger.Info("stored token scopes insufficient, re-authorization required",
			slog.Any("granted", stored.Scopes),
			slog.Any("required", s.conf.Scopes))
		if !allowInteractive {
			return nil, &AuthError{Msg: "stored token does not cover the required scopes, re-authorization required"}
		}
	default:
		if !isNotStored(err) {
			return nil, err
		}
		if !allowInteractive {
			return nil, &AuthError{Msg: "not authorized, run the auth flow first"}
		}
	}

	conf, err := s.oauthConfig()
	if err != nil {
		return nil, err
	}
	tok, err := s.flow.Run(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err := s.persist(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// Refresh forces a token refresh regardless of the stored expiry and persists
// the result. Used to replay a request that came back 401 on a token the
// local clock still considered fresh.
func (s *Store) Refresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conf, err := s.oauthConfig()
	if err != nil {
		return nil, err
	}
	stored, err := s.tokens.Load()
	if err != nil {
		if isNotStored(err) {
			return nil, &AuthError{Msg: "not authorized, run the auth flow first"}
		}
		return nil, err
	}

	tok := stored.OAuth()
	// Expiry in the distant past forces the token source to hit the refresh
	// endpoint even if the stored expiry looks fine.
	tok.Expiry = time.Unix(1, 0)
	return s.refreshLocked(ctx, conf, tok)
}

// AuthURL returns the URL the user must visit to authorize access.
func (s *Store) AuthURL() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conf, err := s.oauthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveAuthCode completes a split authorization: the code obtained from the
// AuthURL page is exchanged and the resulting token persisted.
func (s *Store) SaveAuthCode(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conf, err := s.oauthConfig()
	if err != nil {
		return err
	}
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return &AuthError{Msg: "exchanging authorization code", Err: err}
	}
	return s.persist(tok)
}

// Clear removes the stored token.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Clear()
}

func (s *Store) refreshLocked(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok.RefreshToken == "" {
		return nil, &AuthError{Msg: "stored token has no refresh token, re-authorization required"}
	}

	refreshed, err := conf.TokenSource(ctx, tok).Token()
	if s.onRefresh != nil {
		s.onRefresh(err == nil)
	}
	if err != nil {
		return nil, &AuthError{Msg: "refreshing access token", Err: err}
	}
	// The refresh response may omit the refresh token; keep the old one.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if err := s.persist(refreshed); err != nil {
		return nil, err
	}
	s.logger.Debug("access token refreshed",
		slog.Time("expiry", refreshed.Expiry))
	return refreshed, nil
}

func (s *Store) persist(tok *oauth2.Token) error {
	scopes := grantedScopes(tok, s.conf.Scopes)
	stored := newStoredToken(tok, scopes)
	// A refresh response has no scope field; carry forward what we knew.
	if prev, err := s.tokens.Load(); err == nil && len(prev.Scopes) > 0 && tok.Extra("scope") == nil {
		stored.Scopes = prev.Scopes
	}
	if err := s.tokens.Save(stored); err != nil {
		return err
	}
	s.logger.Debug("token persisted",
		slog.String("access_token", logging.SanitizeToken(tok.AccessToken)))
	return nil
}

// usable reports whether the stored grant covers the required scopes. With
// ScopeCheck off every stored token is trusted.
func (s *Store) usable(stored *StoredToken) bool {
	if !s.conf.ScopeCheck {
		return true
	}
	return scopesSufficient(stored.Scopes, s.conf.Scopes)
}

// scopesSufficient reports whether every required scope is granted, treating
// the read-write calendar scope as covering the read-only one. An empty
// granted set is insufficient.
func scopesSufficient(granted, required []string) bool {
	if len(granted) == 0 {
		return false
	}
	have := make(map[string]bool, len(granted))
	for _, sc := range granted {
		have[sc] = true
	}
	for _, sc := range required {
		if have[sc] {
			continue
		}
		if sc == ScopeReadOnly && have[ScopeReadWrite] {
			continue
		}
		return false
	}
	return true
}

func (s *Store) oauthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(s.conf.CredentialsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &CredentialsMissingError{Path: s.conf.CredentialsPath}
		}
		return nil, err
	}
	conf, err := google.ConfigFromJSON(data, s.conf.Scopes...)
	if err != nil {
		return nil, &AuthError{Msg: "parsing OAuth client credentials", Err: err}
	}
	if conf.RedirectURL == "" {
		conf.RedirectURL = oobRedirect
	}
	if s.conf.Endpoint.TokenURL != "" {
		conf.Endpoint = s.conf.Endpoint
	}
	return conf, nil
}

func isNotStored(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, keyring.ErrKeyNotFound)
}
