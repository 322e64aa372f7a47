package googleauth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// StoredToken is the persisted form of an OAuth token. It carries the scopes
// granted at authorization time alongside the oauth2 fields, so a later run
// can tell whether the stored grant covers what it needs.
type StoredToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// OAuth converts the stored form back to an oauth2.Token.
func (t *StoredToken) OAuth() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
}

func newStoredToken(tok *oauth2.Token, scopes []string) *StoredToken {
	return &StoredToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Scopes:       scopes,
		CreatedAt:    time.Now().UTC(),
	}
}

// grantedScopes extracts the scopes the authorization server actually granted
// from the token response. Servers return them as a single space-separated
// string; absence falls back to the requested set.
func grantedScopes(tok *oauth2.Token, requested []string) []string {
	if raw, ok := tok.Extra("scope").(string); ok && raw != "" {
		return strings.Fields(raw)
	}
	return requested
}

// TokenStore persists one token blob. Load returns an error satisfying
// os.IsNotExist semantics (or keyring.ErrKeyNotFound) when nothing is stored.
type TokenStore interface {
	Load() (*StoredToken, error)
	Save(*StoredToken) error
	Clear() error
}

// FileTokenStore keeps the token as a JSON file with 0600 permissions.
// Saves replace the whole file via a temp file and rename, so a crashed
// process never leaves a truncated token behind.
type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load() (*StoredToken, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var tok StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", s.Path, err)
	}
	return &tok, nil
}

func (s *FileTokenStore) Save(tok *StoredToken) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.Path)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
