package googleauth

import (
	"encoding/json"
	"path/filepath"

	"github.com/99designs/keyring"
)

const keyringService = "agendabot"
const keyringTokenKey = "google-calendar-token"

// KeyringTokenStore keeps the token in the OS keychain. On headless Linux the
// keyring library falls back to an encrypted file backend, which requires a
// directory and a password prompt.
type KeyringTokenStore struct {
	ring keyring.Keyring
}

// OpenKeyring opens the platform keychain, using dir for the file-backend
// fallback.
func OpenKeyring(dir string) (*KeyringTokenStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keyringService,
		FileDir:          filepath.Join(dir, "keyring"),
		FilePasswordFunc: keyring.TerminalPrompt,
	})
	if err != nil {
		return nil, err
	}
	return &KeyringTokenStore{ring: ring}, nil
}

func (s *KeyringTokenStore) Load() (*StoredToken, error) {
	item, err := s.ring.Get(keyringTokenKey)
	if err != nil {
		return nil, err
	}
	var tok StoredToken
	if err := json.Unmarshal(item.Data, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (s *KeyringTokenStore) Save(tok *StoredToken) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	return s.ring.Set(keyring.Item{
		Key:  keyringTokenKey,
		Data: data,
	})
}

func (s *KeyringTokenStore) Clear() error {
	err := s.ring.Remove(keyringTokenKey)
	if err == keyring.ErrKeyNotFound {
		return nil
	}
	return err
}
