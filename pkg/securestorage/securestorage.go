package securestorage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/AlecAivazis/survey/v2"
	"github.com/common-fate/kubecred/pkg/config"
	"github.com/common-fate/kubecred/pkg/testable"
	"github.com/pkg/errors"
)

// SecureStorage stores JSON payloads in the OS keyring, falling back
// to an encrypted file when no keyring backend is available.
type SecureStorage struct {
	StorageSuffix string
	// Keyring overrides the backend selection. Optional.
	Keyring *config.KeyringConfig

	ring keyring.Keyring
}

// WithKeyring returns a SecureStorage backed by an already opened keyring.
func WithKeyring(ring keyring.Keyring) SecureStorage {
	return SecureStorage{ring: ring}
}

// returns keyring.ErrKeyNotFound if not found
func (s *SecureStorage) Retrieve(key string, target interface{}) error {
	ring, err := s.openKeyring()
	if err != nil {
		return err
	}
	keyringItem, err := ring.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(keyringItem.Data, target)
}

func (s *SecureStorage) Store(key string, payload interface{}) error {
	ring, err := s.openKeyring()
	if err != nil {
		return err
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return ring.Set(keyring.Item{
		Key:         key,
		Data:        b,
		Label:       "kubecred " + key,
		Description: "kubernetes credential",
	})
}

func (s *SecureStorage) Clear(key string) error {
	ring, err := s.openKeyring()
	if err != nil {
		return err
	}
	return ring.Remove(key)
}

func (s *SecureStorage) ListKeys() ([]string, error) {
	ring, err := s.openKeyring()
	if err != nil {
		return nil, err
	}
	return ring.Keys()
}

func (s *SecureStorage) openKeyring() (keyring.Keyring, error) {
	if s.ring != nil {
		return s.ring, nil
	}

	folder, err := config.ConfigFolder()
	if err != nil {
		return nil, err
	}

	secureStoragePath := filepath.Join(folder, "secure-storage-"+s.StorageSuffix)
	name := "kubecred-" + s.StorageSuffix
	c := keyring.Config{
		ServiceName: name,

		// MacOS keychain
		KeychainName:             "login",
		KeychainTrustApplication: true,

		// KDE Wallet
		KWalletAppID:  name,
		KWalletFolder: name,

		// Windows
		WinCredPrefix: name,

		// freedesktop.org's Secret Service
		LibSecretCollectionName: name,

		// Pass (https://www.passwordstore.org/)
		PassPrefix: name,

		// Fallback encrypted file
		FileDir: secureStoragePath,
		FilePasswordFunc: func(s string) (string, error) {
			in := survey.Password{Message: s}
			var out string
			withStdio := survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)
			err := testable.AskOne(&in, &out, withStdio)
			return out, err
		},
	}

	if s.Keyring != nil {
		if s.Keyring.Backend != nil {
			c.AllowedBackends = []keyring.BackendType{keyring.BackendType(*s.Keyring.Backend)}
		}
		if s.Keyring.KeychainName != nil {
			c.KeychainName = *s.Keyring.KeychainName
		}
		if s.Keyring.FileDir != nil {
			c.FileDir = *s.Keyring.FileDir
		}
		if s.Keyring.LibSecretCollectionName != nil {
			c.LibSecretCollectionName = *s.Keyring.LibSecretCollectionName
		}
	}

	k, err := keyring.Open(c)
	if err != nil {
		return nil, errors.Wrap(err, "opening keyring")
	}
	s.ring = k

	return k, nil
}
