package credential

import (
	"context"
	"fmt"
	"sort"

	"github.com/99designs/keyring"
	"github.com/common-fate/kubecred/pkg/securestorage"
)

// KeyringStore keeps credentials in the OS keyring.
type KeyringStore struct {
	SecureStorage securestorage.SecureStorage
}

// NewKeyringStore returns the keyring backed store used by the CLI.
func NewKeyringStore(s securestorage.SecureStorage) *KeyringStore {
	if s.StorageSuffix == "" {
		s.StorageSuffix = "kubernetes-credentials"
	}
	return &KeyringStore{SecureStorage: s}
}

func (s *KeyringStore) Resolve(ctx context.Context, id string) (Bundle, error) {
	var r Record
	err := s.SecureStorage.Retrieve(id, &r)
	if err == keyring.ErrKeyNotFound {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving credential %q from keyring: %w", id, err)
	}
	b, err := r.Bundle()
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}
	return b, nil
}

func (s *KeyringStore) Put(ctx context.Context, id string, b Bundle) error {
	r, err := RecordFor(b)
	if err != nil {
		return err
	}
	return s.SecureStorage.Store(id, r)
}

func (s *KeyringStore) Remove(ctx context.Context, id string) error {
	err := s.SecureStorage.Clear(id)
	if err == keyring.ErrKeyNotFound {
		return notFound(id)
	}
	return err
}

func (s *KeyringStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.SecureStorage.ListKeys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
