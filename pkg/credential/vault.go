package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// VaultConfig configures a VaultStore.
type VaultConfig struct {
	Address   string
	Namespace string
	// Mount of the KV secrets engine. Defaults to "secret".
	Mount string
	// KVVersion is 1 or 2. Defaults to 2.
	KVVersion int
	// Token is optional, the Vault client reads VAULT_TOKEN otherwise.
	Token string
}

// VaultStore resolves credentials from a Vault KV secrets engine. The
// secret at <mount>/<id> holds the fields of a Record.
type VaultStore struct {
	client    *vault.Client
	mount     string
	kvVersion int
}

func NewVaultStore(cfg VaultConfig) (*VaultStore, error) {
	apiCfg := vault.DefaultConfig()
	if address := strings.TrimSpace(cfg.Address); address != "" {
		apiCfg.Address = address
	}
	client, err := vault.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("creating vault client: %w", err)
	}
	if ns := strings.TrimSpace(cfg.Namespace); ns != "" {
		client.SetNamespace(ns)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mount := strings.Trim(strings.TrimSpace(cfg.Mount), "/")
	if mount == "" {
		mount = "secret"
	}
	kvVersion := cfg.KVVersion
	if kvVersion == 0 {
		kvVersion = 2
	}
	if kvVersion != 1 && kvVersion != 2 {
		return nil, fmt.Errorf("vault kv version must be 1 or 2")
	}
	return &VaultStore{client: client, mount: mount, kvVersion: kvVersion}, nil
}

func (s *VaultStore) Resolve(ctx context.Context, id string) (Bundle, error) {
	path := strings.Trim(strings.TrimSpace(id), "/")
	if path == "" {
		return nil, notFound(id)
	}
	data, err := s.read(ctx, path)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, notFound(id)
	}

	// the data map only holds strings for a valid record
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("credential %q: decoding vault secret", id)
	}
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("credential %q: vault secret is not a credential record", id)
	}
	bundle, err := r.Bundle()
	if err != nil {
		return nil, fmt.Errorf("credential %q: %w", id, err)
	}
	return bundle, nil
}

// read returns the secret data at path, or nil when it does not exist.
func (s *VaultStore) read(ctx context.Context, path string) (map[string]interface{}, error) {
	switch s.kvVersion {
	case 1:
		secret, err := s.client.Logical().ReadWithContext(ctx, fmt.Sprintf("%s/%s", s.mount, path))
		if err != nil {
			return nil, fmt.Errorf("reading %s/%s from vault: %w", s.mount, path, err)
		}
		if secret == nil {
			return nil, nil
		}
		return secret.Data, nil
	default:
		secret, err := s.client.KVv2(s.mount).Get(ctx, path)
		if errors.Is(err, vault.ErrSecretNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s/%s from vault: %w", s.mount, path, err)
		}
		if secret == nil {
			return nil, nil
		}
		return secret.Data, nil
	}
}
