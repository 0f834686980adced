package credential

import (
	"context"
	"fmt"
	"os"

	"github.com/common-fate/kubecred/pkg/config"
	"github.com/common-fate/kubecred/pkg/securestorage"
)

// Open returns the resolver selected by cfg.
func Open(ctx context.Context, cfg *config.Config) (Resolver, error) {
	switch cfg.StoreName() {
	case config.StoreKeyring, config.StoreFile:
		return OpenStore(cfg)
	case config.StoreVault:
		vc := VaultConfig{}
		if cfg.Vault != nil {
			vc = VaultConfig{
				Address:   cfg.Vault.Address,
				Namespace: cfg.Vault.Namespace,
				Mount:     cfg.Vault.Mount,
				KVVersion: cfg.Vault.KVVersion,
			}
			if cfg.Vault.TokenEnv != "" {
				vc.Token = os.Getenv(cfg.Vault.TokenEnv)
			}
		}
		return NewVaultStore(vc)
	case config.StoreSSM:
		var region, prefix string
		if cfg.SSM != nil {
			region, prefix = cfg.SSM.Region, cfg.SSM.Prefix
		}
		return NewSSMStore(ctx, region, prefix)
	default:
		return nil, fmt.Errorf("unknown credential store %q", cfg.Store)
	}
}

// OpenStore returns the writable store selected by cfg. Vault and SSM are
// read only.
func OpenStore(cfg *config.Config) (Store, error) {
	switch cfg.StoreName() {
	case config.StoreKeyring:
		return NewKeyringStore(securestorage.SecureStorage{Keyring: cfg.Keyring}), nil
	case config.StoreFile:
		path, err := cfg.CredentialsFilePath()
		if err != nil {
			return nil, err
		}
		return &FileStore{Path: path}, nil
	default:
		return nil, fmt.Errorf("credential store %q is read only", cfg.StoreName())
	}
}
