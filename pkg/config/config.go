// package config stores the kubecred settings: which credential
// store backs `kubecred exec`, how to reach it, and where ephemeral
// kubeconfigs are written.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/common-fate/grab"

	"github.com/common-fate/kubecred/internal/build"
)

const (
	// permission for user to read/write.
	USER_READ_WRITE_PERM = 0600
)

const (
	// permission for user to read/write/execute.
	USER_READ_WRITE_EXECUTE_PERM = 0700
)

// Credential store backends.
const (
	StoreKeyring = "keyring"
	StoreFile    = "file"
	StoreVault   = "vault"
	StoreSSM     = "ssm"
)

type Config struct {
	// Store selects the credential backend. One of keyring, file, vault or ssm.
	// Defaults to keyring.
	Store string `toml:",omitempty"`

	FileStore *FileStoreConfig `toml:",omitempty"`
	Keyring   *KeyringConfig   `toml:",omitempty"`
	Vault     *VaultConfig     `toml:",omitempty"`
	SSM       *SSMConfig       `toml:",omitempty"`

	// TempDir is where ephemeral kubeconfigs are created.
	// The OS temp directory is used when unset.
	TempDir *string `toml:",omitempty"`
}

type FileStoreConfig struct {
	// Path of the TOML credentials file. Defaults to credentials.toml in the config folder.
	Path *string `toml:",omitempty"`
}

type KeyringConfig struct {
	Backend                 *string `toml:",omitempty"`
	KeychainName            *string `toml:",omitempty"`
	FileDir                 *string `toml:",omitempty"`
	LibSecretCollectionName *string `toml:",omitempty"`
}

type VaultConfig struct {
	Address   string `toml:",omitempty"`
	Namespace string `toml:",omitempty"`
	Mount     string `toml:",omitempty"`
	KVVersion int    `toml:",omitempty"`
	// TokenEnv names the environment variable holding the Vault token.
	// VAULT_TOKEN is read by the Vault client when unset.
	TokenEnv string `toml:",omitempty"`
}

type SSMConfig struct {
	Region string `toml:",omitempty"`
	// Prefix is prepended to the credential ID to form the parameter name.
	Prefix string `toml:",omitempty"`
}

// NewDefaultConfig returns a config with OS specific defaults populated
func NewDefaultConfig() Config {
	// macos devices should default to the keychain backend
	if runtime.GOOS == "darwin" {
		return Config{
			Store: StoreKeyring,
			Keyring: &KeyringConfig{
				Backend: grab.Ptr("keychain"),
			},
		}
	}
	return Config{Store: StoreKeyring}
}

// StoreName returns the configured store, falling back to the keyring.
func (c *Config) StoreName() string {
	if c.Store == "" {
		return StoreKeyring
	}
	return c.Store
}

// CredentialsFilePath returns the path of the TOML credential store.
func (c *Config) CredentialsFilePath() (string, error) {
	if c.FileStore != nil && c.FileStore.Path != nil {
		return *c.FileStore.Path, nil
	}
	folder, err := ConfigFolder()
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, "credentials.toml"), nil
}

// TempDirectory returns the directory for ephemeral kubeconfigs, or "" for the OS default.
func (c *Config) TempDirectory() string {
	return grab.Value(c.TempDir)
}

// checks and or creates the config folder on startup
func SetupConfigFolder() error {
	folder, err := ConfigFolder()
	if err != nil {
		return err
	}
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		err := os.MkdirAll(folder, USER_READ_WRITE_EXECUTE_PERM)
		if err != nil {
			return err
		}
	}
	return nil
}

func ConfigFolder() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(home, build.ConfigFolderName)
	if xdgConfigDir := os.Getenv("XDG_CONFIG_HOME"); !pathExists(configDir) && xdgConfigDir != "" {
		configDir = filepath.Join(xdgConfigDir, "kubecred")
	}

	return configDir, nil
}

func ConfigFilePath() (string, error) {
	folder, err := ConfigFolder()
	if err != nil {
		return "", err
	}
	return filepath.Join(folder, "config"), nil
}

// pathExists checks if a given file exists and returns true or false
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the config file from the config folder.
func Load() (*Config, error) {
	configFilePath, err := ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configFilePath)
}

// LoadFrom reads the config file at path. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	c := NewDefaultConfig()

	_, err := toml.DecodeFile(path, &c)
	if errors.Is(err, fs.ErrNotExist) {
		return &c, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Save() error {
	configFilePath, err := ConfigFilePath()
	if err != nil {
		return err
	}
	if err := SetupConfigFolder(); err != nil {
		return err
	}
	return c.SaveTo(configFilePath)
}

func (c *Config) SaveTo(path string) error {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, USER_READ_WRITE_PERM)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(c)
}
