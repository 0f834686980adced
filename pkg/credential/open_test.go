package credential

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/common-fate/grab"
	"github.com/common-fate/kubecred/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")

	tests := []struct {
		name    string
		give    config.Config
		want    interface{}
		wantErr string
	}{
		{
			name: "file",
			give: config.Config{Store: config.StoreFile, FileStore: &config.FileStoreConfig{Path: grab.Ptr(path)}},
			want: &FileStore{Path: path},
		},
		{
			name: "vault",
			give: config.Config{Store: config.StoreVault, Vault: &config.VaultConfig{Address: "http://127.0.0.1:8200"}},
			want: &VaultStore{},
		},
		{
			name:    "unknown",
			give:    config.Config{Store: "etcd"},
			wantErr: `unknown credential store "etcd"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(context.Background(), &tt.give)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			if fs, ok := tt.want.(*FileStore); ok {
				assert.Equal(t, fs, got)
			}
		})
	}
}

func TestOpenStoreReadOnly(t *testing.T) {
	_, err := OpenStore(&config.Config{Store: config.StoreSSM})
	assert.EqualError(t, err, `credential store "ssm" is read only`)
}
