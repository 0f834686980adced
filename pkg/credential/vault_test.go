package credential

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vaultKV2Response struct {
	Data struct {
		Data map[string]interface{} `json:"data"`
	} `json:"data"`
}

type vaultKV1Response struct {
	Data map[string]interface{} `json:"data"`
}

func TestVaultStoreKV2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/v1/secret/data/ci/cred1234" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		payload := vaultKV2Response{}
		payload.Data.Data = map[string]interface{}{"type": "username-password", "username": "bob", "password": "pass word"}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	s, err := NewVaultStore(VaultConfig{Address: server.URL, Token: "token"})
	require.NoError(t, err)

	b, err := s.Resolve(context.Background(), "ci/cred1234")
	require.NoError(t, err)
	assert.Equal(t, UsernamePassword{Username: "bob", Password: "pass word"}, b)

	_, err = s.Resolve(context.Background(), "ci/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultStoreKV1(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/kv/clus1234" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		payload := vaultKV1Response{}
		payload.Data = map[string]interface{}{"type": "secret-text", "secret": "abc"}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	s, err := NewVaultStore(VaultConfig{Address: server.URL, Token: "token", Mount: "/kv/", KVVersion: 1})
	require.NoError(t, err)

	b, err := s.Resolve(context.Background(), "clus1234")
	require.NoError(t, err)
	assert.Equal(t, SecretText{Text: "abc"}, b)

	_, err = s.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVaultStoreRejectsUnknownRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := vaultKV2Response{}
		payload.Data.Data = map[string]interface{}{"type": "ssh-key", "secret": "s3cr3t"}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	s, err := NewVaultStore(VaultConfig{Address: server.URL, Token: "token"})
	require.NoError(t, err)

	_, err = s.Resolve(context.Background(), "cred1234")
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.NotContains(t, err.Error(), "s3cr3t")
}

func TestNewVaultStoreInvalidVersion(t *testing.T) {
	_, err := NewVaultStore(VaultConfig{Address: "http://127.0.0.1:8200", KVVersion: 3})
	assert.EqualError(t, err, "vault kv version must be 1 or 2")
}
