package securestorage

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Token string `json:"token"`
}

func TestSecureStorage(t *testing.T) {
	s := WithKeyring(keyring.NewArrayKeyring(nil))

	require.NoError(t, s.Store("cred1234", payload{Token: "t0k3n"}))

	var got payload
	require.NoError(t, s.Retrieve("cred1234", &got))
	assert.Equal(t, "t0k3n", got.Token)

	keys, err := s.ListKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"cred1234"}, keys)

	require.NoError(t, s.Clear("cred1234"))
	err = s.Retrieve("cred1234", &got)
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)
}
