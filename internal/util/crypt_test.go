package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecrypt(t *testing.T) {

	key := []byte("0123456789abcdef0123456789abcdef")
	plain := "AMP_d9d4ec74fa=JTdCJTIyZGV2aWNlSWQ"

	encrypted, err := Encrypt(key, plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, encrypted)

	decrypted, err := Decrypt(key, encrypted)
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)

	t.Run("Not hex", func(t *testing.T) {
		_, err := Decrypt(key, "zz-not-hex")
		assert.Error(t, err)
	})

	t.Run("Too short", func(t *testing.T) {
		_, err := Decrypt(key, "abcd")
		assert.Error(t, err)
	})

	t.Run("Bad key size", func(t *testing.T) {
		_, err := Decrypt([]byte("short"), encrypted)
		assert.Error(t, err)
	})
}
