package auth

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "token.key")
	c, err := NewCipher(keyPath)
	require.NoError(t, err)

	plaintext := []byte(`{"access_token":"A","refresh_token":"R"}`)
	stored, err := c.Encrypt(plaintext)
	require.NoError(t, err)

	// Stored form is hex(iv):hex(ciphertext).
	ivHex, ctHex, ok := strings.Cut(stored, ":")
	require.True(t, ok)
	assert.Len(t, ivHex, 32)
	assert.NotEmpty(t, ctHex)

	decrypted, err := c.Decrypt(stored)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestCipherFreshIVPerEncrypt(t *testing.T) {
	c, err := NewCipher(filepath.Join(t.TempDir(), "token.key"))
	require.NoError(t, err)

	first, err := c.Encrypt([]byte("same input"))
	require.NoError(t, err)
	second, err := c.Encrypt([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCipherCreatesKeyFile(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "token.key")
	c, err := NewCipher(keyPath)
	require.NoError(t, err)
	assert.True(t, c.GeneratedKey())

	data, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(string(data)), 64)
	_, err = hex.DecodeString(strings.TrimSpace(string(data)))
	assert.NoError(t, err)
}

func TestCipherReloadsExistingKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "token.key")

	first, err := NewCipher(keyPath)
	require.NoError(t, err)
	stored, err := first.Encrypt([]byte("secret"))
	require.NoError(t, err)

	second, err := NewCipher(keyPath)
	require.NoError(t, err)
	assert.False(t, second.GeneratedKey())

	decrypted, err := second.Decrypt(stored)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), decrypted)
}

func TestCipherRejectsBadKeyFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not hex", content: "zz-not-hex"},
		{name: "wrong length", content: "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyPath := filepath.Join(t.TempDir(), "token.key")
			require.NoError(t, os.WriteFile(keyPath, []byte(tt.content), 0600))

			_, err := NewCipher(keyPath)
			assert.Error(t, err)
		})
	}
}

func TestCipherDecryptMalformed(t *testing.T) {
	c, err := NewCipher(filepath.Join(t.TempDir(), "token.key"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		stored string
	}{
		{name: "missing separator", stored: "deadbeef"},
		{name: "bad iv hex", stored: "zzzz:deadbeef"},
		{name: "short iv", stored: "dead:deadbeefdeadbeefdeadbeefdeadbeef"},
		{name: "bad ciphertext hex", stored: strings.Repeat("ab", 16) + ":zzzz"},
		{name: "unaligned ciphertext", stored: strings.Repeat("ab", 16) + ":abcd"},
		{name: "empty ciphertext", stored: strings.Repeat("ab", 16) + ":"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decrypt(tt.stored)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptCredential)
		})
	}
}

func TestCipherDecryptWithDifferentKey(t *testing.T) {
	dir := t.TempDir()
	first, err := NewCipher(filepath.Join(dir, "a.key"))
	require.NoError(t, err)
	second, err := NewCipher(filepath.Join(dir, "b.key"))
	require.NoError(t, err)

	plaintext := []byte(`{"access_token":"A"}`)
	stored, err := first.Encrypt(plaintext)
	require.NoError(t, err)

	// CBC with the wrong key yields garbage; padding validation usually
	// rejects it, and when it happens to pass the plaintext cannot match.
	decrypted, err := second.Decrypt(stored)
	if err == nil {
		assert.NotEqual(t, plaintext, decrypted)
	} else {
		assert.ErrorIs(t, err, ErrCorruptCredential)
	}
}
