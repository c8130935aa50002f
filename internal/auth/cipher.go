package auth

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Cipher encrypts and decrypts serialized credentials with AES-256-CBC.
// The key is generated on first use and persisted hex-encoded in a key
// file; the same key must be available to decrypt anything it encrypted,
// so losing the key file invalidates all stored credentials.
//
// The stored form is hex(iv) + ":" + hex(ciphertext) with a fresh random
// 16-byte IV per encryption. An IV must never be reused with the same key.
type Cipher struct {
	key       []byte
	generated bool
}

// NewCipher loads the key from keyPath, generating and persisting a new
// 256-bit key if the file does not exist.
func NewCipher(keyPath string) (*Cipher, error) {
	data, err := os.ReadFile(keyPath)
	if err == nil {
		key, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode key file %s: %w", keyPath, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("key file %s must hold a 32-byte key, got %d bytes", keyPath, len(key))
		}
		return &Cipher{key: key}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file %s: %w", keyPath, err)
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate encryption key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file %s: %w", keyPath, err)
	}

	return &Cipher{key: key, generated: true}, nil
}

// GeneratedKey reports whether this cipher created a fresh key rather than
// loading an existing one. A fresh key cannot decrypt previously stored
// credentials; callers use this to surface the data-loss case explicitly.
func (c *Cipher) GeneratedKey() bool {
	return c.generated
}

// Encrypt encrypts plaintext and returns the stored form
// hex(iv) + ":" + hex(ciphertext).
func (c *Cipher) Encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. A malformed stored form, or one produced with a
// different key, yields ErrCorruptCredential.
func (c *Cipher) Decrypt(stored string) ([]byte, error) {
	ivHex, ctHex, ok := strings.Cut(stored, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing IV separator", ErrCorruptCredential)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: invalid IV", ErrCorruptCredential)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: invalid ciphertext", ErrCorruptCredential)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCredential, err)
	}
	return unpadded, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
