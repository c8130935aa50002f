package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/teemow/linkauth/internal/logging"
)

// Store persists the current credential encrypted at rest in a single
// well-known token file. Saves overwrite; there is no history.
type Store struct {
	path   string
	cipher *Cipher
	logger *slog.Logger
}

// NewStore creates a token store writing to path, encrypting with cipher.
func NewStore(path string, cipher *Cipher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, cipher: cipher, logger: logger}
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Save serializes the credential, encrypts it and overwrites the token
// file.
func (s *Store) Save(cred *Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to serialize credential: %w", err)
	}

	stored, err := s.cipher.Encrypt(data)
	if err != nil {
		return fmt.Errorf("failed to encrypt credential: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(stored), 0600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", s.path, err)
	}
	return nil
}

// Load returns the stored credential, or nil when none is available.
//
// Load deliberately fails open: a missing, corrupt or undecryptable token
// file is reported as "absent" (with a logged warning) rather than an
// error, so a damaged file forces re-authentication instead of blocking
// the server from starting. Plaintext JSON token files from before
// encryption was introduced are still accepted as-is.
func (s *Store) Load() *Credential {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("token file unreadable, treating as absent",
				logging.Err(err))
		}
		return nil
	}

	// Legacy compatibility: unencrypted files parse directly.
	if cred := parseCredential(data); cred != nil {
		return cred
	}

	plaintext, err := s.cipher.Decrypt(string(data))
	if err != nil {
		if s.cipher.GeneratedKey() {
			// The key file was regenerated underneath an existing token
			// file; the previous credentials are unrecoverable.
			s.logger.Warn("token file exists but the encryption key was just generated; previously stored credentials cannot be recovered and a new login is required",
				slog.String("token_file", s.path))
		} else {
			s.logger.Warn("failed to decrypt token file, treating as absent",
				logging.Err(err))
		}
		return nil
	}

	cred := parseCredential(plaintext)
	if cred == nil {
		s.logger.Warn("decrypted token file did not contain a credential, treating as absent",
			slog.String("token_file", s.path))
	}
	return cred
}

// parseCredential parses data as a JSON credential record, returning nil
// unless it carries usable token material.
func parseCredential(data []byte) *Credential {
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil
	}
	if !cred.valid() {
		return nil
	}
	return &cred
}
