package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyTool     = "tool"
	KeyStatus   = "status"
	KeyError    = "error"
	KeyUserHash = "user_hash"
)

// NewLogger creates the process logger writing to stderr. Debug enables
// debug-level output.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error. If err is nil, returns an
// empty Group attribute that will be omitted from output, so passing a
// maybe-nil error is safe.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging
// purposes. This allows correlation of log entries without exposing PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// UserHash returns a slog attribute with the anonymized user email.
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}
