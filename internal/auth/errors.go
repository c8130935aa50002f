package auth

import (
	"errors"
	"fmt"
)

// ErrCorruptCredential indicates that stored token material could not be
// decrypted or parsed, typically because it is malformed or was encrypted
// with a different key.
var ErrCorruptCredential = errors.New("stored credential is corrupt or was encrypted with a different key")

// ErrPortInUse indicates that the callback listener could not bind its
// local port, usually because another instance is already running.
var ErrPortInUse = errors.New("callback listener port already in use")

// RequiresAuthError is returned when an operation needs a valid credential
// and none is available. It carries a fresh login URL so the caller can be
// given an actionable next step instead of a bare failure.
type RequiresAuthError struct {
	LoginURL string
}

func (e *RequiresAuthError) Error() string {
	return "authentication required: no valid Google credential available"
}

// LoginPrompt renders the message returned to tool callers when a login is
// required. The caller is typically an automated agent, so the message
// spells out the complete procedure.
func LoginPrompt(url string) string {
	return fmt.Sprintf("Authentication Required. Please click the link below to sign in with Google:\n\n%s\n\nAfter you see \"Authentication successful\" in your browser, run the command again.", url)
}
