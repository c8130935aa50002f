package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMissingCredentialsConfig indicates that the installed-app OAuth client
// configuration file (credentials.json) is absent or unreadable.
var ErrMissingCredentialsConfig = errors.New("google OAuth client configuration not found")

// ClientConfig holds the OAuth client credentials loaded from the
// credentials.json file downloaded from the Google Cloud console.
type ClientConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// credentialsFile mirrors the structure of credentials.json. Google emits
// either an "installed" or a "web" key depending on the client type.
type credentialsFile struct {
	Installed *ClientConfig `json:"installed"`
	Web       *ClientConfig `json:"web"`
}

// LoadClientConfig reads the OAuth client configuration from path.
// A missing or unreadable file yields ErrMissingCredentialsConfig so
// callers can decide whether that is fatal or just "not yet configured".
func LoadClientConfig(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingCredentialsConfig, path, err)
	}

	var creds credentialsFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrMissingCredentialsConfig, path, err)
	}

	key := creds.Installed
	if key == nil {
		key = creds.Web
	}
	if key == nil || key.ClientID == "" {
		return nil, fmt.Errorf("%w: %s contains neither an \"installed\" nor a \"web\" client", ErrMissingCredentialsConfig, path)
	}

	return key, nil
}
