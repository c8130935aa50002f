package google

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCredentials(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadClientConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantID  string
		wantErr bool
	}{
		{
			name:    "installed client",
			content: `{"installed":{"client_id":"id-1","client_secret":"secret-1"}}`,
			wantID:  "id-1",
		},
		{
			name:    "web client",
			content: `{"web":{"client_id":"id-2","client_secret":"secret-2"}}`,
			wantID:  "id-2",
		},
		{
			name:    "installed preferred over web",
			content: `{"installed":{"client_id":"id-1"},"web":{"client_id":"id-2"}}`,
			wantID:  "id-1",
		},
		{
			name:    "invalid json",
			content: `not json`,
			wantErr: true,
		},
		{
			name:    "neither key",
			content: `{"other":{}}`,
			wantErr: true,
		},
		{
			name:    "empty client id",
			content: `{"installed":{"client_id":""}}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc, err := LoadClientConfig(writeCredentials(t, tt.content))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingCredentialsConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, cc.ClientID)
		})
	}
}

func TestLoadClientConfigMissingFile(t *testing.T) {
	_, err := LoadClientConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredentialsConfig)
}
