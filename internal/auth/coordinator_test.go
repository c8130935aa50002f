package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/linkauth/internal/google"
)

// countingLinks hands out a distinct URL per call so tests can observe
// that login URLs are built fresh rather than cached.
type countingLinks struct {
	calls int
}

func (l *countingLinks) AuthURL() string {
	l.calls++
	return fmt.Sprintf("https://accounts.example/auth?n=%d", l.calls)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    Policy
		wantErr bool
	}{
		{input: "consume-once", want: PolicyConsumeOnce},
		{input: "persistent", want: PolicyPersistent},
		{input: "", wantErr: true},
		{input: "session", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinatorConsumeOnce(t *testing.T) {
	c := NewCoordinator(PolicyConsumeOnce, &countingLinks{}, nil)

	c.Publish(&google.Identity{Email: "dev@example.com"})

	first := c.Check()
	require.True(t, first.Authenticated)
	assert.Equal(t, "dev@example.com", first.Identity.Email)

	// The identity is gone after one check; the next caller gets a login
	// URL again.
	second := c.Check()
	assert.False(t, second.Authenticated)
	assert.Nil(t, second.Identity)
	assert.NotEmpty(t, second.LoginURL)
}

func TestCoordinatorPersistent(t *testing.T) {
	c := NewCoordinator(PolicyPersistent, &countingLinks{}, nil)

	c.Publish(&google.Identity{Email: "dev@example.com"})

	for i := 0; i < 5; i++ {
		status := c.Check()
		require.True(t, status.Authenticated, "check %d", i)
		assert.Equal(t, "dev@example.com", status.Identity.Email)
	}
}

func TestCoordinatorFreshLoginURLPerCheck(t *testing.T) {
	links := &countingLinks{}
	c := NewCoordinator(PolicyConsumeOnce, links, nil)

	first := c.Check()
	second := c.Check()

	assert.False(t, first.Authenticated)
	assert.NotEqual(t, first.LoginURL, second.LoginURL)
	assert.Equal(t, 2, links.calls)
}

func TestCoordinatorLastWriterWins(t *testing.T) {
	c := NewCoordinator(PolicyConsumeOnce, &countingLinks{}, nil)

	c.Publish(&google.Identity{Email: "first@example.com"})
	c.Publish(&google.Identity{Email: "second@example.com"})

	status := c.Check()
	require.True(t, status.Authenticated)
	assert.Equal(t, "second@example.com", status.Identity.Email)

	// Only one identity was held; the replaced login is gone.
	assert.False(t, c.Check().Authenticated)
}
