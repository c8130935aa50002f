package google

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthURLRequestsOfflineConsent(t *testing.T) {
	flow := NewFlow(&ClientConfig{ClientID: "id", ClientSecret: "secret"}, IdentityScopes)

	raw := flow.AuthURL()
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, RedirectURI, q.Get("redirect_uri"))
	assert.Equal(t, "id", q.Get("client_id"))
	assert.NotEmpty(t, q.Get("scope"))
}

func TestAuthURLIsFreshlyBuilt(t *testing.T) {
	flow := NewFlow(&ClientConfig{ClientID: "id"}, CalendarScopes)
	assert.Equal(t, flow.AuthURL(), flow.AuthURL())
}

func TestScopeSets(t *testing.T) {
	// Calendar scopes are a strict superset of the identity scopes.
	for _, s := range IdentityScopes {
		assert.Contains(t, CalendarScopes, s)
	}
	assert.Greater(t, len(CalendarScopes), len(IdentityScopes))
}
