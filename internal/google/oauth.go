package google

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
)

// RedirectURI is the fixed local redirect target for the authorization code
// flow. The callback listener derives its bind address and path from this
// constant, so the URL sent to Google and the endpoint we listen on can
// never drift apart.
const RedirectURI = "http://localhost:3000/oauth2callback"

// Flow implements the OAuth2 authorization code flow for a configured
// client and scope set.
type Flow struct {
	conf *oauth2.Config
}

// NewFlow creates an authorization flow for the given client configuration
// and scopes.
func NewFlow(cc *ClientConfig, scopes []string) *Flow {
	return &Flow{
		conf: &oauth2.Config{
			ClientID:     cc.ClientID,
			ClientSecret: cc.ClientSecret,
			Endpoint:     googleauth.Endpoint,
			RedirectURL:  RedirectURI,
			Scopes:       scopes,
		},
	}
}

// NewFlowFromFile loads the client configuration from credentialsPath and
// creates a flow for it.
func NewFlowFromFile(credentialsPath string, scopes []string) (*Flow, error) {
	cc, err := LoadClientConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	return NewFlow(cc, scopes), nil
}

// AuthURL returns the consent URL for the user to visit. Offline access is
// requested and the consent screen is forced on every login; Google only
// reliably issues a refresh token under these conditions.
func (f *Flow) AuthURL() string {
	return f.conf.AuthCodeURL("state",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// Exchange submits a one-time authorization code and returns the resulting
// token set.
func (f *Flow) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}
	return tok, nil
}

// TokenSource returns a refreshing token source for a previously obtained
// token.
func (f *Flow) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return f.conf.TokenSource(ctx, tok)
}

// Client returns an HTTP client that authenticates requests with tok,
// refreshing it as needed.
func (f *Flow) Client(ctx context.Context, tok *oauth2.Token) *http.Client {
	return oauth2.NewClient(ctx, f.TokenSource(ctx, tok))
}
