package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Identity is the verified profile of a user who completed the login flow.
// It is held only in memory; the durable credential material lives in the
// token store.
type Identity struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// FetchIdentity looks up the profile of the user the token belongs to via
// the Google userinfo endpoint.
func (f *Flow) FetchIdentity(ctx context.Context, tok *oauth2.Token) (*Identity, error) {
	svc, err := oauth2api.NewService(ctx, option.WithHTTPClient(f.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	return &Identity{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
