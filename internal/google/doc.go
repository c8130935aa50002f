// Package google provides the OAuth2 authorization flow against Google's
// identity provider: loading the installed-app client configuration,
// building consent URLs, exchanging authorization codes for tokens and
// fetching the authenticated user's profile.
package google
