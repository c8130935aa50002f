package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Credential is the token set obtained from a completed authorization code
// exchange. Its JSON form is what the store persists; the field names match
// the upstream token response so legacy plaintext token files parse
// directly.
type Credential struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Scope        string    `json:"scope,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// NewCredential converts an exchanged OAuth2 token into a credential
// record.
func NewCredential(tok *oauth2.Token) *Credential {
	c := &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		c.Scope = scope
	}
	return c
}

// Token converts the credential back into an OAuth2 token for use with a
// refreshing token source.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    c.TokenType,
		Expiry:       c.Expiry,
	}
}

// valid reports whether the record holds any usable token material. Used to
// distinguish a real credential from arbitrary JSON that happened to parse.
func (c *Credential) valid() bool {
	return c.AccessToken != "" || c.RefreshToken != ""
}
