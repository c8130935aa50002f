// Package auth implements the authentication coordination core: encrypted
// at-rest persistence of OAuth tokens, the background callback listener
// that completes the authorization code flow out-of-band, and the
// coordinator that hands the resulting identity across to synchronous tool
// calls.
package auth
