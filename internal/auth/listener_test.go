package auth

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/linkauth/internal/google"
)

// fakeFlow satisfies Flow without talking to Google.
type fakeFlow struct {
	exchangeErr  error
	identityErr  error
	exchangedFor []string
}

func (f *fakeFlow) AuthURL() string {
	return "https://accounts.example/auth?state=state"
}

func (f *fakeFlow) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	f.exchangedFor = append(f.exchangedFor, code)
	return &oauth2.Token{AccessToken: "A", RefreshToken: "R", TokenType: "Bearer"}, nil
}

func (f *fakeFlow) FetchIdentity(_ context.Context, _ *oauth2.Token) (*google.Identity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return &google.Identity{ID: "1", Email: "dev@example.com", Name: "Dev"}, nil
}

// recordingEvents captures every observability callback for assertions.
type recordingEvents struct {
	callbacks int
	exchanges []time.Duration
	successes []string
	failures  []string
}

func (r *recordingEvents) CallbackReceived()                 { r.callbacks++ }
func (r *recordingEvents) ExchangeCompleted(d time.Duration) { r.exchanges = append(r.exchanges, d) }
func (r *recordingEvents) LoginSucceeded(email string)       { r.successes = append(r.successes, email) }
func (r *recordingEvents) LoginFailed(reason string)         { r.failures = append(r.failures, reason) }

func TestCallbackURLMatchesRedirectURI(t *testing.T) {
	l, err := NewListener(ListenerConfig{Flow: &fakeFlow{}})
	require.NoError(t, err)

	// The URL the listener serves must be byte-identical to the redirect
	// URI the flow registers with the provider.
	assert.Equal(t, google.RedirectURI, l.CallbackURL())
}

func TestNewListenerRejectsBadRedirectURI(t *testing.T) {
	_, err := NewListener(ListenerConfig{Flow: &fakeFlow{}, RedirectURI: "http://"})
	assert.Error(t, err)

	_, err = NewListener(ListenerConfig{})
	assert.Error(t, err)
}

func TestListenerCompletesLogin(t *testing.T) {
	dir := t.TempDir()
	cipher, err := NewCipher(filepath.Join(dir, "token.key"))
	require.NoError(t, err)
	tokenPath := filepath.Join(dir, "token.json")
	store := NewStore(tokenPath, cipher, nil)

	flow := &fakeFlow{}
	coordinator := NewCoordinator(PolicyConsumeOnce, flow, nil)

	l, err := NewListener(ListenerConfig{
		Flow:      flow,
		Store:     store,
		Publisher: coordinator,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/oauth2callback?code=abc123", nil)
	l.ServeHTTP(rec, req)

	// The page confirms success regardless of the exchange outcome.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, successPage, rec.Body.String())
	assert.Equal(t, []string{"abc123"}, flow.exchangedFor)

	// Credential persisted encrypted, not as plaintext JSON.
	raw, err := os.ReadFile(tokenPath)
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Nil(t, parseCredential(raw))

	loaded := store.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "R", loaded.RefreshToken)

	status := coordinator.Check()
	require.True(t, status.Authenticated)
	assert.Equal(t, "dev@example.com", status.Identity.Email)
}

func TestListenerReportsLoginEvents(t *testing.T) {
	dir := t.TempDir()
	cipher, err := NewCipher(filepath.Join(dir, "token.key"))
	require.NoError(t, err)
	store := NewStore(filepath.Join(dir, "token.json"), cipher, nil)

	events := &recordingEvents{}
	l, err := NewListener(ListenerConfig{
		Flow:   &fakeFlow{},
		Store:  store,
		Events: events,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?code=abc", nil))

	assert.Equal(t, 1, events.callbacks)
	require.Len(t, events.exchanges, 1)
	assert.GreaterOrEqual(t, events.exchanges[0], time.Duration(0))
	assert.Equal(t, []string{"dev@example.com"}, events.successes)
	assert.Empty(t, events.failures)
}

func TestListenerReportsFailedExchange(t *testing.T) {
	events := &recordingEvents{}
	l, err := NewListener(ListenerConfig{
		Flow:   &fakeFlow{exchangeErr: assert.AnError},
		Events: events,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?code=abc", nil))

	assert.Equal(t, 1, events.callbacks)
	// The exchange never completed, so no duration is recorded for it.
	assert.Empty(t, events.exchanges)
	assert.Empty(t, events.successes)
	assert.Equal(t, []string{"exchange"}, events.failures)
}

func TestListenerMissingCode(t *testing.T) {
	flow := &fakeFlow{}
	l, err := NewListener(ListenerConfig{Flow: flow})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback", nil))

	assert.Equal(t, failurePage, rec.Body.String())
	assert.Empty(t, flow.exchangedFor)
}

func TestListenerIgnoresOtherPaths(t *testing.T) {
	flow := &fakeFlow{}
	l, err := NewListener(ListenerConfig{Flow: flow})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico?code=abc", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, flow.exchangedFor)
}

func TestListenerExchangeFailureLeavesCoordinatorUntouched(t *testing.T) {
	flow := &fakeFlow{exchangeErr: assert.AnError}
	coordinator := NewCoordinator(PolicyConsumeOnce, flow, nil)

	l, err := NewListener(ListenerConfig{Flow: flow, Publisher: coordinator})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?code=abc", nil))

	// Page already confirmed before the exchange ran.
	assert.Equal(t, successPage, rec.Body.String())
	assert.False(t, coordinator.Check().Authenticated)
}

func TestListenerPortInUse(t *testing.T) {
	// Occupy a port, then point the listener at it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	l, err := NewListener(ListenerConfig{
		Flow:        &fakeFlow{},
		RedirectURI: "http://" + ln.Addr().String() + "/oauth2callback",
	})
	require.NoError(t, err)

	result := l.Start(context.Background())
	assert.False(t, result.Started)
	require.Error(t, result.Err)
	assert.ErrorIs(t, result.Err, ErrPortInUse)
}

func TestListenerSingleShotSignalsDone(t *testing.T) {
	dir := t.TempDir()
	cipher, err := NewCipher(filepath.Join(dir, "token.key"))
	require.NoError(t, err)
	store := NewStore(filepath.Join(dir, "token.json"), cipher, nil)

	flow := &fakeFlow{}
	l, err := NewListener(ListenerConfig{
		Flow:       flow,
		Store:      store,
		SingleShot: true,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	l.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?code=abc", nil))

	select {
	case <-l.Done():
	default:
		t.Fatal("single-shot listener did not signal completion")
	}
}

func TestListenerServesOverNetwork(t *testing.T) {
	dir := t.TempDir()
	cipher, err := NewCipher(filepath.Join(dir, "token.key"))
	require.NoError(t, err)
	store := NewStore(filepath.Join(dir, "token.json"), cipher, nil)

	flow := &fakeFlow{}
	coordinator := NewCoordinator(PolicyPersistent, flow, nil)

	// Bind an ephemeral port to avoid colliding with a real instance.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	l, err := NewListener(ListenerConfig{
		Flow:        flow,
		Store:       store,
		Publisher:   coordinator,
		RedirectURI: "http://" + addr + "/oauth2callback",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := l.Start(ctx)
	require.True(t, result.Started)

	resp, err := http.Get(l.CallbackURL() + "?code=net1")
	require.NoError(t, err)
	// Reading to EOF waits for the handler to return, and the exchange
	// completes before it does.
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, successPage, string(body))

	assert.True(t, coordinator.Check().Authenticated)
}
