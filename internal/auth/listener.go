package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/linkauth/internal/google"
	"github.com/teemow/linkauth/internal/logging"
)

const exchangeTimeout = 30 * time.Second

const (
	successPage = "Authentication successful! You can close this tab and return to your AI assistant."
	failurePage = "Error during auth exchange. Check the server logs and try signing in again."
)

// Flow is the slice of the authorization flow the listener needs. It is
// satisfied by *google.Flow and stubbed in tests.
type Flow interface {
	AuthURL() string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchIdentity(ctx context.Context, tok *oauth2.Token) (*google.Identity, error)
}

// Publisher receives the verified identity after a completed login.
type Publisher interface {
	Publish(id *google.Identity)
}

// Events is an optional hook for observability around login attempts.
type Events interface {
	CallbackReceived()
	ExchangeCompleted(d time.Duration)
	LoginSucceeded(email string)
	LoginFailed(reason string)
}

// StartResult is the explicit outcome of starting the listener. A failed
// bind is not inherently fatal; the supervisor decides whether to abort or
// continue without callback capability.
type StartResult struct {
	Started bool
	Err     error
}

// ListenerConfig configures a callback listener.
type ListenerConfig struct {
	Flow      Flow
	Store     *Store
	Publisher Publisher

	// RedirectURI is the full redirect target; bind address and callback
	// path are derived from it. Defaults to google.RedirectURI.
	RedirectURI string

	// SingleShot stops the listener after the first successful login
	// (setup mode). The default keeps listening for repeat logins.
	SingleShot bool

	Logger *slog.Logger
	Events Events
}

// Listener is the long-lived local HTTP endpoint that receives the OAuth
// redirect, completes the code exchange out-of-band and publishes the
// resulting identity.
type Listener struct {
	cfg  ListenerConfig
	addr string
	path string

	mu  sync.Mutex
	srv *http.Server
	ctx context.Context

	doneOnce sync.Once
	done     chan struct{}
}

// NewListener creates a listener for the configured redirect URI.
func NewListener(cfg ListenerConfig) (*Listener, error) {
	if cfg.Flow == nil {
		return nil, fmt.Errorf("listener requires an authorization flow")
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = google.RedirectURI
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	u, err := url.Parse(cfg.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI %q: %w", cfg.RedirectURI, err)
	}
	if u.Host == "" || u.Path == "" {
		return nil, fmt.Errorf("redirect URI %q must carry a host and path", cfg.RedirectURI)
	}

	return &Listener{
		cfg:  cfg,
		addr: u.Host,
		path: u.Path,
		done: make(chan struct{}),
	}, nil
}

// CallbackURL reconstructs the URL this listener serves from its bind
// address and path. It must be byte-identical to the redirect URI the
// authorization flow sends to the provider.
func (l *Listener) CallbackURL() string {
	return "http://" + l.addr + l.path
}

// Start binds the local port and begins serving callbacks in the
// background. The listener shuts down when ctx is cancelled. A bind
// failure is returned as an unavailable result, never as a panic or a
// process exit.
func (l *Listener) Start(ctx context.Context) StartResult {
	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		l.cfg.Logger.Warn("callback listener unavailable",
			slog.String("addr", l.addr),
			logging.Err(err))
		return StartResult{Started: false, Err: fmt.Errorf("%w: %v", ErrPortInUse, err)}
	}

	srv := &http.Server{Handler: l}

	l.mu.Lock()
	l.srv = srv
	l.ctx = ctx
	l.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.cfg.Logger.Error("callback listener stopped", logging.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		l.stop()
	}()

	l.cfg.Logger.Info("callback listener started", slog.String("addr", l.addr))
	return StartResult{Started: true}
}

// Done is closed after the first successful login when running in
// single-shot mode.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) stop() {
	l.mu.Lock()
	srv := l.srv
	l.mu.Unlock()
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// ServeHTTP handles the OAuth redirect. Requests to any other path are
// answered with 404 and otherwise ignored.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != l.path {
		http.NotFound(w, r)
		return
	}

	if l.cfg.Events != nil {
		l.cfg.Events.CallbackReceived()
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, failurePage)
		return
	}

	// Respond before the exchange so the user-visible page never blocks on
	// network calls to the provider.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, successPage)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	l.completeExchange(code)
}

// completeExchange performs the code exchange, persists the credential,
// fetches the identity and publishes it. Failures are logged and leave the
// coordinator untouched; the listener keeps running.
func (l *Listener) completeExchange(code string) {
	l.mu.Lock()
	base := l.ctx
	l.mu.Unlock()
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := context.WithTimeout(base, exchangeTimeout)
	defer cancel()

	exchangeStart := time.Now()
	tok, err := l.cfg.Flow.Exchange(ctx, code)
	if err != nil {
		l.cfg.Logger.Error("authorization code exchange failed", logging.Err(err))
		l.loginFailed("exchange")
		return
	}
	if l.cfg.Events != nil {
		l.cfg.Events.ExchangeCompleted(time.Since(exchangeStart))
	}

	if l.cfg.Store != nil {
		if err := l.cfg.Store.Save(NewCredential(tok)); err != nil {
			l.cfg.Logger.Error("failed to persist credential", logging.Err(err))
			l.loginFailed("persist")
			return
		}
	}

	id, err := l.cfg.Flow.FetchIdentity(ctx, tok)
	if err != nil {
		l.cfg.Logger.Error("identity lookup failed", logging.Err(err))
		l.loginFailed("identity")
		return
	}

	if l.cfg.Publisher != nil {
		l.cfg.Publisher.Publish(id)
	}
	if l.cfg.Events != nil {
		l.cfg.Events.LoginSucceeded(id.Email)
	}
	l.cfg.Logger.Info("login completed", logging.UserHash(id.Email))

	if l.cfg.SingleShot {
		l.doneOnce.Do(func() { close(l.done) })
		go l.stop()
	}
}

func (l *Listener) loginFailed(reason string) {
	if l.cfg.Events != nil {
		l.cfg.Events.LoginFailed(reason)
	}
}
