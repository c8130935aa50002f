package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/calendar"
	"github.com/teemow/linkauth/internal/directory"
	"github.com/teemow/linkauth/internal/google"
	"github.com/teemow/linkauth/internal/instrumentation"
	"github.com/teemow/linkauth/internal/logging"
	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/calendar_tools"
	"github.com/teemow/linkauth/internal/tools/directory_tools"
)

// ServeConfig holds the settings for the serve command.
type ServeConfig struct {
	Debug           bool
	AuthPolicy      string
	RequireListener bool

	CredentialsFile string
	TokenFile       string
	KeyFile         string

	// DirectoryDB enables the in-process employee directory API when set.
	DirectoryDB string
	// DirectoryURL is the directory API address the tools talk to.
	DirectoryURL string

	MetricsAddr string
}

func newServeCmd() *cobra.Command {
	var cfg ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server over stdio.

The server exposes Google Calendar tools and the employee directory demo.
Access is gated by a link-based Google sign-in: a tool call without a
valid credential returns a login URL; completing the login in a browser
lands on the local callback listener (port 3000), which finishes the code
exchange in the background and stores the credential encrypted at rest.

Auth Policy:
  persistent    (default) a completed login stays valid for the life of
                the process; new logins replace the previous identity
  consume-once  each completed login authorizes exactly one directory
                tool call; the next call hands out a fresh login link

The callback listener failing to bind (typically another linkauth
instance holding port 3000) is logged and tolerated by default; tokens
already on disk keep working. Use --require-listener to treat it as
fatal instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.CredentialsFile == "" {
				cfg.CredentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cfg.AuthPolicy, "auth-policy", string(auth.PolicyPersistent), "Identity consumption policy: consume-once or persistent")
	cmd.Flags().BoolVar(&cfg.RequireListener, "require-listener", false, "Exit if the OAuth callback listener cannot bind its port instead of degrading")
	cmd.Flags().StringVar(&cfg.CredentialsFile, "credentials", "credentials.json", "Path to the Google OAuth client credentials file. Can also use GOOGLE_CREDENTIALS_FILE env var.")
	cmd.Flags().StringVar(&cfg.TokenFile, "token-file", "token.json", "Path to the encrypted token file")
	cmd.Flags().StringVar(&cfg.KeyFile, "key-file", "token.key", "Path to the token encryption key file (created on first use)")
	cmd.Flags().StringVar(&cfg.DirectoryDB, "directory-db", "", "SQLite database path for the in-process employee directory API; empty leaves the API to a separate 'linkauth directory' process")
	cmd.Flags().StringVar(&cfg.DirectoryURL, "directory-url", "http://"+directory.DefaultAddr, "Base URL of the employee directory API used by the directory tools")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Address for the Prometheus metrics endpoint (e.g. ':9090'); empty disables it")

	return cmd
}

func runServe(cfg ServeConfig) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewLogger(cfg.Debug)
	slog.SetDefault(logger)

	policy, err := auth.ParsePolicy(cfg.AuthPolicy)
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	if cfg.MetricsAddr != "" && provider.Enabled() {
		startMetricsServer(shutdownCtx, cfg.MetricsAddr, provider, logger)
	}

	cipher, err := auth.NewCipher(cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("failed to initialize credential cipher: %w", err)
	}
	store := auth.NewStore(cfg.TokenFile, cipher, logger)

	flow, err := google.NewFlowFromFile(cfg.CredentialsFile, google.CalendarScopes)
	if err != nil {
		if errors.Is(err, google.ErrMissingCredentialsConfig) {
			return fmt.Errorf("%w\n\nDownload an OAuth client of type \"Desktop app\" from the Google Cloud console and save it as %s", err, cfg.CredentialsFile)
		}
		return err
	}

	coordinator := auth.NewCoordinator(policy, flow, logger)

	var events auth.Events
	if provider.Enabled() {
		events = provider.Metrics()
	}

	listener, err := auth.NewListener(auth.ListenerConfig{
		Flow:      flow,
		Store:     store,
		Publisher: coordinator,
		Logger:    logger,
		Events:    events,
	})
	if err != nil {
		return err
	}

	if result := listener.Start(shutdownCtx); !result.Started {
		if cfg.RequireListener {
			return result.Err
		}
		logger.Warn("continuing without callback listener; new sign-ins will not complete until the port is free",
			logging.Err(result.Err))
	}

	serverContext := server.NewServerContext(shutdownCtx, coordinator)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
	}

	serverContext.SetCalendarClient(calendar.NewClient(flow, store))

	if cfg.DirectoryDB != "" {
		dirStore, err := directory.OpenStore(shutdownCtx, cfg.DirectoryDB)
		if err != nil {
			return err
		}
		defer dirStore.Close()

		dirServer, err := directory.NewServer(directory.ServerConfig{
			Store:    dirStore,
			Logger:   logger,
			Recorder: serverContext.Metrics(),
		})
		if err != nil {
			return err
		}
		// A busy port usually means another instance already serves the
		// directory API; the tools talk to it over HTTP either way.
		if err := dirServer.Start(shutdownCtx); err != nil {
			logger.Warn("using externally served directory API", slog.String("url", cfg.DirectoryURL))
		}
	}
	serverContext.SetDirectoryClient(directory.NewClient(cfg.DirectoryURL))

	mcpSrv := mcpserver.NewMCPServer("linkauth", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	logger.Info("starting MCP server",
		slog.String("transport", "stdio"),
		slog.String("auth_policy", string(policy)))

	return runStdioServer(mcpSrv)
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools.
func registerAllTools(mcpSrv *mcpserver.MCPServer, ctx *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Calendar",
			register: func() error {
				return calendar_tools.RegisterCalendarTools(mcpSrv, ctx)
			},
		},
		{
			name: "Directory",
			register: func() error {
				return directory_tools.RegisterDirectoryTools(mcpSrv, ctx)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

// startMetricsServer serves the Prometheus endpoint on its own port until
// ctx is cancelled. Failures are logged, never fatal; metrics are an
// observability aid, not a serving dependency.
func startMetricsServer(ctx context.Context, addr string, provider *instrumentation.Provider, logger *slog.Logger) {
	handler := provider.PrometheusHandler()
	if handler == nil {
		logger.Warn("metrics endpoint requested but the Prometheus exporter is not configured; set METRICS_EXPORTER=prometheus")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("metrics endpoint started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint stopped", logging.Err(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
