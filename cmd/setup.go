package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/google"
	"github.com/teemow/linkauth/internal/logging"
)

func newSetupCmd() *cobra.Command {
	var (
		debug           bool
		credentialsFile string
		tokenFile       string
		keyFile         string
	)

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Run the one-time interactive Google sign-in",
		Long: `Run the Google sign-in once and store the resulting credential
encrypted on disk, so 'linkauth serve' can use it without further
interaction.

The command prints (and tries to open) the consent URL, waits for the
browser redirect on the local callback listener, exchanges the code and
exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if credentialsFile == "" {
				credentialsFile = os.Getenv("GOOGLE_CREDENTIALS_FILE")
			}
			return runSetup(debug, credentialsFile, tokenFile, keyFile)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&credentialsFile, "credentials", "credentials.json", "Path to the Google OAuth client credentials file. Can also use GOOGLE_CREDENTIALS_FILE env var.")
	cmd.Flags().StringVar(&tokenFile, "token-file", "token.json", "Path to the encrypted token file")
	cmd.Flags().StringVar(&keyFile, "key-file", "token.key", "Path to the token encryption key file (created on first use)")

	return cmd
}

func runSetup(debug bool, credentialsFile, tokenFile, keyFile string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewLogger(debug)

	cipher, err := auth.NewCipher(keyFile)
	if err != nil {
		return fmt.Errorf("failed to initialize credential cipher: %w", err)
	}
	store := auth.NewStore(tokenFile, cipher, logger)

	flow, err := google.NewFlowFromFile(credentialsFile, google.CalendarScopes)
	if err != nil {
		return err
	}

	listener, err := auth.NewListener(auth.ListenerConfig{
		Flow:       flow,
		Store:      store,
		SingleShot: true,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	if result := listener.Start(ctx); !result.Started {
		return fmt.Errorf("cannot wait for the sign-in redirect: %w", result.Err)
	}

	authURL := flow.AuthURL()
	fmt.Println("Open this URL in your browser to sign in with Google:")
	fmt.Println()
	fmt.Println("  " + authURL)
	fmt.Println()
	if err := openBrowser(authURL); err == nil {
		fmt.Println("(opened in your default browser)")
	}
	fmt.Println("Waiting for the sign-in to complete...")

	select {
	case <-listener.Done():
		fmt.Printf("Done. Credential stored in %s.\n", tokenFile)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("setup aborted before the sign-in completed")
	}
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
