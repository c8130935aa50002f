package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teemow/linkauth/internal/directory"
	"github.com/teemow/linkauth/internal/logging"
)

func newDirectoryCmd() *cobra.Command {
	var (
		debug  bool
		dbPath string
		addr   string
	)

	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Run the employee directory REST API",
		Long: `Run the employee directory demo service as a standalone process.

The API serves GET/POST /employees and PUT/DELETE /employees/{id} backed
by a SQLite database. 'linkauth serve' talks to it over HTTP; the MCP
tools in front of it enforce the sign-in gate.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirectory(debug, dbPath, addr)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&dbPath, "db", "directory.db", "SQLite database path")
	cmd.Flags().StringVar(&addr, "addr", directory.DefaultAddr, "Listen address")

	return cmd
}

func runDirectory(debug bool, dbPath, addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := logging.NewLogger(debug)

	store, err := directory.OpenStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := directory.NewServer(directory.ServerConfig{
		Store:  store,
		Addr:   addr,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
