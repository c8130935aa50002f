package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the linkauth application
var rootCmd = &cobra.Command{
	Use:   "linkauth",
	Short: "MCP server with link-based Google sign-in",
	Long: `linkauth is an MCP (Model Context Protocol) server that puts Google
Calendar and an employee-directory demo behind a delegated Google OAuth2
login flow.

When a tool call arrives without a valid credential, the tool returns a
sign-in link instead of failing. Completing the login in a browser hands
the credential back through a local callback listener and the next call
proceeds.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "linkauth version %s\n" .Version}}`)

	// If no subcommand is provided, run the MCP server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newDirectoryCmd())
	rootCmd.AddCommand(newVersionCmd())
}
