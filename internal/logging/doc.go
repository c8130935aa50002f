// Package logging provides slog helpers for consistent attribute naming
// across the codebase. The server logs to stderr so stdout stays free for
// the stdio MCP transport.
package logging
