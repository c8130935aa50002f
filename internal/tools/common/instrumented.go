package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/linkauth/internal/instrumentation"
	"github.com/teemow/linkauth/internal/logging"
	"github.com/teemow/linkauth/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with invocation metrics.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
		}
		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		slog.Debug("tool call completed",
			logging.Tool(toolName),
			logging.Status(status),
			slog.Duration("duration", duration))

		return result, err
	}
}
