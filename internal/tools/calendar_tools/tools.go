package calendar_tools

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/calendar"
	"github.com/teemow/linkauth/internal/server"
)

// RegisterCalendarTools registers all Calendar-related tools with the MCP
// server.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterEventTools(s, sc); err != nil {
		return fmt.Errorf("failed to register event tools: %w", err)
	}
	if err := RegisterCalendarListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar list tools: %w", err)
	}
	if err := RegisterCalendarManagementTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar management tools: %w", err)
	}
	if err := RegisterACLTools(s, sc); err != nil {
		return fmt.Errorf("failed to register ACL tools: %w", err)
	}
	if err := RegisterQueryTools(s, sc); err != nil {
		return fmt.Errorf("failed to register query tools: %w", err)
	}
	return nil
}

// getCalendarClient returns the Calendar client, or an error result when
// calendar serving is not configured.
func getCalendarClient(sc *server.ServerContext) (*calendar.Client, *mcp.CallToolResult) {
	client := sc.CalendarClient()
	if client == nil {
		return nil, mcp.NewToolResultError("Calendar serving is not configured on this server")
	}
	return client, nil
}

// errorResult converts a client error into a tool result. A missing
// credential becomes the sign-in prompt rather than an error, so the
// calling agent relays the login link instead of giving up.
func errorResult(err error) *mcp.CallToolResult {
	var authErr *auth.RequiresAuthError
	if errors.As(err, &authErr) {
		return mcp.NewToolResultText(auth.LoginPrompt(authErr.LoginURL))
	}
	return mcp.NewToolResultError(err.Error())
}

// getString returns the named string argument, or def when absent or empty.
func getString(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// getBool returns the named boolean argument, defaulting to false.
func getBool(args map[string]interface{}, key string) bool {
	v, _ := args[key].(bool)
	return v
}

// getInt returns the named numeric argument, or def when absent. JSON
// numbers arrive as float64.
func getInt(args map[string]interface{}, key string, def int64) int64 {
	if v, ok := args[key].(float64); ok {
		return int64(v)
	}
	return def
}
