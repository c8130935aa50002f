package calendar_tools

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/server"
)

type staticLinks struct{}

func (staticLinks) AuthURL() string { return "https://accounts.example/auth" }

func newTestServerContext() *server.ServerContext {
	coordinator := auth.NewCoordinator(auth.PolicyPersistent, staticLinks{}, nil)
	return server.NewServerContext(context.Background(), coordinator)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}

func TestRegisterCalendarTools(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	if err := RegisterCalendarTools(s, newTestServerContext()); err != nil {
		t.Fatalf("RegisterCalendarTools() error = %v", err)
	}
}

func TestGetString(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		key      string
		def      string
		expected string
	}{
		{
			name:     "missing key uses default",
			args:     map[string]interface{}{},
			key:      "calendarId",
			def:      "primary",
			expected: "primary",
		},
		{
			name:     "empty value uses default",
			args:     map[string]interface{}{"calendarId": ""},
			key:      "calendarId",
			def:      "primary",
			expected: "primary",
		},
		{
			name:     "value wins",
			args:     map[string]interface{}{"calendarId": "team"},
			key:      "calendarId",
			def:      "primary",
			expected: "team",
		},
		{
			name:     "wrong type uses default",
			args:     map[string]interface{}{"calendarId": 7},
			key:      "calendarId",
			def:      "primary",
			expected: "primary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getString(tt.args, tt.key, tt.def); got != tt.expected {
				t.Errorf("getString() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	// JSON numbers arrive as float64.
	if got := getInt(map[string]interface{}{"maxResults": float64(25)}, "maxResults", 10); got != 25 {
		t.Errorf("getInt() = %v, expected 25", got)
	}
	if got := getInt(map[string]interface{}{}, "maxResults", 10); got != 10 {
		t.Errorf("getInt() = %v, expected default 10", got)
	}
}

func TestErrorResultMapsAuthError(t *testing.T) {
	result := errorResult(&auth.RequiresAuthError{LoginURL: "https://accounts.example/auth?n=1"})

	if result.IsError {
		t.Error("auth prompt must not be an error result")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "https://accounts.example/auth?n=1") {
		t.Errorf("prompt does not carry the login URL: %q", text)
	}
	if !strings.Contains(text, "Authentication Required") {
		t.Errorf("prompt missing sign-in instructions: %q", text)
	}
}

func TestErrorResultPlainError(t *testing.T) {
	result := errorResult(context.DeadlineExceeded)
	if !result.IsError {
		t.Error("plain errors must produce an error result")
	}
}

func TestHandlersWithoutCalendarClient(t *testing.T) {
	sc := newTestServerContext()

	result, err := handleGetColors(context.Background(), mcp.CallToolRequest{}, sc)
	if err != nil {
		t.Fatalf("handleGetColors() error = %v", err)
	}
	if !result.IsError {
		t.Error("expected an error result when calendar serving is not configured")
	}
}

func TestEventFromArgs(t *testing.T) {
	event := eventFromArgs(map[string]interface{}{
		"summary":   "Standup",
		"start":     "2026-09-01T09:00:00Z",
		"end":       "2026-09-01T09:15:00Z",
		"timeZone":  "Europe/Berlin",
		"attendees": "ana@example.com, jonas@example.com",
	})

	if event.Summary != "Standup" {
		t.Errorf("Summary = %q", event.Summary)
	}
	if event.Start == nil || event.Start.DateTime != "2026-09-01T09:00:00Z" {
		t.Errorf("Start = %+v", event.Start)
	}
	if event.Start.TimeZone != "Europe/Berlin" {
		t.Errorf("TimeZone = %q", event.Start.TimeZone)
	}
	if len(event.Attendees) != 2 {
		t.Fatalf("Attendees = %d, expected 2", len(event.Attendees))
	}
	if event.Attendees[1].Email != "jonas@example.com" {
		t.Errorf("second attendee = %q", event.Attendees[1].Email)
	}
}

func TestEventFromArgsAllDay(t *testing.T) {
	event := eventFromArgs(map[string]interface{}{
		"summary": "Offsite",
		"start":   "2026-09-01",
		"end":     "2026-09-02",
		"allDay":  true,
	})

	if event.Start == nil || event.Start.Date != "2026-09-01" {
		t.Errorf("Start = %+v", event.Start)
	}
	if event.Start.DateTime != "" {
		t.Error("all-day events must not carry a DateTime")
	}
}
