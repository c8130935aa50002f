package directory_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/directory"
	"github.com/teemow/linkauth/internal/google"
	"github.com/teemow/linkauth/internal/server"
)

type staticLinks struct{}

func (staticLinks) AuthURL() string { return "https://accounts.example/auth" }

func newTestContext(t *testing.T, policy auth.Policy) (*server.ServerContext, *auth.Coordinator) {
	t.Helper()
	coordinator := auth.NewCoordinator(policy, staticLinks{}, nil)
	sc := server.NewServerContext(context.Background(), coordinator)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]directory.Employee{
			{ID: "e1", Name: "Ana Weber", Role: "Engineer", Email: "ana@example.com"},
		})
	}))
	t.Cleanup(ts.Close)
	sc.SetDirectoryClient(directory.NewClient(ts.URL))

	return sc, coordinator
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

func TestRegisterDirectoryTools(t *testing.T) {
	sc, _ := newTestContext(t, auth.PolicyConsumeOnce)
	s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	if err := RegisterDirectoryTools(s, sc); err != nil {
		t.Fatalf("RegisterDirectoryTools() error = %v", err)
	}
}

func TestUnauthenticatedCallReturnsLoginPrompt(t *testing.T) {
	sc, _ := newTestContext(t, auth.PolicyConsumeOnce)

	result, err := handleListEmployees(context.Background(), mcp.CallToolRequest{}, sc)
	if err != nil {
		t.Fatalf("handleListEmployees() error = %v", err)
	}
	if result.IsError {
		t.Error("login prompt must not be an error result")
	}
	text := resultText(t, result)
	if !strings.Contains(text, "https://accounts.example/auth") {
		t.Errorf("prompt missing login URL: %q", text)
	}
}

func TestConsumeOnceAuthorizesExactlyOneCall(t *testing.T) {
	sc, coordinator := newTestContext(t, auth.PolicyConsumeOnce)
	coordinator.Publish(&google.Identity{Email: "dev@example.com", Name: "Dev"})

	first, err := handleListEmployees(context.Background(), mcp.CallToolRequest{}, sc)
	if err != nil {
		t.Fatalf("first call error = %v", err)
	}
	text := resultText(t, first)
	if !strings.Contains(text, "(Authenticated as Dev <dev@example.com>)") {
		t.Errorf("authenticated call missing identity prefix: %q", text)
	}
	if !strings.Contains(text, "Ana Weber") {
		t.Errorf("authenticated call missing directory data: %q", text)
	}

	// The login was consumed; the second call gets a prompt again.
	second, err := handleListEmployees(context.Background(), mcp.CallToolRequest{}, sc)
	if err != nil {
		t.Fatalf("second call error = %v", err)
	}
	if !strings.Contains(resultText(t, second), "https://accounts.example/auth") {
		t.Error("second call should require a fresh login")
	}
}

func TestPersistentPolicyKeepsIdentity(t *testing.T) {
	sc, coordinator := newTestContext(t, auth.PolicyPersistent)
	coordinator.Publish(&google.Identity{Email: "dev@example.com", Name: "Dev"})

	for i := 0; i < 3; i++ {
		result, err := handleListEmployees(context.Background(), mcp.CallToolRequest{}, sc)
		if err != nil {
			t.Fatalf("call %d error = %v", i, err)
		}
		if !strings.Contains(resultText(t, result), "(Authenticated as Dev <dev@example.com>)") {
			t.Errorf("call %d lost the identity", i)
		}
	}
}

func TestMissingIDArgument(t *testing.T) {
	sc, coordinator := newTestContext(t, auth.PolicyPersistent)
	coordinator.Publish(&google.Identity{Email: "dev@example.com", Name: "Dev"})

	result, err := handleDeleteEmployee(context.Background(), mcp.CallToolRequest{}, sc)
	if err != nil {
		t.Fatalf("handleDeleteEmployee() error = %v", err)
	}
	if !result.IsError {
		t.Error("missing id must produce an error result")
	}
}
