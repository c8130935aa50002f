// Package directory_tools exposes the employee directory through MCP
// tools. Every invocation is gated on the auth state coordinator; under
// the consume-once policy each sign-in authorizes exactly one call.
package directory_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/directory"
	"github.com/teemow/linkauth/internal/google"
	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/common"
)

// RegisterDirectoryTools registers the employee directory tools with the
// MCP server.
func RegisterDirectoryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("list_employees",
		mcp.WithDescription("List all employees in the company directory"),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("list_employees", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEmployees(ctx, request, sc)
		}))

	addTool := mcp.NewTool("add_employee",
		mcp.WithDescription("Add a new employee to the company directory"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Full name of the employee"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Job title or role"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Work email address"),
		),
		mcp.WithString("phone",
			mcp.Description("Phone number"),
		),
		mcp.WithString("department",
			mcp.Description("Department name"),
		),
	)
	s.AddTool(addTool, common.InstrumentedToolHandler("add_employee", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddEmployee(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("update_employee",
		mcp.WithDescription("Update an existing employee in the company directory"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the employee to update"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Full name of the employee"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Job title or role"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Work email address"),
		),
		mcp.WithString("phone",
			mcp.Description("Phone number"),
		),
		mcp.WithString("department",
			mcp.Description("Department name"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("update_employee", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEmployee(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("delete_employee",
		mcp.WithDescription("Delete an employee from the company directory"),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("ID of the employee to delete"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("delete_employee", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEmployee(ctx, request, sc)
		}))

	return nil
}

// checkAuth consults the coordinator. When the caller is not
// authenticated the returned result carries the sign-in prompt and the
// identity is nil.
func checkAuth(sc *server.ServerContext) (*google.Identity, *mcp.CallToolResult) {
	status := sc.Coordinator().Check()
	if !status.Authenticated {
		return nil, mcp.NewToolResultText(auth.LoginPrompt(status.LoginURL))
	}
	return status.Identity, nil
}

func getDirectoryClient(sc *server.ServerContext) (*directory.Client, *mcp.CallToolResult) {
	client := sc.DirectoryClient()
	if client == nil {
		return nil, mcp.NewToolResultError("Directory serving is not configured on this server")
	}
	return client, nil
}

// authedResult renders v as JSON, prefixed with the identity that
// authorized the call.
func authedResult(id *google.Identity, v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("(Authenticated as %s <%s>)\n\n%s", id.Name, id.Email, data)), nil
}

func inputFromArgs(args map[string]interface{}) directory.EmployeeInput {
	str := func(key string) string {
		v, _ := args[key].(string)
		return v
	}
	return directory.EmployeeInput{
		Name:       str("name"),
		Role:       str("role"),
		Email:      str("email"),
		Phone:      str("phone"),
		Department: str("department"),
	}
}

func handleListEmployees(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, prompt := checkAuth(sc)
	if prompt != nil {
		return prompt, nil
	}
	client, errRes := getDirectoryClient(sc)
	if errRes != nil {
		return errRes, nil
	}

	employees, err := client.ListEmployees(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return authedResult(id, employees)
}

func handleAddEmployee(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, prompt := checkAuth(sc)
	if prompt != nil {
		return prompt, nil
	}
	client, errRes := getDirectoryClient(sc)
	if errRes != nil {
		return errRes, nil
	}

	emp, err := client.AddEmployee(ctx, inputFromArgs(request.GetArguments()))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return authedResult(id, emp)
}

func handleUpdateEmployee(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, prompt := checkAuth(sc)
	if prompt != nil {
		return prompt, nil
	}
	client, errRes := getDirectoryClient(sc)
	if errRes != nil {
		return errRes, nil
	}

	args := request.GetArguments()
	employeeID, _ := args["id"].(string)
	if employeeID == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	emp, err := client.UpdateEmployee(ctx, employeeID, inputFromArgs(args))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return authedResult(id, emp)
}

func handleDeleteEmployee(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	id, prompt := checkAuth(sc)
	if prompt != nil {
		return prompt, nil
	}
	client, errRes := getDirectoryClient(sc)
	if errRes != nil {
		return errRes, nil
	}

	args := request.GetArguments()
	employeeID, _ := args["id"].(string)
	if employeeID == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	res, err := client.DeleteEmployee(ctx, employeeID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return authedResult(id, res)
}
