package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/common"
)

// RegisterACLTools registers calendar access control tools.
func RegisterACLTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("calendar_list_acl",
		mcp.WithDescription("List the access control rules of a calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("calendar_list_acl", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListACL(ctx, request, sc)
		}))

	getTool := mcp.NewTool("calendar_get_acl_rule",
		mcp.WithDescription("Get a single access control rule"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("ruleId",
			mcp.Required(),
			mcp.Description("ID of the rule, e.g. 'user:someone@example.com'"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("calendar_get_acl_rule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetACLRule(ctx, request, sc)
		}))

	createTool := mcp.NewTool("calendar_create_acl_rule",
		mcp.WithDescription("Grant access to a calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Access role: 'none', 'freeBusyReader', 'reader', 'writer' or 'owner'"),
		),
		mcp.WithString("scopeType",
			mcp.Required(),
			mcp.Description("Scope type: 'default', 'user', 'group' or 'domain'"),
		),
		mcp.WithString("scopeValue",
			mcp.Description("Email address or domain the rule applies to (empty for 'default')"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("calendar_create_acl_rule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateACLRule(ctx, request, sc)
		}))

	patchTool := mcp.NewTool("calendar_patch_acl_rule",
		mcp.WithDescription("Partially update an access control rule"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("ruleId",
			mcp.Required(),
			mcp.Description("ID of the rule to update"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("New access role"),
		),
	)
	s.AddTool(patchTool, common.InstrumentedToolHandler("calendar_patch_acl_rule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePatchACLRule(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("calendar_update_acl_rule",
		mcp.WithDescription("Replace an access control rule"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("ruleId",
			mcp.Required(),
			mcp.Description("ID of the rule to replace"),
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("Access role"),
		),
		mcp.WithString("scopeType",
			mcp.Required(),
			mcp.Description("Scope type: 'default', 'user', 'group' or 'domain'"),
		),
		mcp.WithString("scopeValue",
			mcp.Description("Email address or domain the rule applies to"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("calendar_update_acl_rule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateACLRule(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("calendar_delete_acl_rule",
		mcp.WithDescription("Revoke access to a calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("ruleId",
			mcp.Required(),
			mcp.Description("ID of the rule to delete"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("calendar_delete_acl_rule", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteACLRule(ctx, request, sc)
		}))

	return nil
}

func handleListACL(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	acl, err := client.ListACL(ctx, getString(args, "calendarId", "primary"))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(acl)
}

func handleGetACLRule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	ruleID := getString(args, "ruleId", "")
	if ruleID == "" {
		return mcp.NewToolResultError("ruleId is required"), nil
	}

	rule, err := client.GetACLRule(ctx, getString(args, "calendarId", "primary"), ruleID)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(rule)
}

func handleCreateACLRule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	role := getString(args, "role", "")
	if role == "" {
		return mcp.NewToolResultError("role is required"), nil
	}
	scopeType := getString(args, "scopeType", "")
	if scopeType == "" {
		return mcp.NewToolResultError("scopeType is required"), nil
	}

	rule := &calendarapi.AclRule{
		Role: role,
		Scope: &calendarapi.AclRuleScope{
			Type:  scopeType,
			Value: getString(args, "scopeValue", ""),
		},
	}

	created, err := client.InsertACLRule(ctx, getString(args, "calendarId", "primary"), rule)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(created)
}

func handlePatchACLRule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	ruleID := getString(args, "ruleId", "")
	if ruleID == "" {
		return mcp.NewToolResultError("ruleId is required"), nil
	}
	role := getString(args, "role", "")
	if role == "" {
		return mcp.NewToolResultError("role is required"), nil
	}

	patched, err := client.PatchACLRule(ctx, getString(args, "calendarId", "primary"), ruleID, &calendarapi.AclRule{Role: role})
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(patched)
}

func handleUpdateACLRule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	ruleID := getString(args, "ruleId", "")
	if ruleID == "" {
		return mcp.NewToolResultError("ruleId is required"), nil
	}
	role := getString(args, "role", "")
	if role == "" {
		return mcp.NewToolResultError("role is required"), nil
	}
	scopeType := getString(args, "scopeType", "")
	if scopeType == "" {
		return mcp.NewToolResultError("scopeType is required"), nil
	}

	rule := &calendarapi.AclRule{
		Role: role,
		Scope: &calendarapi.AclRuleScope{
			Type:  scopeType,
			Value: getString(args, "scopeValue", ""),
		},
	}

	updated, err := client.UpdateACLRule(ctx, getString(args, "calendarId", "primary"), ruleID, rule)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(updated)
}

func handleDeleteACLRule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	ruleID := getString(args, "ruleId", "")
	if ruleID == "" {
		return mcp.NewToolResultError("ruleId is required"), nil
	}

	if err := client.DeleteACLRule(ctx, getString(args, "calendarId", "primary"), ruleID); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("ACL rule deleted: " + ruleID), nil
}
