package calendar_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/common"
)

// RegisterQueryTools registers the read-only colors, free/busy and settings
// tools.
func RegisterQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	colorsTool := mcp.NewTool("calendar_get_colors",
		mcp.WithDescription("Get the color definitions for calendars and events"),
	)
	s.AddTool(colorsTool, common.InstrumentedToolHandler("calendar_get_colors", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetColors(ctx, request, sc)
		}))

	freeBusyTool := mcp.NewTool("calendar_query_freebusy",
		mcp.WithDescription("Query free/busy information for a set of calendars"),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the interval (RFC3339)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the interval (RFC3339)"),
		),
		mcp.WithString("calendarIds",
			mcp.Description("Comma-separated calendar IDs to query (default: 'primary')"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone used in the response"),
		),
	)
	s.AddTool(freeBusyTool, common.InstrumentedToolHandler("calendar_query_freebusy", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQueryFreeBusy(ctx, request, sc)
		}))

	listSettingsTool := mcp.NewTool("calendar_list_settings",
		mcp.WithDescription("List the user's calendar settings"),
	)
	s.AddTool(listSettingsTool, common.InstrumentedToolHandler("calendar_list_settings", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListSettings(ctx, request, sc)
		}))

	getSettingTool := mcp.NewTool("calendar_get_setting",
		mcp.WithDescription("Get a single user setting"),
		mcp.WithString("settingId",
			mcp.Required(),
			mcp.Description("ID of the setting, e.g. 'timezone'"),
		),
	)
	s.AddTool(getSettingTool, common.InstrumentedToolHandler("calendar_get_setting", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetSetting(ctx, request, sc)
		}))

	return nil
}

func handleGetColors(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}

	colors, err := client.GetColors(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(colors)
}

func handleQueryFreeBusy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	timeMin := getString(args, "timeMin", "")
	if timeMin == "" {
		return mcp.NewToolResultError("timeMin is required"), nil
	}
	timeMax := getString(args, "timeMax", "")
	if timeMax == "" {
		return mcp.NewToolResultError("timeMax is required"), nil
	}

	req := &calendarapi.FreeBusyRequest{
		TimeMin:  timeMin,
		TimeMax:  timeMax,
		TimeZone: getString(args, "timeZone", ""),
	}
	for _, id := range strings.Split(getString(args, "calendarIds", "primary"), ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		req.Items = append(req.Items, &calendarapi.FreeBusyRequestItem{Id: id})
	}

	resp, err := client.QueryFreeBusy(ctx, req)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(resp)
}

func handleListSettings(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}

	settings, err := client.ListSettings(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(settings)
}

func handleGetSetting(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	settingID := getString(args, "settingId", "")
	if settingID == "" {
		return mcp.NewToolResultError("settingId is required"), nil
	}

	setting, err := client.GetSetting(ctx, settingID)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(setting)
}
