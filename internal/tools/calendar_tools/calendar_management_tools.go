package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/common"
)

// RegisterCalendarManagementTools registers tools that operate on calendars
// themselves rather than their events.
func RegisterCalendarManagementTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getTool := mcp.NewTool("calendar_get_calendar",
		mcp.WithDescription("Get metadata of a calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("calendar_get_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetCalendar(ctx, request, sc)
		}))

	createTool := mcp.NewTool("calendar_create_calendar",
		mcp.WithDescription("Create a secondary calendar"),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Title of the calendar"),
		),
		mcp.WithString("description",
			mcp.Description("Description of the calendar"),
		),
		mcp.WithString("location",
			mcp.Description("Geographic location of the calendar"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone of the calendar (e.g. 'Europe/Berlin')"),
		),
	)
	s.AddTool(createTool, common.InstrumentedToolHandler("calendar_create_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateCalendar(ctx, request, sc)
		}))

	patchTool := mcp.NewTool("calendar_patch_calendar",
		mcp.WithDescription("Partially update calendar metadata; only the provided fields change"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New title of the calendar"),
		),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("location",
			mcp.Description("New geographic location"),
		),
		mcp.WithString("timeZone",
			mcp.Description("New time zone"),
		),
	)
	s.AddTool(patchTool, common.InstrumentedToolHandler("calendar_patch_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePatchCalendar(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("calendar_update_calendar",
		mcp.WithDescription("Replace calendar metadata; unspecified fields are cleared"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID to update"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Title of the calendar"),
		),
		mcp.WithString("description",
			mcp.Description("Description of the calendar"),
		),
		mcp.WithString("location",
			mcp.Description("Geographic location"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("calendar_update_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateCalendar(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("calendar_delete_calendar",
		mcp.WithDescription("Delete a secondary calendar"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID to delete (the primary calendar cannot be deleted)"),
		),
	)
	s.AddTool(deleteTool, common.InstrumentedToolHandler("calendar_delete_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteCalendar(ctx, request, sc)
		}))

	clearTool := mcp.NewTool("calendar_clear_calendar",
		mcp.WithDescription("Remove all events from the user's primary calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (only 'primary' is supported by the API)"),
		),
	)
	s.AddTool(clearTool, common.InstrumentedToolHandler("calendar_clear_calendar", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleClearCalendar(ctx, request, sc)
		}))

	return nil
}

func calendarFromArgs(args map[string]interface{}) *calendarapi.Calendar {
	return &calendarapi.Calendar{
		Summary:     getString(args, "summary", ""),
		Description: getString(args, "description", ""),
		Location:    getString(args, "location", ""),
		TimeZone:    getString(args, "timeZone", ""),
	}
}

func handleGetCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	cal, err := client.GetCalendar(ctx, getString(args, "calendarId", "primary"))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(cal)
}

func handleCreateCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	if getString(args, "summary", "") == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	created, err := client.InsertCalendar(ctx, calendarFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(created)
}

func handlePatchCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	patched, err := client.PatchCalendar(ctx, calendarID, calendarFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(patched)
}

func handleUpdateCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}
	if getString(args, "summary", "") == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	updated, err := client.UpdateCalendar(ctx, calendarID, calendarFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(updated)
}

func handleDeleteCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	if err := client.DeleteCalendar(ctx, calendarID); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Calendar deleted: " + calendarID), nil
}

func handleClearCalendar(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "primary")
	if err := client.ClearCalendar(ctx, calendarID); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Calendar cleared: " + calendarID), nil
}
