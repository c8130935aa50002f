package calendar_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/teemow/linkauth/internal/calendar"
	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/common"
)

// RegisterCalendarListTools registers tools for the user's calendar list.
func RegisterCalendarListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listTool := mcp.NewTool("calendar_list_calendars",
		mcp.WithDescription("List the calendars on the user's calendar list"),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of entries to return"),
		),
		mcp.WithString("minAccessRole",
			mcp.Description("Minimum access role: 'freeBusyReader', 'reader', 'writer' or 'owner'"),
		),
		mcp.WithBoolean("showDeleted",
			mcp.Description("Include deleted calendar list entries"),
		),
		mcp.WithBoolean("showHidden",
			mcp.Description("Include hidden entries"),
		),
	)
	s.AddTool(listTool, common.InstrumentedToolHandler("calendar_list_calendars", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	getTool := mcp.NewTool("calendar_get_calendar_list_entry",
		mcp.WithDescription("Get a single entry from the user's calendar list"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID of the entry"),
		),
	)
	s.AddTool(getTool, common.InstrumentedToolHandler("calendar_get_calendar_list_entry", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetCalendarListEntry(ctx, request, sc)
		}))

	addTool := mcp.NewTool("calendar_add_calendar_list_entry",
		mcp.WithDescription("Add an existing calendar to the user's calendar list"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("ID of the calendar to add"),
		),
		mcp.WithString("colorId",
			mcp.Description("Color of the calendar in the UI"),
		),
		mcp.WithBoolean("hidden",
			mcp.Description("Hide the calendar from the list"),
		),
		mcp.WithBoolean("selected",
			mcp.Description("Show the calendar's events in the UI"),
		),
	)
	s.AddTool(addTool, common.InstrumentedToolHandler("calendar_add_calendar_list_entry", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddCalendarListEntry(ctx, request, sc)
		}))

	patchTool := mcp.NewTool("calendar_patch_calendar_list_entry",
		mcp.WithDescription("Partially update a calendar list entry; only the provided fields change"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID of the entry"),
		),
		mcp.WithString("colorId",
			mcp.Description("New color of the calendar in the UI"),
		),
		mcp.WithBoolean("hidden",
			mcp.Description("Hide the calendar from the list"),
		),
		mcp.WithBoolean("selected",
			mcp.Description("Show the calendar's events in the UI"),
		),
	)
	s.AddTool(patchTool, common.InstrumentedToolHandler("calendar_patch_calendar_list_entry", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePatchCalendarListEntry(ctx, request, sc)
		}))

	updateTool := mcp.NewTool("calendar_update_calendar_list_entry",
		mcp.WithDescription("Replace a calendar list entry; unspecified fields are cleared"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID of the entry"),
		),
		mcp.WithString("colorId",
			mcp.Description("Color of the calendar in the UI"),
		),
		mcp.WithBoolean("hidden",
			mcp.Description("Hide the calendar from the list"),
		),
		mcp.WithBoolean("selected",
			mcp.Description("Show the calendar's events in the UI"),
		),
	)
	s.AddTool(updateTool, common.InstrumentedToolHandler("calendar_update_calendar_list_entry", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateCalendarListEntry(ctx, request, sc)
		}))

	removeTool := mcp.NewTool("calendar_remove_calendar_list_entry",
		mcp.WithDescription("Remove a calendar from the user's calendar list (does not delete the calendar)"),
		mcp.WithString("calendarId",
			mcp.Required(),
			mcp.Description("Calendar ID of the entry to remove"),
		),
	)
	s.AddTool(removeTool, common.InstrumentedToolHandler("calendar_remove_calendar_list_entry", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleRemoveCalendarListEntry(ctx, request, sc)
		}))

	return nil
}

func calendarListEntryFromArgs(args map[string]interface{}) *calendarapi.CalendarListEntry {
	return &calendarapi.CalendarListEntry{
		Id:       getString(args, "calendarId", ""),
		ColorId:  getString(args, "colorId", ""),
		Hidden:   getBool(args, "hidden"),
		Selected: getBool(args, "selected"),
	}
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	list, err := client.ListCalendarList(ctx, calendar.ListCalendarListParams{
		MaxResults:    getInt(args, "maxResults", 0),
		MinAccessRole: getString(args, "minAccessRole", ""),
		ShowDeleted:   getBool(args, "showDeleted"),
		ShowHidden:    getBool(args, "showHidden"),
	})
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(list)
}

func handleGetCalendarListEntry(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	entry, err := client.GetCalendarListEntry(ctx, calendarID)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(entry)
}

func handleAddCalendarListEntry(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	if getString(args, "calendarId", "") == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	inserted, err := client.InsertCalendarListEntry(ctx, calendarListEntryFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(inserted)
}

func handlePatchCalendarListEntry(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	entry := calendarListEntryFromArgs(args)
	entry.Id = ""

	patched, err := client.PatchCalendarListEntry(ctx, calendarID, entry)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(patched)
}

func handleUpdateCalendarListEntry(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	entry := calendarListEntryFromArgs(args)
	entry.Id = ""

	updated, err := client.UpdateCalendarListEntry(ctx, calendarID, entry)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(updated)
}

func handleRemoveCalendarListEntry(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	calendarID := getString(args, "calendarId", "")
	if calendarID == "" {
		return mcp.NewToolResultError("calendarId is required"), nil
	}

	if err := client.DeleteCalendarListEntry(ctx, calendarID); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Calendar removed from list: " + calendarID), nil
}
