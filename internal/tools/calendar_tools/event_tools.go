package calendar_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/teemow/linkauth/internal/calendar"
	"github.com/teemow/linkauth/internal/server"
	"github.com/teemow/linkauth/internal/tools/common"
)

// RegisterEventTools registers event-related tools with the MCP server.
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List/search calendar events within a time range"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("timeMin",
			mcp.Description("Start of the range (RFC3339, e.g. '2026-01-01T00:00:00Z'). Defaults to now."),
		),
		mcp.WithString("timeMax",
			mcp.Description("End of the range (RFC3339)"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search query to filter events"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
	)
	s.AddTool(listEventsTool, common.InstrumentedToolHandler("calendar_list_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	getEventTool := mcp.NewTool("calendar_get_event",
		mcp.WithDescription("Get details of a specific calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to retrieve"),
		),
	)
	s.AddTool(getEventTool, common.InstrumentedToolHandler("calendar_get_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvent(ctx, request, sc)
		}))

	createEventTool := mcp.NewTool("calendar_create_event",
		mcp.WithDescription("Create a new calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339, e.g. '2026-01-15T14:00:00Z'; date only for all-day events)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339; date only for all-day events)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone (e.g. 'Europe/Berlin')"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithString("recurrence",
			mcp.Description("Recurrence rule (e.g. 'RRULE:FREQ=WEEKLY;BYDAY=MO')"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create as all-day event (start/end are dates, e.g. '2026-01-15')"),
		),
	)
	s.AddTool(createEventTool, common.InstrumentedToolHandler("calendar_create_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	patchEventTool := mcp.NewTool("calendar_patch_event",
		mcp.WithDescription("Partially update an existing calendar event; only the provided fields change"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("start",
			mcp.Description("New start time (RFC3339)"),
		),
		mcp.WithString("end",
			mcp.Description("New end time (RFC3339)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone for start/end"),
		),
		mcp.WithString("attendees",
			mcp.Description("New comma-separated list of attendee email addresses"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Treat start/end as dates"),
		),
	)
	s.AddTool(patchEventTool, common.InstrumentedToolHandler("calendar_patch_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePatchEvent(ctx, request, sc)
		}))

	updateEventTool := mcp.NewTool("calendar_update_event",
		mcp.WithDescription("Replace an existing calendar event; unspecified fields are cleared"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to replace"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone for start/end"),
		),
		mcp.WithString("attendees",
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Treat start/end as dates"),
		),
	)
	s.AddTool(updateEventTool, common.InstrumentedToolHandler("calendar_update_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete a calendar event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
	)
	s.AddTool(deleteEventTool, common.InstrumentedToolHandler("calendar_delete_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	moveEventTool := mcp.NewTool("calendar_move_event",
		mcp.WithDescription("Move an event to another calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Source calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the event to move"),
		),
		mcp.WithString("destination",
			mcp.Required(),
			mcp.Description("Destination calendar ID"),
		),
	)
	s.AddTool(moveEventTool, common.InstrumentedToolHandler("calendar_move_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleMoveEvent(ctx, request, sc)
		}))

	quickAddTool := mcp.NewTool("calendar_quick_add_event",
		mcp.WithDescription("Create an event from a natural-language snippet, e.g. 'Lunch with Ana tomorrow at noon'"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The text describing the event"),
		),
	)
	s.AddTool(quickAddTool, common.InstrumentedToolHandler("calendar_quick_add_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleQuickAddEvent(ctx, request, sc)
		}))

	instancesTool := mcp.NewTool("calendar_event_instances",
		mcp.WithDescription("List instances of a recurring event"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("eventId",
			mcp.Required(),
			mcp.Description("The ID of the recurring event"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of instances to return"),
		),
	)
	s.AddTool(instancesTool, common.InstrumentedToolHandler("calendar_event_instances", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleEventInstances(ctx, request, sc)
		}))

	importEventTool := mcp.NewTool("calendar_import_event",
		mcp.WithDescription("Import an event (adds a private copy of an existing event to the calendar)"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("iCalUID",
			mcp.Required(),
			mcp.Description("The iCalendar UID of the event to import"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("End time (RFC3339)"),
		),
		mcp.WithString("timeZone",
			mcp.Description("Time zone for start/end"),
		),
	)
	s.AddTool(importEventTool, common.InstrumentedToolHandler("calendar_import_event", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleImportEvent(ctx, request, sc)
		}))

	watchEventsTool := mcp.NewTool("calendar_watch_events",
		mcp.WithDescription("Open a push notification channel for event changes on a calendar"),
		mcp.WithString("calendarId",
			mcp.Description("Calendar ID (use 'primary' for primary calendar)"),
		),
		mcp.WithString("channelId",
			mcp.Required(),
			mcp.Description("Unique channel ID chosen by the caller"),
		),
		mcp.WithString("address",
			mcp.Required(),
			mcp.Description("HTTPS address that receives the notifications"),
		),
		mcp.WithString("token",
			mcp.Description("Opaque token echoed back with each notification"),
		),
	)
	s.AddTool(watchEventsTool, common.InstrumentedToolHandler("calendar_watch_events", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleWatchEvents(ctx, request, sc)
		}))

	stopChannelTool := mcp.NewTool("calendar_stop_channel",
		mcp.WithDescription("Stop a previously opened notification channel"),
		mcp.WithString("channelId",
			mcp.Required(),
			mcp.Description("The channel ID passed to the watch call"),
		),
		mcp.WithString("resourceId",
			mcp.Required(),
			mcp.Description("The resource ID returned by the watch call"),
		),
	)
	s.AddTool(stopChannelTool, common.InstrumentedToolHandler("calendar_stop_channel", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleStopChannel(ctx, request, sc)
		}))

	return nil
}

// eventFromArgs assembles an event from the shared start/end/attendee
// arguments used by the create, update and patch tools.
func eventFromArgs(args map[string]interface{}) *calendarapi.Event {
	event := &calendarapi.Event{
		Summary:     getString(args, "summary", ""),
		Description: getString(args, "description", ""),
		Location:    getString(args, "location", ""),
	}

	timeZone := getString(args, "timeZone", "")
	allDay := getBool(args, "allDay")

	if start := getString(args, "start", ""); start != "" {
		event.Start = eventTime(start, timeZone, allDay)
	}
	if end := getString(args, "end", ""); end != "" {
		event.End = eventTime(end, timeZone, allDay)
	}

	if attendees := getString(args, "attendees", ""); attendees != "" {
		for _, email := range strings.Split(attendees, ",") {
			email = strings.TrimSpace(email)
			if email == "" {
				continue
			}
			event.Attendees = append(event.Attendees, &calendarapi.EventAttendee{Email: email})
		}
	}
	if rule := getString(args, "recurrence", ""); rule != "" {
		event.Recurrence = []string{rule}
	}

	return event
}

func eventTime(value, timeZone string, allDay bool) *calendarapi.EventDateTime {
	if allDay {
		return &calendarapi.EventDateTime{Date: value}
	}
	return &calendarapi.EventDateTime{DateTime: value, TimeZone: timeZone}
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	events, err := client.ListEvents(ctx, calendar.ListEventsParams{
		CalendarID:   getString(args, "calendarId", "primary"),
		TimeMin:      getString(args, "timeMin", ""),
		TimeMax:      getString(args, "timeMax", ""),
		Query:        getString(args, "query", ""),
		MaxResults:   getInt(args, "maxResults", 0),
		SingleEvents: true,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(events)
}

func handleGetEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	eventID := getString(args, "eventId", "")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	event, err := client.GetEvent(ctx, getString(args, "calendarId", "primary"), eventID)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(event)
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	if getString(args, "summary", "") == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	if getString(args, "start", "") == "" || getString(args, "end", "") == "" {
		return mcp.NewToolResultError("start and end are required"), nil
	}

	created, err := client.InsertEvent(ctx, getString(args, "calendarId", "primary"), eventFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(created)
}

func handlePatchEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	eventID := getString(args, "eventId", "")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	patched, err := client.PatchEvent(ctx, getString(args, "calendarId", "primary"), eventID, eventFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(patched)
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	eventID := getString(args, "eventId", "")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}
	if getString(args, "summary", "") == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	if getString(args, "start", "") == "" || getString(args, "end", "") == "" {
		return mcp.NewToolResultError("start and end are required"), nil
	}

	updated, err := client.UpdateEvent(ctx, getString(args, "calendarId", "primary"), eventID, eventFromArgs(args))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(updated)
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	eventID := getString(args, "eventId", "")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	if err := client.DeleteEvent(ctx, getString(args, "calendarId", "primary"), eventID); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Event deleted: " + eventID), nil
}

func handleMoveEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	eventID := getString(args, "eventId", "")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}
	destination := getString(args, "destination", "")
	if destination == "" {
		return mcp.NewToolResultError("destination is required"), nil
	}

	moved, err := client.MoveEvent(ctx, getString(args, "calendarId", "primary"), eventID, destination)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(moved)
}

func handleQuickAddEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	text := getString(args, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	event, err := client.QuickAddEvent(ctx, getString(args, "calendarId", "primary"), text)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(event)
}

func handleEventInstances(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	eventID := getString(args, "eventId", "")
	if eventID == "" {
		return mcp.NewToolResultError("eventId is required"), nil
	}

	instances, err := client.EventInstances(ctx, getString(args, "calendarId", "primary"), eventID, getInt(args, "maxResults", 0))
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(instances)
}

func handleImportEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	iCalUID := getString(args, "iCalUID", "")
	if iCalUID == "" {
		return mcp.NewToolResultError("iCalUID is required"), nil
	}
	if getString(args, "summary", "") == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	if getString(args, "start", "") == "" || getString(args, "end", "") == "" {
		return mcp.NewToolResultError("start and end are required"), nil
	}

	event := eventFromArgs(args)
	event.ICalUID = iCalUID

	imported, err := client.ImportEvent(ctx, getString(args, "calendarId", "primary"), event)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(imported)
}

func handleWatchEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	channelID := getString(args, "channelId", "")
	if channelID == "" {
		return mcp.NewToolResultError("channelId is required"), nil
	}
	address := getString(args, "address", "")
	if address == "" {
		return mcp.NewToolResultError("address is required"), nil
	}

	channel := &calendarapi.Channel{
		Id:      channelID,
		Type:    "web_hook",
		Address: address,
		Token:   getString(args, "token", ""),
	}

	opened, err := client.WatchEvents(ctx, getString(args, "calendarId", "primary"), channel)
	if err != nil {
		return errorResult(err), nil
	}
	return common.JSONResult(opened)
}

func handleStopChannel(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	client, errRes := getCalendarClient(sc)
	if errRes != nil {
		return errRes, nil
	}
	args := request.GetArguments()

	channelID := getString(args, "channelId", "")
	if channelID == "" {
		return mcp.NewToolResultError("channelId is required"), nil
	}
	resourceID := getString(args, "resourceId", "")
	if resourceID == "" {
		return mcp.NewToolResultError("resourceId is required"), nil
	}

	if err := client.StopChannel(ctx, &calendarapi.Channel{Id: channelID, ResourceId: resourceID}); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText("Notification channel stopped: " + channelID), nil
}
