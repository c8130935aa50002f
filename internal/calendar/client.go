package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/linkauth/internal/auth"
	"github.com/teemow/linkauth/internal/google"
)

// Client wraps the Google Calendar service. It holds no token in memory;
// the store is consulted on every call.
type Client struct {
	flow  *google.Flow
	store *auth.Store
}

// NewClient creates a calendar client backed by the given flow and token
// store.
func NewClient(flow *google.Flow, store *auth.Store) *Client {
	return &Client{flow: flow, store: store}
}

// service builds an authenticated Calendar service from the currently
// stored credential. Returns RequiresAuthError with a fresh login URL when
// no credential is available.
func (c *Client) service(ctx context.Context) (*calendar.Service, error) {
	cred := c.store.Load()
	if cred == nil {
		return nil, &auth.RequiresAuthError{LoginURL: c.flow.AuthURL()}
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(c.flow.Client(ctx, cred.Token())))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

// ListEvents lists events in a calendar, optionally filtered by time range
// and free-text query.
func (c *Client) ListEvents(ctx context.Context, p ListEventsParams) (*calendar.Events, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}

	if p.CalendarID == "" {
		p.CalendarID = "primary"
	}
	if p.TimeMin == "" {
		p.TimeMin = time.Now().Format(time.RFC3339)
	}
	if p.MaxResults <= 0 {
		p.MaxResults = 10
	}
	if p.OrderBy == "" {
		p.OrderBy = "startTime"
	}

	call := svc.Events.List(p.CalendarID).
		TimeMin(p.TimeMin).
		MaxResults(p.MaxResults).
		SingleEvents(p.SingleEvents).
		OrderBy(p.OrderBy)
	if p.TimeMax != "" {
		call = call.TimeMax(p.TimeMax)
	}
	if p.Query != "" {
		call = call.Q(p.Query)
	}

	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetEvent retrieves a specific event by ID.
func (c *Client) GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	event, err := svc.Events.Get(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// InsertEvent creates a new event.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return created, nil
}

// PatchEvent applies a partial update to an event.
func (c *Client) PatchEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	patched, err := svc.Events.Patch(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch event: %w", err)
	}
	return patched, nil
}

// UpdateEvent replaces an event.
func (c *Client) UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := svc.Events.Update(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// MoveEvent moves an event to another calendar.
func (c *Client) MoveEvent(ctx context.Context, calendarID, eventID, destinationID string) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	moved, err := svc.Events.Move(calendarID, eventID, destinationID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to move event: %w", err)
	}
	return moved, nil
}

// QuickAddEvent creates an event from a natural-language text snippet.
func (c *Client) QuickAddEvent(ctx context.Context, calendarID, text string) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	event, err := svc.Events.QuickAdd(calendarID, text).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to quick-add event: %w", err)
	}
	return event, nil
}

// EventInstances lists instances of a recurring event.
func (c *Client) EventInstances(ctx context.Context, calendarID, eventID string, maxResults int64) (*calendar.Events, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	call := svc.Events.Instances(calendarID, eventID)
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}
	instances, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list event instances: %w", err)
	}
	return instances, nil
}

// ImportEvent imports an event (adds a private copy to the calendar).
func (c *Client) ImportEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	imported, err := svc.Events.Import(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to import event: %w", err)
	}
	return imported, nil
}

// WatchEvents opens a push notification channel for event changes.
func (c *Client) WatchEvents(ctx context.Context, calendarID string, channel *calendar.Channel) (*calendar.Channel, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	opened, err := svc.Events.Watch(calendarID, channel).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to watch events: %w", err)
	}
	return opened, nil
}

// StopChannel stops a previously opened notification channel.
func (c *Client) StopChannel(ctx context.Context, channel *calendar.Channel) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Channels.Stop(channel).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to stop channel: %w", err)
	}
	return nil
}

// ListCalendarList lists the calendars on the user's calendar list.
func (c *Client) ListCalendarList(ctx context.Context, p ListCalendarListParams) (*calendar.CalendarList, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	call := svc.CalendarList.List().
		ShowDeleted(p.ShowDeleted).
		ShowHidden(p.ShowHidden)
	if p.MaxResults > 0 {
		call = call.MaxResults(p.MaxResults)
	}
	if p.MinAccessRole != "" {
		call = call.MinAccessRole(p.MinAccessRole)
	}
	list, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar list: %w", err)
	}
	return list, nil
}

// GetCalendarListEntry retrieves a calendar list entry.
func (c *Client) GetCalendarListEntry(ctx context.Context, calendarID string) (*calendar.CalendarListEntry, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := svc.CalendarList.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar list entry: %w", err)
	}
	return entry, nil
}

// InsertCalendarListEntry adds an existing calendar to the user's list.
func (c *Client) InsertCalendarListEntry(ctx context.Context, entry *calendar.CalendarListEntry) (*calendar.CalendarListEntry, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	inserted, err := svc.CalendarList.Insert(entry).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert calendar list entry: %w", err)
	}
	return inserted, nil
}

// PatchCalendarListEntry applies a partial update to a calendar list entry.
func (c *Client) PatchCalendarListEntry(ctx context.Context, calendarID string, entry *calendar.CalendarListEntry) (*calendar.CalendarListEntry, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	patched, err := svc.CalendarList.Patch(calendarID, entry).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch calendar list entry: %w", err)
	}
	return patched, nil
}

// UpdateCalendarListEntry replaces a calendar list entry.
func (c *Client) UpdateCalendarListEntry(ctx context.Context, calendarID string, entry *calendar.CalendarListEntry) (*calendar.CalendarListEntry, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := svc.CalendarList.Update(calendarID, entry).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar list entry: %w", err)
	}
	return updated, nil
}

// DeleteCalendarListEntry removes a calendar from the user's list.
func (c *Client) DeleteCalendarListEntry(ctx context.Context, calendarID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.CalendarList.Delete(calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar list entry: %w", err)
	}
	return nil
}

// GetCalendar retrieves calendar metadata.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*calendar.Calendar, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	cal, err := svc.Calendars.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return cal, nil
}

// InsertCalendar creates a secondary calendar.
func (c *Client) InsertCalendar(ctx context.Context, cal *calendar.Calendar) (*calendar.Calendar, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	created, err := svc.Calendars.Insert(cal).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert calendar: %w", err)
	}
	return created, nil
}

// PatchCalendar applies a partial update to calendar metadata.
func (c *Client) PatchCalendar(ctx context.Context, calendarID string, cal *calendar.Calendar) (*calendar.Calendar, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	patched, err := svc.Calendars.Patch(calendarID, cal).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch calendar: %w", err)
	}
	return patched, nil
}

// UpdateCalendar replaces calendar metadata.
func (c *Client) UpdateCalendar(ctx context.Context, calendarID string, cal *calendar.Calendar) (*calendar.Calendar, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := svc.Calendars.Update(calendarID, cal).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update calendar: %w", err)
	}
	return updated, nil
}

// DeleteCalendar deletes a secondary calendar.
func (c *Client) DeleteCalendar(ctx context.Context, calendarID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Calendars.Delete(calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar: %w", err)
	}
	return nil
}

// ClearCalendar removes all events from the user's primary calendar.
func (c *Client) ClearCalendar(ctx context.Context, calendarID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Calendars.Clear(calendarID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear calendar: %w", err)
	}
	return nil
}

// ListACL lists the access control rules of a calendar.
func (c *Client) ListACL(ctx context.Context, calendarID string) (*calendar.Acl, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	acl, err := svc.Acl.List(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list ACL rules: %w", err)
	}
	return acl, nil
}

// GetACLRule retrieves a single access control rule.
func (c *Client) GetACLRule(ctx context.Context, calendarID, ruleID string) (*calendar.AclRule, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	rule, err := svc.Acl.Get(calendarID, ruleID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get ACL rule: %w", err)
	}
	return rule, nil
}

// InsertACLRule grants access to a calendar.
func (c *Client) InsertACLRule(ctx context.Context, calendarID string, rule *calendar.AclRule) (*calendar.AclRule, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	created, err := svc.Acl.Insert(calendarID, rule).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert ACL rule: %w", err)
	}
	return created, nil
}

// PatchACLRule applies a partial update to an access control rule.
func (c *Client) PatchACLRule(ctx context.Context, calendarID, ruleID string, rule *calendar.AclRule) (*calendar.AclRule, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	patched, err := svc.Acl.Patch(calendarID, ruleID, rule).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to patch ACL rule: %w", err)
	}
	return patched, nil
}

// UpdateACLRule replaces an access control rule.
func (c *Client) UpdateACLRule(ctx context.Context, calendarID, ruleID string, rule *calendar.AclRule) (*calendar.AclRule, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := svc.Acl.Update(calendarID, ruleID, rule).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update ACL rule: %w", err)
	}
	return updated, nil
}

// DeleteACLRule revokes access to a calendar.
func (c *Client) DeleteACLRule(ctx context.Context, calendarID, ruleID string) error {
	svc, err := c.service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Acl.Delete(calendarID, ruleID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete ACL rule: %w", err)
	}
	return nil
}

// GetColors retrieves the color definitions for calendars and events.
func (c *Client) GetColors(ctx context.Context) (*calendar.Colors, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	colors, err := svc.Colors.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get colors: %w", err)
	}
	return colors, nil
}

// QueryFreeBusy returns free/busy information for a set of calendars.
func (c *Client) QueryFreeBusy(ctx context.Context, req *calendar.FreeBusyRequest) (*calendar.FreeBusyResponse, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to query free/busy: %w", err)
	}
	return resp, nil
}

// ListSettings lists the user's calendar settings.
func (c *Client) ListSettings(ctx context.Context) (*calendar.Settings, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := svc.Settings.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// GetSetting retrieves a single user setting.
func (c *Client) GetSetting(ctx context.Context, settingID string) (*calendar.Setting, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return nil, err
	}
	setting, err := svc.Settings.Get(settingID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return setting, nil
}
