package calendar

// ListEventsParams are the supported filters for listing events.
type ListEventsParams struct {
	CalendarID   string
	TimeMin      string // RFC3339; defaults to now
	TimeMax      string // RFC3339; optional
	Query        string
	MaxResults   int64 // defaults to 10
	SingleEvents bool
	OrderBy      string // "startTime" or "updated"
}

// ListCalendarListParams are the supported filters for listing calendar
// list entries.
type ListCalendarListParams struct {
	MaxResults    int64
	MinAccessRole string
	ShowDeleted   bool
	ShowHidden    bool
}
