package google

// IdentityScopes are the minimal scopes needed to identify the user after
// login. They are sufficient for the directory tools, which only need a
// verified identity.
var IdentityScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// CalendarScopes extend the identity scopes with full read/write access to
// Google Calendar for the calendar tools.
var CalendarScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/calendar",
}
