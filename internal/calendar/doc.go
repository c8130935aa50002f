// Package calendar wraps the Google Calendar API for the MCP tools. Every
// call re-reads the token store so tokens refreshed or re-obtained by
// another process are picked up without restarting the server.
package calendar
