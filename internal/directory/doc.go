// Package directory implements the employee directory demo service: a
// small REST API backed by SQLite, and the typed HTTP client the MCP
// tools use to talk to it. The directory exists to demonstrate the
// per-call link-auth gate in front of an otherwise unauthenticated
// service.
package directory
