// Package api holds the HTTP handlers for accounts and tasks. Handlers
// decode requests, call the services with the authenticated user's ID and
// write the shared response envelope. Routing lives in cmd/server.
package api
