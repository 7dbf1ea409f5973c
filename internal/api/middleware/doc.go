// Package middleware provides the HTTP middleware that runs ahead of the
// API handlers: request tracing and bearer-token authentication.
package middleware
