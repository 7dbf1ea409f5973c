// Package shared holds the request-context keys, request decoding and the
// response envelope used by both the handlers and the middleware.
package shared
