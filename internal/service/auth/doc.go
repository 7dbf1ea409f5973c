// Package auth implements account registration, credential login and the
// JWT bearer tokens that authenticate API requests.
//
// Token validation on incoming requests is the auth middleware's job; the
// service itself only issues tokens.
package auth
