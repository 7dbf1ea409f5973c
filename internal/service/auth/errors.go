package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidCredentials is returned by LoginUser for an unknown email and
	// for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates the user a valid token was issued for no longer exists.
	ErrUserNotFound = errors.New("authenticated user not found")

	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)
