// Package common defines shared constants and sentinel errors used across
// client and server layers of ZenTest. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors.
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInvalidCredentials = errors.New("invalid login/password")

	// Sign-in errors surfaced to the user by the identity resolver.
	ErrUnauthorizedDomain = errors.New("auth/unauthorized-domain")
	ErrPopupClosedByUser  = errors.New("auth/popup-closed-by-user")

	// Client-side flow errors.
	ErrRunInProgress   = errors.New("a run is already in progress")
	ErrNotConfigured   = errors.New("backend not configured")
	ErrNoActiveProject = errors.New("no active project selected")
)
