package service

import "errors"

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrRunInProgress is returned when a reconciliation is triggered while
	// another one is still running
	ErrRunInProgress = errors.New("reconciliation already in progress")

	// ErrNoResult is returned when no reconciliation has been run yet
	ErrNoResult = errors.New("no reconciliation result available")

	// ErrInvalidCredentials is returned for a wrong email/password pair
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned for missing, expired or forged tokens
	ErrUnauthorized = errors.New("unauthorized")
)
