// Package service provides application-level operations over users, books,
// and generation jobs.
package service

import "errors"

// Common service errors. Service methods return sentinel errors for expected
// conditions; the API layer maps them to HTTP status codes.
var (
	// ErrInvalidCredentials indicates a login attempt with a wrong email or
	// password. Deliberately indistinguishable between the two cases.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrJobNotDeletable indicates an attempt to delete a job that has not
	// failed terminally. Only failed jobs have a manual recovery path.
	ErrJobNotDeletable = errors.New("only failed jobs can be deleted")
)
