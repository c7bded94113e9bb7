package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// Feed failure taxonomy. Sync runs report these as distinct outcomes
	// so operators can tell a bad key from a flaky provider.
	ErrFeedNotConfigured = errors.New("match feed is not configured")
	ErrFeedAuth          = errors.New("match feed rejected credentials")
	ErrFeedSchema        = errors.New("match feed payload malformed")
	ErrFeedTimeout       = errors.New("match feed request timed out")
)
