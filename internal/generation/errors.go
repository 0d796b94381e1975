package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrSynthesisFailed is returned when entry synthesis fails for any general reason
	ErrSynthesisFailed = errors.New("failed to synthesize entries")

	// ErrInvalidResponse is returned when the provider response cannot be parsed,
	// is missing required fields, or does not contain exactly one entry per day
	ErrInvalidResponse = errors.New("invalid response from content provider")

	// ErrContentBlocked is returned when the provider blocks the content via safety filters
	ErrContentBlocked = errors.New("content blocked by provider safety filters")

	// ErrTransientFailure is returned for temporary errors (network, rate limits)
	// that the job state machine may retry on a later tick
	ErrTransientFailure = errors.New("transient error during synthesis")

	// ErrInvalidConfig is returned when the synthesizer configuration is invalid
	ErrInvalidConfig = errors.New("invalid synthesizer configuration")
)
