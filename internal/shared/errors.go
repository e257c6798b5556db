package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidURL      = fmt.Errorf("invalid video URL")
	ErrOutOfRange      = fmt.Errorf("value out of range")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Server-reported errors
	ErrServerReported = fmt.Errorf("server error")
	ErrJobNotFound    = fmt.Errorf("job not found")
	ErrUnauthorized   = fmt.Errorf("unauthorized")

	// Editing errors
	ErrNothingToUpdate = fmt.Errorf("no changes to update")

	// Media errors
	ErrMediaUnavailable = fmt.Errorf("media unavailable")
	ErrProbeExhausted   = fmt.Errorf("no playable video found")
)
