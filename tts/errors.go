package tts

import (
	"errors"
	"fmt"
)

// Common errors for the speech pipeline.
var (
	// ErrValidation indicates a request violated a parameter constraint.
	// Requests failing validation are rejected before any network or disk I/O.
	ErrValidation = errors.New("invalid synthesis request")

	// ErrConnection indicates the token-generation endpoint was unreachable.
	ErrConnection = errors.New("token endpoint unreachable")

	// ErrTimeout indicates the token-generation call exceeded its deadline.
	// The pipeline never retries; retry policy belongs to the caller.
	ErrTimeout = errors.New("token generation timed out")

	// ErrUpstream indicates the token endpoint answered with a non-success
	// status or a malformed body.
	ErrUpstream = errors.New("token endpoint error")

	// ErrSynthesis indicates audio buffer construction failed.
	ErrSynthesis = errors.New("audio synthesis failed")

	// ErrDecoderUnavailable indicates the neural decoder variant was
	// selected but no implementation is wired in.
	ErrDecoderUnavailable = errors.New("neural decoder not available")

	// ErrEngineNotInitialized indicates a hook fired before settings were
	// loaded.
	ErrEngineNotInitialized = errors.New("engine not initialized")
)

// UpstreamError carries the HTTP status of a failed token-generation call.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("token endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("token endpoint returned status %d: %s", e.StatusCode, e.Detail)
}

// Unwrap makes errors.Is(err, ErrUpstream) hold for UpstreamError values.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}
