package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when neither the
	// request nor the configuration carries an api key.
	ErrMissingCredential = errors.New("generation api key not configured")

	// ErrGenerationFailed is matched by every provider side failure.
	ErrGenerationFailed = errors.New("text generation failed")
)

// StatusError is returned when the provider answers with a non 2xx status.
type StatusError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s api error: status %d", e.Provider, e.StatusCode)
}

// Unwrap lets errors.Is(err, ErrGenerationFailed) match.
func (e *StatusError) Unwrap() error {
	return ErrGenerationFailed
}
