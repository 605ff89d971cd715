package llm

import (
	"errors"
	"fmt"
)

// ProviderError is returned for any transport or provider-side failure
// (auth, rate limit, malformed request, network). Callers treat every
// ProviderError the same way: the turn is dropped and nothing is retried.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user when a reply could not be produced.
func (e *ProviderError) UserMessage() string {
	return fmt.Sprintf("Provider error (%s): %v", e.Provider, e.Err)
}

// WrapError converts err into a *ProviderError for the named provider,
// keeping an existing ProviderError as is. A nil err yields nil.
func WrapError(provider string, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: provider, Err: err}
}
