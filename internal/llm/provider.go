package llm

import "context"

// Provider is the external completion service: it takes an ordered list of
// role-tagged messages and returns one reply.
type Provider interface {
	// Complete sends a completion request and returns the response.
	// Failures are reported as *ProviderError.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
