package gateway

import (
	"context"
	"net/http"
)

// Provider is a hosted LLM completion API.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Available reports whether the provider has what it needs to be called.
	Available(ctx context.Context) bool

	// Answer sends a single request and returns the raw answer text.
	Answer(ctx context.Context, instruction, prompt string, maxTokens int) (string, error)
}

// HTTPDoer is the subset of *http.Client used by the HTTP providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Providers is an ordered fallback list. The first entry is the primary.
type Providers []Provider

// Available returns the providers that can currently be called.
func (ps Providers) Available(ctx context.Context) []Provider {
	var out []Provider
	for _, p := range ps {
		if p.Available(ctx) {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the provider names in fallback order.
func (ps Providers) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name()
	}
	return names
}
