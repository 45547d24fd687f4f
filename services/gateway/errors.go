package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnsupportedTaskType is returned before any provider is called.
	ErrUnsupportedTaskType = errors.New("unsupported task type")
	// ErrEmptyPrompt is returned before any provider is called.
	ErrEmptyPrompt = errors.New("prompt is required")

	ErrMissingCredential       = errors.New("provider credential not configured")
	ErrProviderCallFailed      = errors.New("provider call failed")
	ErrBadProviderResponse     = errors.New("bad provider response")
	ErrMalformedProviderOutput = errors.New("malformed provider output")

	// ErrAllProvidersFailed matches every *AllProvidersFailedError.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// ProviderFailure records why a single provider attempt failed.
type ProviderFailure struct {
	Provider string
	Role     ProviderRole
	Err      error
}

// AllProvidersFailedError is returned once every provider in the fallback
// order has failed. It unwraps to each underlying failure.
type AllProvidersFailedError struct {
	Failures []ProviderFailure
}

func (e *AllProvidersFailedError) Error() string {
	if len(e.Failures) == 0 {
		return ErrAllProvidersFailed.Error() + ": no providers configured"
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s (%s): %v", f.Provider, f.Role, f.Err)
	}
	return ErrAllProvidersFailed.Error() + ": " + strings.Join(parts, "; ")
}

// Is reports true for ErrAllProvidersFailed.
func (e *AllProvidersFailedError) Is(target error) bool {
	return target == ErrAllProvidersFailed
}

func (e *AllProvidersFailedError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Details joins the underlying failure messages, one per provider.
func (e *AllProvidersFailedError) Details() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Provider, f.Err)
	}
	return strings.Join(parts, "; ")
}

// OnlyMalformed reports whether err is an AllProvidersFailedError in which
// every provider answered but none returned decodable output.
func OnlyMalformed(err error) bool {
	var failed *AllProvidersFailedError
	if !errors.As(err, &failed) || len(failed.Failures) == 0 {
		return false
	}
	for _, f := range failed.Failures {
		if !errors.Is(f.Err, ErrMalformedProviderOutput) {
			return false
		}
	}
	return true
}

// IsCallerError reports whether err was caused by the request itself.
func IsCallerError(err error) bool {
	return errors.Is(err, ErrUnsupportedTaskType) || errors.Is(err, ErrEmptyPrompt)
}

// StatusFor maps a gateway error to an HTTP status code.
func StatusFor(err error) int {
	if IsCallerError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
