package modelapi

import (
	"errors"
	"fmt"
	"testing"
)

func TestProviderErrorRetryable(t *testing.T) {
	cases := []struct {
		err  *ProviderError
		want bool
	}{
		{NewConfigurationError(), false},
		{NewAuthenticationError(nil), false},
		{NewQuotaError(nil), true},
		{NewTimeoutError(nil), true},
		{NewNetworkError(nil), true},
		{NewUnclassifiedError(nil), true},
	}
	for _, c := range cases {
		if got := c.err.Retryable(); got != c.want {
			t.Errorf("%s: Retryable() = %v, want %v", c.err.Kind, got, c.want)
		}
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("status 429")
	err := NewQuotaError(cause)

	wrapped := fmt.Errorf("turn failed: %w", err)

	var pe *ProviderError
	if !errors.As(wrapped, &pe) {
		t.Fatalf("errors.As should find ProviderError in %v", wrapped)
	}
	if pe.Kind != KindQuota {
		t.Errorf("Kind = %q, want quota", pe.Kind)
	}
	if !errors.Is(wrapped, cause) {
		t.Errorf("cause should survive unwrapping")
	}
}

func TestUserMessagesPresent(t *testing.T) {
	for _, err := range []*ProviderError{
		NewConfigurationError(),
		NewAuthenticationError(nil),
		NewQuotaError(nil),
		NewTimeoutError(nil),
		NewNetworkError(nil),
		NewUnclassifiedError(nil),
	} {
		if err.UserMessage == "" {
			t.Errorf("%s: empty user message", err.Kind)
		}
	}
}
