package modelapi

import "fmt"

// ErrorKind is the classification a completion gateway assigns to a failed
// provider call. Every failure that escapes a gateway carries exactly one
// kind; no bare errors reach the caller.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "configuration"
	KindAuthentication ErrorKind = "authentication"
	KindQuota          ErrorKind = "quota"
	KindTimeout        ErrorKind = "timeout"
	KindNetwork        ErrorKind = "network"
	KindProvider       ErrorKind = "provider"
)

// ProviderError is a classified, user-displayable provider failure.
type ProviderError struct {
	Kind        ErrorKind
	UserMessage string
	Err         error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.UserMessage)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may reasonably retry the turn without
// operator action. Configuration and authentication failures are not
// retryable; everything else is.
func (e *ProviderError) Retryable() bool {
	switch e.Kind {
	case KindConfiguration, KindAuthentication:
		return false
	}
	return true
}

func NewConfigurationError() *ProviderError {
	return &ProviderError{
		Kind:        KindConfiguration,
		UserMessage: "The AI provider API key is missing or still set to a placeholder. Add a valid key to your environment before chatting.",
	}
}

func NewAuthenticationError(err error) *ProviderError {
	return &ProviderError{
		Kind:        KindAuthentication,
		UserMessage: "The AI provider rejected the API key. Please verify or renew your key and try again.",
		Err:         err,
	}
}

func NewQuotaError(err error) *ProviderError {
	return &ProviderError{
		Kind:        KindQuota,
		UserMessage: "The AI provider usage limit has been reached. Please wait a bit before trying again.",
		Err:         err,
	}
}

func NewTimeoutError(err error) *ProviderError {
	return &ProviderError{
		Kind:        KindTimeout,
		UserMessage: "The request took too long to respond. Please try again, or send a shorter message.",
		Err:         err,
	}
}

func NewNetworkError(err error) *ProviderError {
	return &ProviderError{
		Kind:        KindNetwork,
		UserMessage: "Unable to reach the AI service. Check your internet connection and disable any interfering VPN or proxy, then try again.",
		Err:         err,
	}
}

func NewUnclassifiedError(err error) *ProviderError {
	return &ProviderError{
		Kind:        KindProvider,
		UserMessage: "I'm having a technical difficulty connecting to the AI service right now. Please try again in a moment.",
		Err:         err,
	}
}
