package llm

import "fmt"

// LLMError represents an error from the model client.
type LLMError struct {
	// Type categorizes the error
	Type string

	// Message is a human-readable error message
	Message string

	// Code is the HTTP status code (if applicable)
	Code int

	// Err is the underlying error
	Err error
}

// Error types.
const (
	ErrorTypeConfig  = "config"
	ErrorTypeNetwork = "network"
	ErrorTypeAPI     = "api"
	ErrorTypeParse   = "parse"
	ErrorTypeTimeout = "timeout"
)

// Error implements the error interface.
func (e *LLMError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("LLM %s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("LLM %s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error. Configuration errors abort
// the requested operation before it mutates any state.
func NewConfigError(message string) *LLMError {
	return &LLMError{
		Type:    ErrorTypeConfig,
		Message: message,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(err error) *LLMError {
	return &LLMError{
		Type:    ErrorTypeNetwork,
		Message: "Failed to reach the Gemini API. Check your network connection.",
		Err:     err,
	}
}

// NewAPIError creates an API error.
func NewAPIError(err error) *LLMError {
	return &LLMError{
		Type:    ErrorTypeAPI,
		Message: fmt.Sprintf("Gemini API error: %v", err),
		Err:     err,
	}
}

// NewParseError creates a parse error for malformed model output.
func NewParseError(content string, err error) *LLMError {
	return &LLMError{
		Type:    ErrorTypeParse,
		Message: fmt.Sprintf("Failed to parse model output: %s", content),
		Err:     err,
	}
}

// IsConfigError reports whether err is a configuration error.
func IsConfigError(err error) bool {
	llmErr, ok := err.(*LLMError)
	return ok && llmErr.Type == ErrorTypeConfig
}
