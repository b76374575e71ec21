package llm

import "fmt"

// Config contains configuration for the Gemini client.
type Config struct {
	// APIKey is the Gemini API key
	APIKey string

	// Model is the model identifier
	// Example: gemini-2.5-flash
	Model string

	// RequestsPerSecond caps outgoing request rate (0 = default)
	RequestsPerSecond float64

	// Burst is the rate limiter burst size (0 = default)
	Burst int
}

// Validate checks that required config fields are set.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return NewConfigError("APIKey is required")
	}

	if c.Model == "" {
		return fmt.Errorf("Model is required")
	}

	return nil
}

// SetDefaults fills in default values for optional fields.
func (c *Config) SetDefaults() {
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = 1
	}

	if c.Burst == 0 {
		c.Burst = 4
	}
}
