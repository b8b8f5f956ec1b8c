package sections

import "fmt"

// ConfigError represents an invalid section taxonomy configuration
type ConfigError struct {
	Message string
	Section string
}

func (e *ConfigError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("taxonomy config error in %s: %s", e.Section, e.Message)
	}
	return fmt.Sprintf("taxonomy config error: %s", e.Message)
}

// LoadError represents an error reading or decoding a taxonomy file
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("taxonomy load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
