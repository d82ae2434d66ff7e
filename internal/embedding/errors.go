package embedding

import "fmt"

// APIError represents a failed call to an embedding provider
type APIError struct {
	Provider string
	Op       string
	Cause    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s embedding %s failed: %v", e.Provider, e.Op, e.Cause)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
