package models

import "fmt"

// APIError describes a non-2xx response from a hosted provider API.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API returned status %d", e.Provider, e.StatusCode)
}
