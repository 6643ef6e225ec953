package models

import "fmt"

// ValidationError is returned for user input that must be rejected before a
// run starts: an invalid folder, a bad duration or an unknown aspect ratio.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
