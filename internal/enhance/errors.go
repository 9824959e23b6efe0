package enhance

import (
	"fmt"
	"strings"
)

// MissingRequiredFieldsError reports companion fields that must be filled
// before enhancement can run. Never retried.
type MissingRequiredFieldsError struct {
	Fields []string
}

func (e *MissingRequiredFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// InsufficientContentError reports input below the minimum length gate.
type InsufficientContentError struct {
	MinLength int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("content too short, minimum length is %d characters", e.MinLength)
}

// GenericContentError reports input rejected by the generic-phrase gate.
type GenericContentError struct {
	Phrase string
}

func (e *GenericContentError) Error() string {
	return fmt.Sprintf("content is too generic (%q), describe what you actually did", e.Phrase)
}
