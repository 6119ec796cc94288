package domain

import (
	"fmt"
	"time"
)

// MCPError represents a standardized error response
type MCPError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *MCPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes for different failure scenarios
const (
	ErrInvalidInput        = "INVALID_INPUT"
	ErrIncompleteSelection = "INCOMPLETE_SELECTION"
	ErrCalculation         = "CALCULATION_ERROR"
	ErrRateLimit           = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer      = "INTERNAL_SERVER_ERROR"
)

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// IncompleteSelectionError reports that one of the three required
// selections was not made. Its message is the prompt shown to the user.
type IncompleteSelectionError struct {
	Field string `json:"field"`
}

var selectionPrompts = map[string]string{
	FieldGender:     "Please select a gender",
	FieldAgeBracket: "Please select an age category",
	FieldMMSEResult: "Please select an MMSE result",
}

// Error implements the error interface
func (e *IncompleteSelectionError) Error() string {
	if prompt, ok := selectionPrompts[e.Field]; ok {
		return prompt
	}
	return fmt.Sprintf("Please select a value for %s", e.Field)
}

// NewMCPError creates a new MCPError with timestamp
func NewMCPError(code, message, details, requestID string) *MCPError {
	return &MCPError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// NewIncompleteSelectionError creates a new IncompleteSelectionError
func NewIncompleteSelectionError(field string) *IncompleteSelectionError {
	return &IncompleteSelectionError{Field: field}
}
