package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrContext      = errors.New("context aggregation failed")
	ErrGeneration   = errors.New("generation failed")
	ErrTransmission = errors.New("transmission failed")
)

// ValidationError carries the message shown to the client.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return ErrValidation }
