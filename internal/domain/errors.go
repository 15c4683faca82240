package domain

import "errors"

// Error kinds surfaced by the service layer. Callers classify with errors.Is
// and wrap with fmt.Errorf("...: %w", kind) to attach detail.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
