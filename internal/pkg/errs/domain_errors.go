package errs

import "errors"

// Sentinel errors shared by the usecase and handler layers
var (
	// Lookup errors
	ErrOrderNotFound    = errors.New("order not found")
	ErrResourceNotFound = errors.New("resource not found")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Idempotency errors
	ErrIdempotencyKeyMismatch = errors.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress  = errors.New("idempotency in progress")
	ErrIdempotencyCheckFailed = errors.New("idempotency check failed")

	// Operation errors
	ErrJournalCommitFailed = errors.New("journal commit failed")
)
