package errs

// Sentinel errors shared by the command and query use cases.
var (
	// Access
	ErrForbidden    = New("forbidden")
	ErrUnauthorized = New("unauthorized")

	// Idempotency
	ErrIdempotencyKeyRequired = New("idempotency key required")
	ErrIdempotencyInProgress  = New("idempotency in progress")
	ErrIdempotencyKeyReused   = New("idempotency key reused with a different request")
	ErrIdempotencyCheckFailed = New("idempotency check failed")

	// Validation
	ErrDomainValidation = New("domain validation error")

	// State machine
	ErrStateConflict = New("state conflict")

	// Operation errors
	ErrDatabaseOperationFailed = New("database operation failed")
)
