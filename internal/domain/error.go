package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound              = errors.New("entity not found")
	ErrAlreadyExists         = errors.New("entity already exists")
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrUnauthorized          = errors.New("operation not permitted")
	ErrAlreadyProcessed      = errors.New("payment already processed")
	ErrUnknownPlan           = errors.New("unknown membership plan")
	ErrInvalidDuration       = errors.New("invalid duration")
	ErrMalformedDurationCode = errors.New("malformed duration code")
	ErrStoreCommit           = errors.New("store commit failed")
	ErrQuotaExceeded         = errors.New("ad quota exceeded")

	// Infra-level errors surfaced through repositories
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid exec context")
)

// ErrorKind maps a domain error to its stable taxonomy name, carried on
// user-facing failure notifications and API responses.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrAlreadyProcessed):
		return "AlreadyProcessedError"
	case errors.Is(err, ErrUnknownPlan):
		return "UnknownPlanError"
	case errors.Is(err, ErrInvalidDuration):
		return "InvalidDurationError"
	case errors.Is(err, ErrMalformedDurationCode):
		return "MalformedDurationCode"
	case errors.Is(err, ErrUnauthorized):
		return "UnauthorizedError"
	case errors.Is(err, ErrInvalidArgument):
		return "InvalidArgumentError"
	default:
		return "StoreCommitError"
	}
}

