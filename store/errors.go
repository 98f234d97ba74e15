package store

import "errors"

// Typed error taxonomy. Backend-specific failure signals are translated into
// these at the storage boundary so callers never match on message content.
var (
	// ErrAlreadyAnswered reports a duplicate (user, question) response. It is
	// an expected, convergent condition: callers treat it as proof the user
	// already answered, not as a failure.
	ErrAlreadyAnswered = errors.New("already answered today's question")

	// ErrAuthDisabled reports that anonymous sign-ins are switched off in the
	// service configuration. It is user-actionable and never retried
	// automatically.
	ErrAuthDisabled = errors.New("anonymous sign-ins are disabled")

	// ErrBoardPreparing reports a write that reached the database but hit a
	// permission signature known to occur while access rules propagate right
	// after answering. Callers treat it as soft success with a warning.
	ErrBoardPreparing = errors.New("collective board is still preparing")

	// ErrStoreUnavailable covers every other persistence failure; transient
	// and surfaced verbatim.
	ErrStoreUnavailable = errors.New("store unavailable")
)
