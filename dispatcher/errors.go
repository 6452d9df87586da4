package dispatcher

import "fmt"

// WriteError is a terminal transport-level failure: retries exhausted,
// a non-retryable status code, or an unreadable response. A settled
// WriteError reverts the optimistic record. The action may still have
// landed server-side; if it did, the next snapshot brings it back as a
// server row, so reverting never loses real data.
type WriteError struct {
	Action     string
	StatusCode int
	Err        error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("write %s: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("write %s: http %d", e.Action, e.StatusCode)
}

func (e *WriteError) Unwrap() error { return e.Err }

// BusinessRejection is the write endpoint saying no, definitively. The
// request arrived and was understood, so it is never retried and the
// optimistic record must be reverted.
type BusinessRejection struct {
	Action string
	Reason string
	Code   string
}

// Rejection codes that flip engine-level state rather than just
// reverting one record.
const (
	RejectionCodeBanned    = "banned"
	RejectionCodeSuspended = "suspended"
	RejectionCodeOutage    = "outage"
)

func (e *BusinessRejection) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s rejected (%s): %s", e.Action, e.Code, e.Reason)
	}
	return fmt.Sprintf("%s rejected: %s", e.Action, e.Reason)
}
