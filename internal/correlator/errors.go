package correlator

import "errors"

var (
	// ErrCorrelationTimeout means no matching response arrived within the
	// allotted wait. Retriable by the caller.
	ErrCorrelationTimeout = errors.New("timed out waiting for response")

	// ErrCorrelationMismatch means a response reached a waiter whose uid it
	// does not carry. Never resolved by guessing.
	ErrCorrelationMismatch = errors.New("uid mismatch in response")

	// ErrNotRegistered means Await was called for a uid with no pending
	// waiter.
	ErrNotRegistered = errors.New("no waiter registered for uid")

	// ErrDuplicateWaiter means Register was called twice for the same uid
	// while the first exchange was still pending.
	ErrDuplicateWaiter = errors.New("waiter already registered for uid")
)
