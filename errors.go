package portfolio

import "errors"

// Sentinel errors of the ledger engine. Callers discriminate with errors.Is;
// the wrapped message carries the human-readable reason.
var (
	// ErrInsufficientShares is returned when a sell order exceeds the
	// instrument's current position.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrNotRevocable is returned when the targeted record is not the newest
	// transaction for its instrument/category pair.
	ErrNotRevocable = errors.New("not revocable")

	// ErrPriceUnavailable is returned by price sources on lookup failure.
	// It is never fatal: an order can proceed with a manually entered price.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrPersistence wraps save/load failures. Persistence errors are logged
	// and retried, never surfaced as ledger corruption.
	ErrPersistence = errors.New("persistence failure")
)
