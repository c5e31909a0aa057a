package portfolio

import "github.com/google/uuid"

// newID mints a unique id for lots, records, and capital log entries.
func newID() string { return uuid.NewString() }
