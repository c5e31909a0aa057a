package portfolio

import "time"

// CapitalKind identifies the direction of a capital log entry.
type CapitalKind string

const (
	KindDeposit  CapitalKind = "deposit"
	KindWithdraw CapitalKind = "withdraw"
)

// CapitalLogEntry records a single deposit into, or withdrawal from, the
// portfolio's capital.
type CapitalLogEntry struct {
	ID     string
	Time   time.Time
	Kind   CapitalKind
	Amount Money
	Note   string
}

// CapitalLog is the chronological list of deposits and withdrawals.
type CapitalLog []CapitalLogEntry

// Total recomputes the invested capital from the full log. It is never
// maintained incrementally, so it cannot drift.
func (cl CapitalLog) Total(baseCurrency string) Money {
	total := M(0, baseCurrency)
	for _, e := range cl {
		switch e.Kind {
		case KindDeposit:
			total = total.Add(e.Amount)
		case KindWithdraw:
			total = total.Sub(e.Amount)
		}
	}
	return total
}

// entryIndex finds an entry by id, returning -1 when absent.
func (cl CapitalLog) entryIndex(id string) int {
	for i, e := range cl {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// MarshalJSON implements the json.Marshaler interface for CapitalLogEntry.
func (e CapitalLogEntry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", e.ID)
	w.Append("time", e.Time.UTC().Format(time.RFC3339Nano))
	w.Append("kind", e.Kind)
	w.Append("amount", e.Amount.Amount())
	w.Append("currency", e.Amount.Currency())
	w.Optional("note", e.Note)
	return w.MarshalJSON()
}
