package portfolio

import (
	"fmt"
	"slices"
	"time"
)

// State is the complete ledger state: the capital log, the categories with
// their instruments and lots, and the transaction records. State values are
// immutable: every mutation goes through Apply, which returns a new State and
// never touches slices reachable from its input. Partially-applied states are
// therefore never observable.
type State struct {
	BaseCurrency string
	Capital      CapitalLog
	Categories   []Category
	Records      []TransactionRecord

	// Version increments on every successful Apply. It is the memoization
	// token used by valuation.
	Version      uint64
	LastModified time.Time
}

// NewState creates an empty ledger state denominated in the given base
// currency.
func NewState(baseCurrency string) State {
	return State{BaseCurrency: baseCurrency}
}

// TotalCapital recomputes the invested capital from the full capital log.
func (s State) TotalCapital() Money {
	return s.Capital.Total(s.BaseCurrency)
}

// Category returns the category with the given id, or nil if unknown.
func (s State) Category(id string) *Category {
	if i := s.categoryIndex(id); i >= 0 {
		c := s.Categories[i]
		return &c
	}
	return nil
}

// categoryIndex finds a category by id, returning -1 when absent.
func (s State) categoryIndex(id string) int {
	for i, c := range s.Categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// recordByID returns the record with the given id, or nil if unknown.
func (s State) recordByID(id string) *TransactionRecord {
	for i := range s.Records {
		if s.Records[i].ID == id {
			r := s.Records[i]
			return &r
		}
	}
	return nil
}

// latestRecordID returns the id of the chronologically newest record for the
// instrument/category pair, or "" when the pair has no records. Records are
// appended in execution order, so ties on the timestamp resolve to the most
// recently appended one.
func (s State) latestRecordID(instrumentID, categoryID string) string {
	latest := -1
	for i, r := range s.Records {
		if r.InstrumentID != instrumentID || r.CategoryID != categoryID {
			continue
		}
		if latest < 0 || !r.Time.Before(s.Records[latest].Time) {
			latest = i
		}
	}
	if latest < 0 {
		return ""
	}
	return s.Records[latest].ID
}

// touch bumps the version and last-modified timestamp in place; callers
// operate on their own copy of the state.
func (s *State) touch(at time.Time) {
	s.Version++
	s.LastModified = at
}

// Apply is the reducer of the ledger: it validates the command against the
// current state, then produces the next state. On error the input state is
// returned unchanged; an order either fully applies or not at all.
func Apply(s State, cmd Command) (State, error) {
	if err := cmd.Validate(s); err != nil {
		return s, fmt.Errorf("invalid %s command: %w", cmd.What(), err)
	}
	switch v := cmd.(type) {
	case Buy:
		return applyBuy(s, v)
	case Sell:
		return applySell(s, v)
	case Dividend:
		return applyDividend(s, v)
	case Revoke:
		return applyRevoke(s, v)
	case AddCapital:
		return applyAddCapital(s, v)
	case RemoveCapital:
		return applyRemoveCapital(s, v)
	case AddCategory:
		return applyAddCategory(s, v)
	default:
		return s, fmt.Errorf("unsupported command type %T", cmd)
	}
}

// ApplyAll folds a batch of commands over the same transition function within
// a single commit. The batch is atomic: if any command fails, the input state
// is returned unchanged and none of the batch is applied.
func ApplyAll(s State, cmds []Command) (State, error) {
	next := s
	var err error
	for i, cmd := range cmds {
		next, err = Apply(next, cmd)
		if err != nil {
			return s, fmt.Errorf("batch rejected at command %d of %d: %w", i+1, len(cmds), err)
		}
	}
	return next, nil
}

func applyAddCapital(s State, cmd AddCapital) (State, error) {
	at := cmd.When()
	if at.IsZero() {
		at = time.Now().UTC()
	}
	amount := cmd.Amount
	if amount.Currency() == "" {
		amount = M(amount.Amount(), s.BaseCurrency)
	}
	entry := CapitalLogEntry{
		ID:     newID(),
		Time:   at,
		Kind:   cmd.Kind,
		Amount: amount,
		Note:   cmd.Note,
	}
	out := s
	out.Capital = append(slices.Clip(slices.Clone(s.Capital)), entry)
	out.touch(at)
	return out, nil
}

func applyAddCategory(s State, cmd AddCategory) (State, error) {
	at := cmd.When()
	if at.IsZero() {
		at = time.Now().UTC()
	}
	c := cmd.Category
	if c.ID == "" {
		c.ID = newID()
	}
	out := s
	out.Categories = append(slices.Clip(slices.Clone(s.Categories)), c)
	out.touch(at)
	return out, nil
}

func applyRemoveCapital(s State, cmd RemoveCapital) (State, error) {
	i := s.Capital.entryIndex(cmd.EntryID)
	out := s
	out.Capital = slices.Delete(slices.Clone(s.Capital), i, i+1)
	out.touch(time.Now().UTC())
	return out, nil
}
