package portfolio

import (
	"fmt"
	"log"
	"slices"
	"time"
)

// Revocation reverses the most recent record of an instrument/category pair.
// It is the exact mathematical inverse of order application for buys and
// sells: a revoked buy removes the lot it created, a revoked sell rebuilds
// the consumed lot from the cost basis captured at sell time. The sale price
// plays no part in the reconstruction.

func applyRevoke(s State, cmd Revoke) (State, error) {
	r := s.recordByID(cmd.TransactionID) // non-nil, Validate checked

	out := s
	switch r.Kind {
	case KindBuy:
		next, err := revokeBuy(s, *r)
		if err != nil {
			return s, err
		}
		out = next
	case KindSell:
		next, err := revokeSell(s, *r)
		if err != nil {
			return s, err
		}
		out = next
	case KindDividend:
		// No position mutation: only the record goes.
	default:
		return s, fmt.Errorf("cannot revoke record of kind %q", r.Kind)
	}

	out.Records = removeRecord(out.Records, r.ID)
	out.touch(time.Now().UTC())
	return out, nil
}

// revokeBuy removes the lot the buy created and decrements the position,
// deleting the instrument when it reaches zero shares.
func revokeBuy(s State, r TransactionRecord) (State, error) {
	ci := s.categoryIndex(r.CategoryID)
	if ci < 0 {
		return s, fmt.Errorf("category %q of record %s not found", r.CategoryID, r.ID)
	}
	cat := s.Categories[ci].clone()
	ii := cat.instrumentIndexByID(r.InstrumentID)
	if ii < 0 {
		return s, fmt.Errorf("instrument %q of record %s not found", r.InstrumentID, r.ID)
	}
	ins := cat.Instruments[ii].clone()

	rest, _, found := lots(ins.Lots).removeByID(r.LotID)
	if !found {
		// A buy record always carries the id of the lot it created. Falling
		// back to the latest lot keeps the ledger usable, but it means a
		// record was built without its linkage: report it.
		log.Printf("soundness: buy record %s has no matching lot %q on %s, removing latest lot instead",
			r.ID, r.LotID, ins.Symbol)
		li := lots(ins.Lots).latestIndex()
		if li < 0 {
			return s, fmt.Errorf("instrument %s has no lots to revoke for record %s", ins.Symbol, r.ID)
		}
		rest, _ = lots(ins.Lots).removeAt(li)
	}
	ins.Lots = rest
	ins.Shares = ins.Shares.Sub(r.Shares)

	if ins.Shares.IsZero() {
		cat.Instruments = slices.Delete(cat.Instruments, ii, ii+1)
	} else {
		cat.Instruments[ii] = ins
	}

	out := s
	out.Categories = slices.Clone(s.Categories)
	out.Categories[ci] = cat
	return out, nil
}

// revokeSell reconstructs the consumed lot from the record's original cost
// basis and re-inserts it in acquisition-time order, recreating the
// instrument first if the sell had emptied it.
func revokeSell(s State, r TransactionRecord) (State, error) {
	ci := s.categoryIndex(r.CategoryID)
	if ci < 0 {
		return s, fmt.Errorf("category %q of record %s not found", r.CategoryID, r.ID)
	}
	cat := s.Categories[ci].clone()

	// costPerShareNative = (originalCostBase / shares) / fxRate
	costPerShare := r.OriginalCostBase.Div(r.Shares).DivRate(r.FXRate, r.PriceNative.Currency())
	rebuilt := Lot{
		ID:                  newID(),
		AcquisitionTime:     r.Time,
		Shares:              r.Shares,
		CostPerShareNative:  costPerShare,
		FXRateAtAcquisition: r.FXRate,
	}

	ii := cat.instrumentIndexByID(r.InstrumentID)
	if ii < 0 {
		ins := Instrument{
			ID:     r.InstrumentID,
			Symbol: r.Symbol,
			Shares: r.Shares,
			Lots:   []Lot{rebuilt},
		}
		cat.Instruments = append(cat.Instruments, ins)
	} else {
		ins := cat.Instruments[ii].clone()
		ins.Lots = lots(ins.Lots).insertSorted(rebuilt)
		ins.Shares = ins.Shares.Add(r.Shares)
		cat.Instruments[ii] = ins
	}

	out := s
	out.Categories = slices.Clone(s.Categories)
	out.Categories[ci] = cat
	return out, nil
}

// removeRecord returns a new slice without the identified record.
func removeRecord(records []TransactionRecord, id string) []TransactionRecord {
	out := make([]TransactionRecord, 0, len(records)-1)
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}
