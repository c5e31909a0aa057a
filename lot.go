package portfolio

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot represents a single acquisition batch of shares at a fixed
// native-currency price and exchange rate, used for FIFO cost tracking.
type Lot struct {
	ID                  string
	AcquisitionTime     time.Time
	Shares              Quantity
	CostPerShareNative  Money
	FXRateAtAcquisition decimal.Decimal
}

// CostBase returns the lot's total cost converted to the base currency at the
// acquisition exchange rate.
func (l Lot) CostBase(baseCurrency string) Money {
	return l.CostPerShareNative.Mul(l.Shares).Convert(l.FXRateAtAcquisition, baseCurrency)
}

type lots []Lot

// totalShares sums the shares across all lots.
func (l lots) totalShares() Quantity {
	var total Quantity
	for _, lot := range l {
		total = total.Add(lot.Shares)
	}
	return total
}

// costBase sums the cost basis of all lots in the base currency.
func (l lots) costBase(baseCurrency string) Money {
	total := M(0, baseCurrency)
	for _, lot := range l {
		total = total.Add(lot.CostBase(baseCurrency))
	}
	return total
}

// consume removes quantityToSell shares oldest-first and returns the surviving
// lots along with the cost basis of the consumed shares. A partially consumed
// lot is replaced by a reduced-shares copy; lot values already in the slice
// are never mutated.
func (l lots) consume(quantityToSell Quantity, baseCurrency string) (remaining lots, consumedCost Money) {
	consumedCost = M(0, baseCurrency)
	remaining = make(lots, 0, len(l))

	for _, currentLot := range l {
		if quantityToSell.IsZero() || quantityToSell.IsNegative() {
			remaining = append(remaining, currentLot)
			continue
		}

		if currentLot.Shares.GreaterThan(quantityToSell) {
			// Partial sale from this lot.
			soldCost := currentLot.CostPerShareNative.Mul(quantityToSell).Convert(currentLot.FXRateAtAcquisition, baseCurrency)
			consumedCost = consumedCost.Add(soldCost)

			reduced := currentLot
			reduced.Shares = currentLot.Shares.Sub(quantityToSell)
			remaining = append(remaining, reduced)
			quantityToSell = Q(0)
		} else {
			// Full sale of this lot.
			consumedCost = consumedCost.Add(currentLot.CostBase(baseCurrency))
			quantityToSell = quantityToSell.Sub(currentLot.Shares)
		}
	}
	return remaining, consumedCost
}

// insertSorted returns a new slice with the lot inserted, keeping lots in
// ascending acquisition-time order.
func (l lots) insertSorted(x Lot) lots {
	out := make(lots, 0, len(l)+1)
	inserted := false
	for _, lot := range l {
		if !inserted && x.AcquisitionTime.Before(lot.AcquisitionTime) {
			out = append(out, x)
			inserted = true
		}
		out = append(out, lot)
	}
	if !inserted {
		out = append(out, x)
	}
	return out
}

// removeByID returns a new slice without the identified lot.
func (l lots) removeByID(id string) (lots, Lot, bool) {
	for i, lot := range l {
		if lot.ID == id {
			out := make(lots, 0, len(l)-1)
			out = append(out, l[:i]...)
			out = append(out, l[i+1:]...)
			return out, lot, true
		}
	}
	return l, Lot{}, false
}

// latestIndex returns the index of the lot with the most recent acquisition
// time, or -1 for an empty slice.
func (l lots) latestIndex() int {
	latest := -1
	for i, lot := range l {
		if latest < 0 || lot.AcquisitionTime.After(l[latest].AcquisitionTime) {
			latest = i
		}
	}
	return latest
}

// removeAt returns a new slice without the lot at index i.
func (l lots) removeAt(i int) (lots, Lot) {
	out := make(lots, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out, l[i]
}
