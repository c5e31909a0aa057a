package portfolio

import "slices"

// Instrument represents a held security inside a category. Its Shares field
// always equals the sum of its lots' shares.
type Instrument struct {
	ID                 string
	Symbol             string
	DisplayName        string
	Sector             string
	Shares             Quantity
	Lots               []Lot
	CurrentPriceNative Money
	Note               string
}

// CostBase returns the instrument's total cost basis in the base currency,
// computed from its lots.
func (i Instrument) CostBase(baseCurrency string) Money {
	return lots(i.Lots).costBase(baseCurrency)
}

// AvgCostBase returns the per-share average cost in the base currency, or
// zero if the instrument holds no shares.
func (i Instrument) AvgCostBase(baseCurrency string) Money {
	if i.Shares.IsZero() {
		return M(0, baseCurrency)
	}
	return i.CostBase(baseCurrency).Div(i.Shares)
}

// clone returns a deep copy with its own lot slice, so the original value is
// never mutated through the copy.
func (i Instrument) clone() Instrument {
	c := i
	c.Lots = slices.Clone(i.Lots)
	return c
}
