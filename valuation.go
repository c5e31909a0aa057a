package portfolio

import (
	"github.com/shopspring/decimal"
)

// PriceSnapshot is an immutable view of the latest known native prices and
// exchange rates. Snapshots are produced by price sources asynchronously and
// may be stale; they never participate in ledger mutation.
type PriceSnapshot struct {
	version uint64
	prices  map[string]Money           // by symbol, native currency
	rates   map[string]decimal.Decimal // currency -> base, current rate
}

// NewPriceSnapshot creates an empty snapshot.
func NewPriceSnapshot() PriceSnapshot {
	return PriceSnapshot{
		prices: make(map[string]Money),
		rates:  make(map[string]decimal.Decimal),
	}
}

// Version returns the snapshot's version token.
func (p PriceSnapshot) Version() uint64 { return p.version }

// Price returns the latest known native price for a symbol.
func (p PriceSnapshot) Price(symbol string) (Money, bool) {
	m, ok := p.prices[symbol]
	return m, ok
}

// Rate returns the current exchange rate from the given currency to the base
// currency, defaulting to 1 when unknown.
func (p PriceSnapshot) Rate(currency string) decimal.Decimal {
	if r, ok := p.rates[currency]; ok {
		return r
	}
	return decimal.NewFromInt(1)
}

// WithPrice returns a copy of the snapshot with the symbol's price set.
func (p PriceSnapshot) WithPrice(symbol string, price Money) PriceSnapshot {
	out := p.copyMaps()
	out.prices[symbol] = price
	out.version = p.version + 1
	return out
}

// WithRate returns a copy of the snapshot with the currency's rate set.
func (p PriceSnapshot) WithRate(currency string, rate decimal.Decimal) PriceSnapshot {
	out := p.copyMaps()
	out.rates[currency] = rate
	out.version = p.version + 1
	return out
}

func (p PriceSnapshot) copyMaps() PriceSnapshot {
	out := NewPriceSnapshot()
	for k, v := range p.prices {
		out.prices[k] = v
	}
	for k, v := range p.rates {
		out.rates[k] = v
	}
	return out
}

// InstrumentValue is the derived view of a single holding.
type InstrumentValue struct {
	Symbol            string
	DisplayName       string
	Shares            Quantity
	AvgCostBase       Money
	CostBase          Money
	MarketValueBase   Money
	UnrealizedPnLBase Money
	PortfolioRatio    Percent
}

// CategoryValue is the derived view of one capital-allocation bucket.
// Monetary aggregates are rounded to whole base-currency units for display.
type CategoryValue struct {
	ID                  string
	Name                string
	AllocationPercent   Percent
	ProjectedInvestment Money
	InvestedAmount      Money
	RemainingCash       Money
	OverAllocated       bool
	Instruments         []InstrumentValue
}

// CalculatedView is the full derived projection of the ledger state against a
// price snapshot. It is reporting-only and never feeds back into the ledger.
type CalculatedView struct {
	TotalCapital     Money
	TotalMarketValue Money
	TotalCostBase    Money
	TotalUnrealized  Money
	TotalRealized    Money
	Categories       []CategoryValue
}

// projectedInvestment sizes a category's budget: floor(total · percent / 100).
func projectedInvestment(totalCapital Money, percent Percent) Money {
	return totalCapital.Convert(decimal.NewFromFloat(float64(percent)/100), totalCapital.Currency()).Floor()
}

// Valuator derives CalculatedView values from (State, PriceSnapshot). The
// projection is pure; the valuator only memoizes the last result keyed on the
// state and snapshot version tokens.
type Valuator struct {
	stateVersion uint64
	snapVersion  uint64
	view         *CalculatedView
}

// Valuate recomputes the derived view when either input changed since the
// last call, and returns the memoized view otherwise.
func (v *Valuator) Valuate(s State, snap PriceSnapshot) *CalculatedView {
	if v.view != nil && v.stateVersion == s.Version && v.snapVersion == snap.Version() {
		return v.view
	}
	view := valuate(s, snap)
	v.view, v.stateVersion, v.snapVersion = view, s.Version, snap.Version()
	return view
}

func valuate(s State, snap PriceSnapshot) *CalculatedView {
	base := s.BaseCurrency
	total := s.TotalCapital()

	view := &CalculatedView{
		TotalCapital:     total.Round(),
		TotalMarketValue: M(0, base),
		TotalCostBase:    M(0, base),
		TotalUnrealized:  M(0, base),
		TotalRealized:    M(0, base),
	}

	for _, cat := range s.Categories {
		budget := projectedInvestment(total, cat.AllocationPercent)
		cv := CategoryValue{
			ID:                  cat.ID,
			Name:                cat.Name,
			AllocationPercent:   cat.AllocationPercent,
			ProjectedInvestment: budget,
			InvestedAmount:      cat.InvestedAmount(base).Round(),
			RemainingCash:       remainingCash(s, cat.ID, budget).Round(),
		}

		var ratioSum Percent
		for _, ins := range cat.Instruments {
			iv := valuateInstrument(ins, snap, base, budget)
			ratioSum += iv.PortfolioRatio
			view.TotalMarketValue = view.TotalMarketValue.Add(iv.MarketValueBase)
			view.TotalCostBase = view.TotalCostBase.Add(iv.CostBase)
			view.TotalUnrealized = view.TotalUnrealized.Add(iv.UnrealizedPnLBase)
			cv.Instruments = append(cv.Instruments, iv)
		}
		// Over-allocation is flagged, never rejected.
		cv.OverAllocated = ratioSum > 100
		view.Categories = append(view.Categories, cv)
	}

	for _, r := range s.Records {
		if r.Kind != KindBuy {
			view.TotalRealized = view.TotalRealized.Add(r.RealizedPnLBase)
		}
	}

	view.TotalMarketValue = view.TotalMarketValue.Round()
	view.TotalCostBase = view.TotalCostBase.Round()
	view.TotalUnrealized = view.TotalUnrealized.Round()
	view.TotalRealized = view.TotalRealized.Round()
	return view
}

func valuateInstrument(ins Instrument, snap PriceSnapshot, base string, budget Money) InstrumentValue {
	price, ok := snap.Price(ins.Symbol)
	if !ok {
		// Stale or missing quotes fall back to the last recorded price.
		price = ins.CurrentPriceNative
	}
	// Market value uses the current rate, not the acquisition rate.
	market := price.Mul(ins.Shares).Convert(snap.Rate(price.Currency()), base)
	cost := ins.CostBase(base)

	var ratio Percent
	if budget.IsPositive() {
		ratio = Percent(cost.Amount().Div(budget.Amount()).InexactFloat64() * 100)
	}

	return InstrumentValue{
		Symbol:            ins.Symbol,
		DisplayName:       ins.DisplayName,
		Shares:            ins.Shares,
		AvgCostBase:       ins.AvgCostBase(base),
		CostBase:          cost,
		MarketValueBase:   market,
		UnrealizedPnLBase: market.Sub(cost),
		PortfolioRatio:    ratio,
	}
}

// remainingCash adjusts a category's projected budget by its historical cash
// flow: buys subtract gross plus fee, sells add gross net of fee and tax,
// dividends add gross net of tax.
func remainingCash(s State, categoryID string, budget Money) Money {
	cash := budget
	for _, r := range s.Records {
		if r.CategoryID != categoryID {
			continue
		}
		switch r.Kind {
		case KindBuy:
			cash = cash.Sub(r.GrossAmountBase).Sub(r.Fee)
		case KindSell:
			cash = cash.Add(r.GrossAmountBase).Sub(r.Fee).Sub(r.Tax)
		case KindDividend:
			cash = cash.Add(r.GrossAmountBase).Sub(r.Tax)
		}
	}
	return cash
}
