package portfolio

import (
	"slices"
	"time"
)

// Order execution. Each applyX function runs after the command validated
// against the input state; it builds the next state and the immutable record
// of the order. Lots and instruments are copied before modification so the
// input state stays intact.

func applyBuy(s State, cmd Buy) (State, error) {
	at := cmd.When()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	gross := cmd.PriceNative.Mul(cmd.Shares).Convert(cmd.FXRate, s.BaseCurrency)
	fee := cmd.FeeNative.Convert(cmd.FXRate, s.BaseCurrency)
	tax := cmd.TaxNative.Convert(cmd.FXRate, s.BaseCurrency)

	newLot := Lot{
		ID:                  newID(),
		AcquisitionTime:     at,
		Shares:              cmd.Shares,
		CostPerShareNative:  cmd.PriceNative,
		FXRateAtAcquisition: cmd.FXRate,
	}

	ci := s.categoryIndex(cmd.CategoryID)
	cat := s.Categories[ci].clone()

	var ins Instrument
	if ii := cat.instrumentIndex(cmd.Symbol); ii >= 0 {
		ins = cat.Instruments[ii].clone()
		ins.Lots = lots(ins.Lots).insertSorted(newLot)
		ins.Shares = ins.Shares.Add(cmd.Shares)
		cat.Instruments[ii] = ins
	} else {
		ins = Instrument{
			ID:          newID(),
			Symbol:      cmd.Symbol,
			DisplayName: cmd.DisplayName,
			Sector:      cmd.Sector,
			Shares:      cmd.Shares,
			Lots:        []Lot{newLot},
		}
		cat.Instruments = append(cat.Instruments, ins)
	}

	var ratioDelta Percent
	if budget := projectedInvestment(s.TotalCapital(), cat.AllocationPercent); budget.IsPositive() {
		ratioDelta = Percent(gross.Amount().Div(budget.Amount()).InexactFloat64() * 100)
	}

	record := newBuyRecord(newID(), at, ins.ID, cmd.Symbol, cmd.CategoryID, newLot.ID,
		cmd.Shares, cmd.PriceNative, cmd.FXRate, gross, fee, tax, ratioDelta)

	out := s
	out.Categories = slices.Clone(s.Categories)
	out.Categories[ci] = cat
	out.Records = append(slices.Clip(slices.Clone(s.Records)), record)
	out.touch(at)
	return out, nil
}

func applySell(s State, cmd Sell) (State, error) {
	at := cmd.When()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	gross := cmd.PriceNative.Mul(cmd.Shares).Convert(cmd.FXRate, s.BaseCurrency)
	fee := cmd.FeeNative.Convert(cmd.FXRate, s.BaseCurrency)
	tax := cmd.TaxNative.Convert(cmd.FXRate, s.BaseCurrency)

	ci := s.categoryIndex(cmd.CategoryID)
	cat := s.Categories[ci].clone()
	ii := cat.instrumentIndex(cmd.Symbol)
	ins := cat.Instruments[ii].clone()

	remaining, consumedCost := lots(ins.Lots).consume(cmd.Shares, s.BaseCurrency)
	ins.Lots = remaining
	ins.Shares = ins.Shares.Sub(cmd.Shares)

	// realizedPnL = gross - cost of consumed lots - fee - tax
	realized := gross.Sub(consumedCost).Sub(fee).Sub(tax)

	if ins.Shares.IsZero() {
		// A position sold out entirely leaves its category; revocation
		// recreates it if needed.
		cat.Instruments = slices.Delete(cat.Instruments, ii, ii+1)
	} else {
		cat.Instruments[ii] = ins
	}

	record := newSellRecord(newID(), at, ins.ID, cmd.Symbol, cmd.CategoryID,
		cmd.Shares, cmd.PriceNative, cmd.FXRate, gross, fee, tax, consumedCost, realized)

	out := s
	out.Categories = slices.Clone(s.Categories)
	out.Categories[ci] = cat
	out.Records = append(slices.Clip(slices.Clone(s.Records)), record)
	out.touch(at)
	return out, nil
}

func applyDividend(s State, cmd Dividend) (State, error) {
	at := cmd.When()
	if at.IsZero() {
		at = time.Now().UTC()
	}

	gross := cmd.AmountPerShare.Mul(cmd.Shares).Convert(cmd.FXRate, s.BaseCurrency)
	tax := cmd.TaxNative.Convert(cmd.FXRate, s.BaseCurrency)
	realized := gross.Sub(tax)

	// A dividend is a pure cash-flow event: it references the instrument when
	// one is held, and never touches lots.
	var instrumentID string
	cat := s.Categories[s.categoryIndex(cmd.CategoryID)]
	if ii := cat.instrumentIndex(cmd.Symbol); ii >= 0 {
		instrumentID = cat.Instruments[ii].ID
	}

	record := newDividendRecord(newID(), at, instrumentID, cmd.Symbol, cmd.CategoryID,
		cmd.Shares, cmd.AmountPerShare, cmd.FXRate, gross, tax, realized)

	out := s
	out.Records = append(slices.Clip(slices.Clone(s.Records)), record)
	out.touch(at)
	return out, nil
}
