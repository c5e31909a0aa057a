package portfolio

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind identifies the kind of an executed order.
type RecordKind string

const (
	KindBuy      RecordKind = "buy"
	KindSell     RecordKind = "sell"
	KindDividend RecordKind = "dividend"
)

// TransactionRecord is the immutable trace of an executed order. A record is
// appended by order execution and removed only by revocation, never edited.
//
// Kind-specific linkage is enforced by the constructors below: a buy record
// always carries the id of the lot it created, a sell record always carries
// the cost basis of the lots it consumed. Revocation depends on both.
type TransactionRecord struct {
	ID           string
	Time         time.Time
	Kind         RecordKind
	InstrumentID string
	Symbol       string
	CategoryID   string

	Shares      Quantity
	PriceNative Money
	FXRate      decimal.Decimal

	GrossAmountBase Money
	Fee             Money // base currency
	Tax             Money // base currency

	// LotID identifies the lot created by a buy. Mandatory for buys.
	LotID string
	// OriginalCostBase is the cost basis of the lots consumed by a sell,
	// captured at sell time. Mandatory for sells: revocation reconstructs the
	// lot from it, never from the sale price.
	OriginalCostBase Money
	// RealizedPnLBase is set on sells and dividends.
	RealizedPnLBase Money

	AllocationRatioDelta Percent
}

// newBuyRecord builds the record of an executed buy. lotID is the id of the
// lot the buy created.
func newBuyRecord(id string, at time.Time, instrumentID, symbol, categoryID, lotID string,
	shares Quantity, priceNative Money, fxRate decimal.Decimal,
	grossBase, fee, tax Money, ratioDelta Percent) TransactionRecord {
	return TransactionRecord{
		ID: id, Time: at, Kind: KindBuy,
		InstrumentID: instrumentID, Symbol: symbol, CategoryID: categoryID,
		LotID:  lotID,
		Shares: shares, PriceNative: priceNative, FXRate: fxRate,
		GrossAmountBase: grossBase, Fee: fee, Tax: tax,
		AllocationRatioDelta: ratioDelta,
	}
}

// newSellRecord builds the record of an executed sell. originalCostBase is
// the consumed lots' cost basis captured at sell time.
func newSellRecord(id string, at time.Time, instrumentID, symbol, categoryID string,
	shares Quantity, priceNative Money, fxRate decimal.Decimal,
	grossBase, fee, tax, originalCostBase, realized Money) TransactionRecord {
	return TransactionRecord{
		ID: id, Time: at, Kind: KindSell,
		InstrumentID: instrumentID, Symbol: symbol, CategoryID: categoryID,
		Shares: shares, PriceNative: priceNative, FXRate: fxRate,
		GrossAmountBase: grossBase, Fee: fee, Tax: tax,
		OriginalCostBase: originalCostBase, RealizedPnLBase: realized,
	}
}

// newDividendRecord builds the record of a dividend cash flow.
func newDividendRecord(id string, at time.Time, instrumentID, symbol, categoryID string,
	shares Quantity, priceNative Money, fxRate decimal.Decimal,
	grossBase, tax, realized Money) TransactionRecord {
	return TransactionRecord{
		ID: id, Time: at, Kind: KindDividend,
		InstrumentID: instrumentID, Symbol: symbol, CategoryID: categoryID,
		Shares: shares, PriceNative: priceNative, FXRate: fxRate,
		GrossAmountBase: grossBase, Tax: tax,
		RealizedPnLBase: realized,
	}
}

// MarshalJSON implements the json.Marshaler interface for TransactionRecord
// with a stable field order.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", r.ID)
	w.Append("time", r.Time.UTC().Format(time.RFC3339Nano))
	w.Append("kind", r.Kind)
	w.Append("instrumentId", r.InstrumentID)
	w.Append("symbol", r.Symbol)
	w.Append("categoryId", r.CategoryID)
	w.Append("shares", r.Shares)
	w.Append("priceNative", r.PriceNative.Amount())
	w.Append("priceCurrency", r.PriceNative.Currency())
	w.Append("fxRate", r.FXRate)
	w.Append("grossAmountBase", r.GrossAmountBase.Amount())
	w.Append("fee", r.Fee.Amount())
	w.Append("tax", r.Tax.Amount())
	w.Optional("lotId", r.LotID)
	if r.Kind == KindSell {
		w.Append("originalCostBase", r.OriginalCostBase.Amount())
	}
	if r.Kind != KindBuy {
		w.Append("realizedPnLBase", r.RealizedPnLBase.Amount())
	}
	w.Optional("allocationRatioDelta", float64(r.AllocationRatioDelta))
	return w.MarshalJSON()
}

// recordJSON mirrors the wire shape of TransactionRecord for decoding.
type recordJSON struct {
	ID                   string          `json:"id"`
	Time                 time.Time       `json:"time"`
	Kind                 RecordKind      `json:"kind"`
	InstrumentID         string          `json:"instrumentId"`
	Symbol               string          `json:"symbol"`
	CategoryID           string          `json:"categoryId"`
	Shares               Quantity        `json:"shares"`
	PriceNative          decimal.Decimal `json:"priceNative"`
	PriceCurrency        string          `json:"priceCurrency"`
	FXRate               decimal.Decimal `json:"fxRate"`
	GrossAmountBase      decimal.Decimal `json:"grossAmountBase"`
	Fee                  decimal.Decimal `json:"fee"`
	Tax                  decimal.Decimal `json:"tax"`
	LotID                string          `json:"lotId,omitempty"`
	OriginalCostBase     decimal.Decimal `json:"originalCostBase"`
	RealizedPnLBase      decimal.Decimal `json:"realizedPnLBase"`
	AllocationRatioDelta float64         `json:"allocationRatioDelta,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for
// TransactionRecord. Base-currency amounts are re-denominated by the decoder
// that knows the ledger's base currency; see decodeRecord.
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	var temp recordJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*r = temp.record("")
	return nil
}

func (t recordJSON) record(baseCurrency string) TransactionRecord {
	return TransactionRecord{
		ID: t.ID, Time: t.Time, Kind: t.Kind,
		InstrumentID: t.InstrumentID, Symbol: t.Symbol, CategoryID: t.CategoryID,
		Shares: t.Shares, PriceNative: M(t.PriceNative, t.PriceCurrency), FXRate: t.FXRate,
		GrossAmountBase:      M(t.GrossAmountBase, baseCurrency),
		Fee:                  M(t.Fee, baseCurrency),
		Tax:                  M(t.Tax, baseCurrency),
		LotID:                t.LotID,
		OriginalCostBase:     M(t.OriginalCostBase, baseCurrency),
		RealizedPnLBase:      M(t.RealizedPnLBase, baseCurrency),
		AllocationRatioDelta: Percent(t.AllocationRatioDelta),
	}
}
