package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The serialized state is the full {capitalLog, categories, transactions}
// tree plus a lastModified timestamp used for trivial conflict resolution:
// the most recent timestamp wins wholesale, there is no field-level merge.

// MarshalJSON implements the json.Marshaler interface for Lot.
func (l Lot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", l.ID)
	w.Append("acquisitionTime", l.AcquisitionTime.UTC().Format(time.RFC3339Nano))
	w.Append("shares", l.Shares)
	w.Append("costPerShareNative", l.CostPerShareNative.Amount())
	w.Append("currency", l.CostPerShareNative.Currency())
	w.Append("fxRateAtAcquisition", l.FXRateAtAcquisition)
	return w.MarshalJSON()
}

type lotJSON struct {
	ID                  string          `json:"id"`
	AcquisitionTime     time.Time       `json:"acquisitionTime"`
	Shares              Quantity        `json:"shares"`
	CostPerShareNative  decimal.Decimal `json:"costPerShareNative"`
	Currency            string          `json:"currency"`
	FXRateAtAcquisition decimal.Decimal `json:"fxRateAtAcquisition"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Lot.
func (l *Lot) UnmarshalJSON(data []byte) error {
	var temp lotJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*l = Lot{
		ID:                  temp.ID,
		AcquisitionTime:     temp.AcquisitionTime,
		Shares:              temp.Shares,
		CostPerShareNative:  M(temp.CostPerShareNative, temp.Currency),
		FXRateAtAcquisition: temp.FXRateAtAcquisition,
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Instrument.
func (i Instrument) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", i.ID)
	w.Append("symbol", i.Symbol)
	w.Optional("displayName", i.DisplayName)
	w.Optional("sector", i.Sector)
	w.Append("shares", i.Shares)
	w.Append("lots", i.Lots)
	if !i.CurrentPriceNative.IsZero() {
		w.Append("currentPriceNative", i.CurrentPriceNative.Amount())
		w.Append("priceCurrency", i.CurrentPriceNative.Currency())
	}
	w.Optional("note", i.Note)
	return w.MarshalJSON()
}

type instrumentJSON struct {
	ID                 string          `json:"id"`
	Symbol             string          `json:"symbol"`
	DisplayName        string          `json:"displayName,omitempty"`
	Sector             string          `json:"sector,omitempty"`
	Shares             Quantity        `json:"shares"`
	Lots               []Lot           `json:"lots"`
	CurrentPriceNative decimal.Decimal `json:"currentPriceNative"`
	PriceCurrency      string          `json:"priceCurrency,omitempty"`
	Note               string          `json:"note,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Instrument.
func (i *Instrument) UnmarshalJSON(data []byte) error {
	var temp instrumentJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*i = Instrument{
		ID:          temp.ID,
		Symbol:      temp.Symbol,
		DisplayName: temp.DisplayName,
		Sector:      temp.Sector,
		Shares:      temp.Shares,
		Lots:        temp.Lots,
		Note:        temp.Note,
	}
	if !temp.CurrentPriceNative.IsZero() {
		i.CurrentPriceNative = M(temp.CurrentPriceNative, temp.PriceCurrency)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Category.
func (c Category) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", c.ID)
	w.Append("name", c.Name)
	w.Append("currencyDomain", c.CurrencyDomain)
	w.Append("allocationPercent", float64(c.AllocationPercent))
	w.Append("instruments", c.Instruments)
	return w.MarshalJSON()
}

type categoryJSON struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	CurrencyDomain    string       `json:"currencyDomain"`
	AllocationPercent float64      `json:"allocationPercent"`
	Instruments       []Instrument `json:"instruments"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Category.
func (c *Category) UnmarshalJSON(data []byte) error {
	var temp categoryJSON
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*c = Category{
		ID:                temp.ID,
		Name:              temp.Name,
		CurrencyDomain:    temp.CurrencyDomain,
		AllocationPercent: Percent(temp.AllocationPercent),
		Instruments:       temp.Instruments,
	}
	return nil
}

// EncodeState writes the full serialized state tree as indented JSON.
func EncodeState(w io.Writer, s State) error {
	var o jsonObjectWriter
	o.Append("baseCurrency", s.BaseCurrency)
	o.Append("lastModified", s.LastModified.UTC().Format(time.RFC3339Nano))
	o.Append("capitalLog", s.Capital)
	o.Append("categories", s.Categories)
	o.Append("transactions", s.Records)
	raw, err := o.MarshalJSON()
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}
	var buf []byte
	buf, err = indentJSON(raw)
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("could not write state: %w", err)
	}
	return nil
}

func indentJSON(raw []byte) ([]byte, error) {
	var out json.RawMessage = raw
	return json.MarshalIndent(out, "", "  ")
}

type capitalEntryJSON struct {
	ID       string          `json:"id"`
	Time     time.Time       `json:"time"`
	Kind     CapitalKind     `json:"kind"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Note     string          `json:"note,omitempty"`
}

type stateJSON struct {
	BaseCurrency string             `json:"baseCurrency"`
	LastModified time.Time          `json:"lastModified"`
	CapitalLog   []capitalEntryJSON `json:"capitalLog"`
	Categories   []Category         `json:"categories"`
	Transactions []recordJSON       `json:"transactions"`
}

// DecodeState reads a serialized state tree back into a State value.
func DecodeState(r io.Reader) (State, error) {
	var temp stateJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&temp); err != nil {
		return State{}, fmt.Errorf("could not decode state: %w", err)
	}

	s := State{
		BaseCurrency: temp.BaseCurrency,
		LastModified: temp.LastModified,
		Categories:   temp.Categories,
	}
	for _, e := range temp.CapitalLog {
		s.Capital = append(s.Capital, CapitalLogEntry{
			ID:     e.ID,
			Time:   e.Time,
			Kind:   e.Kind,
			Amount: M(e.Amount, e.Currency),
			Note:   e.Note,
		})
	}
	for _, t := range temp.Transactions {
		s.Records = append(s.Records, t.record(temp.BaseCurrency))
	}
	return s, nil
}
