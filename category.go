package portfolio

import "slices"

// fractionalDomains lists the currency domains whose markets support
// fractional share trading.
var fractionalDomains = map[string]bool{
	"US": true,
}

// Category is a capital-allocation bucket with a percentage claim on the
// portfolio's total capital. It owns a set of instruments.
type Category struct {
	ID                string
	Name              string
	CurrencyDomain    string
	AllocationPercent Percent
	Instruments       []Instrument
}

// NewCategory creates a category with a fresh id and no instruments.
func NewCategory(name, currencyDomain string, allocation Percent) Category {
	return Category{ID: newID(), Name: name, CurrencyDomain: currencyDomain, AllocationPercent: allocation}
}

// AllowsFractional reports whether the category's market supports fractional
// share quantities. Other markets floor quantities to whole shares.
func (c Category) AllowsFractional() bool {
	return fractionalDomains[c.CurrencyDomain]
}

// instrumentIndex finds an instrument by symbol, returning -1 when absent.
func (c Category) instrumentIndex(symbol string) int {
	for i, ins := range c.Instruments {
		if ins.Symbol == symbol {
			return i
		}
	}
	return -1
}

// instrumentIndexByID finds an instrument by id, returning -1 when absent.
func (c Category) instrumentIndexByID(id string) int {
	for i, ins := range c.Instruments {
		if ins.ID == id {
			return i
		}
	}
	return -1
}

// InvestedAmount sums the cost basis of all instruments in the base currency.
func (c Category) InvestedAmount(baseCurrency string) Money {
	total := M(0, baseCurrency)
	for _, ins := range c.Instruments {
		total = total.Add(ins.CostBase(baseCurrency))
	}
	return total
}

// clone returns a copy with its own instrument slice. Instruments themselves
// are cloned lazily by the mutation that touches them.
func (c Category) clone() Category {
	d := c
	d.Instruments = slices.Clone(c.Instruments)
	return d
}
