package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
	"github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001/renderer"
)

type buyCmd struct {
	category string
	symbol   string
	shares   string
	price    string
	currency string
	fxRate   string
	fee      string
	tax      string
	name     string
	sector   string
	date     string
	note     string
	quote    bool
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the acquisition of shares" }
func (*buyCmd) Usage() string {
	return `lfp buy -cat <category> -s <symbol> -n <shares> -p <price> [-c <currency>]
        [-fx <rate>] [-fee <amount>] [-tax <amount>] [-name <display name>]
        [-sector <sector>] [-d <date>] [-quote]

  Records a buy order in a category, creating a new acquisition lot. With
  -quote the price is pre-filled from the quote endpoint when -p is omitted;
  the recorded price is always the one printed, never silently refreshed.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.category, "cat", "", "Id of the category to buy into.")
	f.StringVar(&p.symbol, "s", "", "Ticker symbol of the instrument.")
	f.StringVar(&p.shares, "n", "", "Number of shares to buy.")
	f.StringVar(&p.price, "p", "", "Price per share in the native currency.")
	f.StringVar(&p.currency, "c", "", "Native currency of the price (default: base currency).")
	f.StringVar(&p.fxRate, "fx", "", "Exchange rate from the native to the base currency (default 1).")
	f.StringVar(&p.fee, "fee", "", "Transaction fee in the native currency.")
	f.StringVar(&p.tax, "tax", "", "Transaction tax in the native currency.")
	f.StringVar(&p.name, "name", "", "Display name, used when the instrument is new.")
	f.StringVar(&p.sector, "sector", "", "Sector, used when the instrument is new.")
	f.StringVar(&p.date, "d", "", "Effective date (YYYY-MM-DD or RFC 3339, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note attached to the order.")
	f.BoolVar(&p.quote, "quote", false, "Pre-fill the price from the quote endpoint when -p is omitted.")
}

func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	at, err := parseTime(p.date)
	if err != nil {
		return fail(err)
	}
	shares, err := parseQuantity(p.shares)
	if err != nil {
		return fail(err)
	}

	state, store, err := loadState(cfg)
	if err != nil {
		return fail(err)
	}

	price, err := orderPrice(cfg, state, p.category, p.symbol, p.price, p.currency, p.quote)
	if err != nil {
		return fail(err)
	}
	fx, err := parseRate(p.fxRate)
	if err != nil {
		return fail(err)
	}
	fee, err := parseAmount(p.fee, price.Currency())
	if err != nil {
		return fail(err)
	}
	tax, err := parseAmount(p.tax, price.Currency())
	if err != nil {
		return fail(err)
	}

	buy := portfolio.NewBuy(at, p.note, p.category, p.symbol, shares, price, fx, fee, tax)
	buy.DisplayName = p.name
	buy.Sector = p.sector

	next, err := portfolio.ApplyAll(state, []portfolio.Command{buy})
	if err != nil {
		return fail(err)
	}
	store.Save(next)
	if err := store.Flush(); err != nil {
		return fail(err)
	}

	fmt.Println(renderer.Record(next.Records[len(next.Records)-1]))
	return subcommands.ExitSuccess
}

// orderPrice resolves the native price of an order: the explicit -p value
// when given, otherwise a live quote when -quote is set. A quoted price is a
// convenience default, never authoritative: it is printed before recording.
func orderPrice(cfg *Config, state portfolio.State, categoryID, symbol, explicit, currency string, quote bool) (portfolio.Money, error) {
	if currency == "" {
		currency = cfg.BaseCurrency
	}
	if explicit != "" {
		return parseAmount(explicit, currency)
	}
	if !quote {
		return portfolio.Money{}, fmt.Errorf("price is required (use -p, or -quote to fetch one)")
	}

	cat := state.Category(categoryID)
	if cat == nil {
		return portfolio.Money{}, fmt.Errorf("category %q not found", categoryID)
	}
	price, err := quoteProvider(cfg).Quote(symbol, cat.CurrencyDomain)
	if err != nil {
		return portfolio.Money{}, err
	}
	if price.Currency() == "" {
		price = portfolio.M(price.Amount(), currency)
	}
	fmt.Printf("Using quoted price %s for %s\n", price, symbol)
	return price, nil
}

// quoteProvider builds the price source from the configuration.
func quoteProvider(cfg *Config) *portfolio.QuoteProvider {
	p := portfolio.NewQuoteProvider(cfg.QuoteURL, cfg.QuoteAPIKey)
	if cfg.QuotePricePath != "" {
		p.PricePath = cfg.QuotePricePath
	}
	if cfg.QuoteCurrencyPath != "" {
		p.CurrencyPath = cfg.QuoteCurrencyPath
	}
	return p
}
