package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
	"github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001/renderer"
)

type sellCmd struct {
	category string
	symbol   string
	shares   string
	price    string
	currency string
	fxRate   string
	fee      string
	tax      string
	date     string
	note     string
	quote    bool
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the disposal of shares" }
func (*sellCmd) Usage() string {
	return `lfp sell -cat <category> -s <symbol> -n <shares> -p <price> [-c <currency>]
        [-fx <rate>] [-fee <amount>] [-tax <amount>] [-d <date>] [-quote]

  Records a sell order. Lots are consumed oldest first; the realized result
  is reported against the consumed lots' original cost. Selling more shares
  than the position holds is rejected before anything changes.
`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.category, "cat", "", "Id of the category to sell from.")
	f.StringVar(&p.symbol, "s", "", "Ticker symbol of the instrument.")
	f.StringVar(&p.shares, "n", "", "Number of shares to sell.")
	f.StringVar(&p.price, "p", "", "Price per share in the native currency.")
	f.StringVar(&p.currency, "c", "", "Native currency of the price (default: base currency).")
	f.StringVar(&p.fxRate, "fx", "", "Exchange rate from the native to the base currency (default 1).")
	f.StringVar(&p.fee, "fee", "", "Transaction fee in the native currency.")
	f.StringVar(&p.tax, "tax", "", "Transaction tax in the native currency.")
	f.StringVar(&p.date, "d", "", "Effective date (YYYY-MM-DD or RFC 3339, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note attached to the order.")
	f.BoolVar(&p.quote, "quote", false, "Pre-fill the price from the quote endpoint when -p is omitted.")
}

func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	sell := portfolio.NewSell(at, p.note, p.category, p.symbol, shares, price, fx, fee, tax)
	next, err := portfolio.ApplyAll(state, []portfolio.Command{sell})
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
