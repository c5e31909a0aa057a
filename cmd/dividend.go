package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
	"github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001/renderer"
)

type dividendCmd struct {
	category string
	symbol   string
	shares   string
	amount   string
	currency string
	fxRate   string
	tax      string
	date     string
	note     string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a cash dividend" }
func (*dividendCmd) Usage() string {
	return `lfp dividend -cat <category> -s <symbol> -n <shares> -a <amount_per_share>
        [-c <currency>] [-fx <rate>] [-tax <amount>] [-d <date>]

  Records a cash dividend. Dividends never touch lots or cost basis: they
  are pure cash-flow events counted into realized results.
`
}

func (p *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.category, "cat", "", "Id of the category holding the instrument.")
	f.StringVar(&p.symbol, "s", "", "Ticker symbol of the instrument.")
	f.StringVar(&p.shares, "n", "", "Number of shares the dividend was paid on.")
	f.StringVar(&p.amount, "a", "", "Dividend amount per share in the native currency.")
	f.StringVar(&p.currency, "c", "", "Native currency of the amount (default: base currency).")
	f.StringVar(&p.fxRate, "fx", "", "Exchange rate from the native to the base currency (default 1).")
	f.StringVar(&p.tax, "tax", "", "Withholding tax in the native currency.")
	f.StringVar(&p.date, "d", "", "Effective date (YYYY-MM-DD or RFC 3339, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note attached to the entry.")
}

func (p *dividendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	currency := p.currency
	if currency == "" {
		currency = cfg.BaseCurrency
	}
	amount, err := parseAmount(p.amount, currency)
	if err != nil {
		return fail(err)
	}
	fx, err := parseRate(p.fxRate)
	if err != nil {
		return fail(err)
	}
	tax, err := parseAmount(p.tax, currency)
	if err != nil {
		return fail(err)
	}

	div := portfolio.NewDividend(at, p.note, p.category, p.symbol, shares, amount, fx, tax)
	next, err := commit(cfg, div)
	if err != nil {
		return fail(err)
	}

	fmt.Println(renderer.Record(next.Records[len(next.Records)-1]))
	return subcommands.ExitSuccess
}
