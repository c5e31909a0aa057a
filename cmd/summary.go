package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
	"github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001/renderer"
)

type summaryCmd struct {
	quote    bool
	bySector bool
	byMonth  bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the valuation of the portfolio" }
func (*summaryCmd) Usage() string {
	return `lfp summary [-quote] [-sector] [-month]

  Displays capital, per-category budgets, holdings with unrealized results,
  and realized results. With -quote, current prices are fetched from the
  quote endpoint; symbols that fail to quote fall back to their last
  recorded price. The view is derived: nothing here mutates the ledger.
`
}

func (p *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.quote, "quote", false, "Fetch current prices from the quote endpoint.")
	f.BoolVar(&p.bySector, "sector", false, "Append realized P&L grouped by sector.")
	f.BoolVar(&p.byMonth, "month", false, "Append realized P&L grouped by month.")
}

func (p *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	state, _, err := loadState(cfg)
	if err != nil {
		return fail(err)
	}

	snap := portfolio.NewPriceSnapshot()
	for currency, rate := range cfg.FXRates {
		snap = snap.WithRate(currency, decimal.NewFromFloat(rate))
	}
	if p.quote {
		snap = quotePrices(cfg, state, snap)
	}

	var v portfolio.Valuator
	view := v.Valuate(state, snap)

	var sb strings.Builder
	sb.WriteString(renderer.Summary(view))
	if p.bySector {
		sb.WriteString("\n")
		sb.WriteString(renderer.RealizedRows("Sector", portfolio.RealizedBySector(state)))
	}
	if p.byMonth {
		sb.WriteString("\n")
		sb.WriteString(renderer.RealizedRows("Month", portfolio.RealizedByMonth(state)))
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}

// quotePrices fetches current prices for every held symbol. Failures are
// reported and the affected symbols keep their last recorded price.
func quotePrices(cfg *Config, state portfolio.State, snap portfolio.PriceSnapshot) portfolio.PriceSnapshot {
	symbols := make(map[string]string)
	for _, cat := range state.Categories {
		for _, ins := range cat.Instruments {
			symbols[ins.Symbol] = cat.CurrencyDomain
		}
	}
	if len(symbols) == 0 {
		return snap
	}

	prices, err := quoteProvider(cfg).QuoteAll(symbols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some quotes are unavailable, using last recorded prices:\n%v\n", err)
	}
	for symbol, price := range prices {
		snap = snap.WithPrice(symbol, price)
	}
	return snap
}
