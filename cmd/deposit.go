package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
)

type depositCmd struct {
	amount string
	date   string
	note   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record a capital deposit" }
func (*depositCmd) Usage() string {
	return `lfp deposit -a <amount> [-d <date>] [-note <text>]

  Appends a deposit to the capital log. Total capital is always recomputed
  from the full log, so the order of entries does not matter.
`
}

func (p *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.amount, "a", "", "Amount to deposit, in the base currency.")
	f.StringVar(&p.date, "d", "", "Effective date (YYYY-MM-DD or RFC 3339, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note attached to the entry.")
}

func (p *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeCapital(p.amount, p.date, p.note, portfolio.KindDeposit)
}

type withdrawCmd struct {
	amount string
	date   string
	note   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record a capital withdrawal" }
func (*withdrawCmd) Usage() string {
	return `lfp withdraw -a <amount> [-d <date>] [-note <text>]

  Appends a withdrawal to the capital log.
`
}

func (p *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.amount, "a", "", "Amount to withdraw, in the base currency.")
	f.StringVar(&p.date, "d", "", "Effective date (YYYY-MM-DD or RFC 3339, default now).")
	f.StringVar(&p.note, "note", "", "Free-form note attached to the entry.")
}

func (p *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return executeCapital(p.amount, p.date, p.note, portfolio.KindWithdraw)
}

func executeCapital(amount, date, note string, kind portfolio.CapitalKind) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	at, err := parseTime(date)
	if err != nil {
		return fail(err)
	}
	m, err := parseAmount(amount, cfg.BaseCurrency)
	if err != nil {
		return fail(err)
	}

	next, err := commit(cfg, portfolio.NewAddCapital(at, note, kind, m))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s of %s, total capital is now %s\n", kind, m, next.TotalCapital())
	return subcommands.ExitSuccess
}
