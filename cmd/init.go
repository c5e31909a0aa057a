package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type initCmd struct {
	ledgerFile string
	currency   string
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the configuration and an empty ledger" }
func (*initCmd) Usage() string {
	return `lfp init [-l <ledger_file>] [-c <currency>]

  Writes the configuration file and creates an empty ledger denominated in
  the chosen base currency. Running init on an existing ledger is safe: the
  ledger file is only created when missing.
`
}

func (p *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledgerFile, "l", "ledger.json", "Path of the ledger file.")
	f.StringVar(&p.currency, "c", "TWD", "Base currency of the ledger.")
}

func (p *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	cfg.LedgerFile = p.ledgerFile
	cfg.BaseCurrency = p.currency
	if err := SaveConfig(cfg); err != nil {
		return fail(err)
	}

	state, store, err := loadState(cfg)
	if err != nil {
		return fail(err)
	}
	store.Save(state)
	if err := store.Flush(); err != nil {
		return fail(err)
	}

	fmt.Printf("Initialized ledger %s in %s\n", cfg.LedgerFile, cfg.BaseCurrency)
	return subcommands.ExitSuccess
}
