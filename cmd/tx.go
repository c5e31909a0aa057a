package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
	"github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001/renderer"
)

type txCmd struct {
	category string
	symbol   string
	head     int
	tail     int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transaction records in the ledger" }
func (*txCmd) Usage() string {
	return `lfp tx [-cat <category>] [-s <symbol>] [-head <n>] [-tail <n>]

  Lists transaction records, with options for filtering and limiting the
  output. Record ids shown here are the ones lfp revoke takes.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.category, "cat", "", "Only records of this category.")
	f.StringVar(&p.symbol, "s", "", "Only records of this symbol.")
	f.IntVar(&p.head, "head", 0, "Show only the first N records.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N records.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}
	state, _, err := loadState(cfg)
	if err != nil {
		return fail(err)
	}

	var records []portfolio.TransactionRecord
	for _, r := range state.Records {
		if p.category != "" && r.CategoryID != p.category {
			continue
		}
		if p.symbol != "" && r.Symbol != p.symbol {
			continue
		}
		records = append(records, r)
	}

	if p.head > 0 && len(records) > p.head {
		records = records[:p.head]
	}
	if p.tail > 0 && len(records) > p.tail {
		records = records[len(records)-p.tail:]
	}

	printMarkdown(renderer.Records(records))
	return subcommands.ExitSuccess
}
