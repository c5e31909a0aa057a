package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
)

type categoryCmd struct {
	name       string
	domain     string
	allocation float64
}

func (*categoryCmd) Name() string     { return "category" }
func (*categoryCmd) Synopsis() string { return "add a capital-allocation category, or list them" }
func (*categoryCmd) Usage() string {
	return `lfp category [-name <name> -domain <market> -alloc <percent>]

  With -name, adds a new category claiming the given percentage of total
  capital on the given market (e.g. TW, US). Without flags, lists the
  existing categories. Allocations are advisory: their sum may exceed 100%,
  and over-allocation is only ever flagged in reports.
`
}

func (p *categoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Name of the category to add.")
	f.StringVar(&p.domain, "domain", "TW", "Currency domain (market) of the category.")
	f.Float64Var(&p.allocation, "alloc", 0, "Percentage of total capital allocated to the category.")
}

func (p *categoryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	if p.name == "" {
		return p.list(cfg)
	}

	cat := portfolio.NewCategory(p.name, strings.ToUpper(p.domain), portfolio.Percent(p.allocation))
	next, err := commit(cfg, portfolio.NewAddCategory(time.Now().UTC(), cat))
	if err != nil {
		return fail(err)
	}

	added := next.Categories[len(next.Categories)-1]
	fmt.Printf("Added category %q (%s) with id %s\n", added.Name, added.CurrencyDomain, added.ID)
	return subcommands.ExitSuccess
}

func (p *categoryCmd) list(cfg *Config) subcommands.ExitStatus {
	state, _, err := loadState(cfg)
	if err != nil {
		return fail(err)
	}
	var sb strings.Builder
	sb.WriteString("# Categories\n\n")
	sb.WriteString("| Id | Name | Market | Allocation | Holdings |\n| --- | --- | --- | --- | --- |\n")
	for _, c := range state.Categories {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %d |\n",
			c.ID, c.Name, c.CurrencyDomain, c.AllocationPercent, len(c.Instruments))
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}
