package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
)

type revokeCmd struct {
	id string
}

func (*revokeCmd) Name() string     { return "revoke" }
func (*revokeCmd) Synopsis() string { return "reverse the most recent transaction of an instrument" }
func (*revokeCmd) Usage() string {
	return `lfp revoke -id <transaction_id>

  Reverses a transaction exactly: a revoked buy removes the lot it created,
  a revoked sell restores the consumed shares at their original cost, a
  revoked dividend removes the cash-flow record. Only the newest transaction
  of an instrument within its category can be revoked; revoke newest-first
  to unwind several.
`
}

func (p *revokeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the transaction to revoke (see lfp tx).")
}

func (p *revokeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.id == "" {
		fmt.Println(p.Usage())
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		return fail(err)
	}

	_, err = commit(cfg, portfolio.NewRevoke(time.Now().UTC(), p.id))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Revoked transaction %s\n", p.id)
	return subcommands.ExitSuccess
}
