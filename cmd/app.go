// Package cmd implements the CLI application to manage a multi-category
// portfolio ledger.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
)

// Commands lists every subcommand of the application. A main package
// registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&initCmd{},
	&categoryCmd{},
	&depositCmd{},
	&withdrawCmd{},
	&buyCmd{},
	&sellCmd{},
	&dividendCmd{},
	&revokeCmd{},
	&txCmd{},
	&summaryCmd{},
}

// loadState opens the configured ledger file. A missing file yields an empty
// ledger in the configured base currency.
func loadState(cfg *Config) (portfolio.State, *portfolio.Store, error) {
	store := portfolio.NewStore(cfg.LedgerFile)
	state, err := store.Load(cfg.BaseCurrency)
	if err != nil {
		return portfolio.State{}, nil, fmt.Errorf("could not load ledger %q: %w", cfg.LedgerFile, err)
	}
	return state, store, nil
}

// commit applies a batch of commands to the loaded state and persists the
// result. The batch is atomic: on error nothing is saved.
func commit(cfg *Config, cmds ...portfolio.Command) (portfolio.State, error) {
	state, store, err := loadState(cfg)
	if err != nil {
		return portfolio.State{}, err
	}
	next, err := portfolio.ApplyAll(state, cmds)
	if err != nil {
		return portfolio.State{}, err
	}
	store.Save(next)
	if err := store.Flush(); err != nil {
		return portfolio.State{}, err
	}
	return next, nil
}

// fail prints the error and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering is not possible.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// parseTime parses the -d flag: empty means now, a bare date means that day
// at midnight UTC, otherwise RFC 3339.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseQuantity parses a share quantity flag.
func parseQuantity(s string) (portfolio.Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return portfolio.Quantity{}, fmt.Errorf("invalid quantity %q: %w", s, err)
	}
	return portfolio.Q(d), nil
}

// parseAmount parses a monetary flag in the given currency. An empty string
// yields a zero amount.
func parseAmount(s, currency string) (portfolio.Money, error) {
	if s == "" {
		return portfolio.M(0, currency), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return portfolio.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return portfolio.M(d, currency), nil
}

// parseRate parses an exchange-rate flag, defaulting to 1 when empty.
func parseRate(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.NewFromInt(1), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid rate %q: %w", s, err)
	}
	return d, nil
}
