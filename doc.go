// Package portfolio implements a multi-category securities ledger: it records
// buy, sell, and dividend orders, maintains per-instrument FIFO cost-basis
// lots, derives realized and unrealized profit and loss, and allows the most
// recent transaction of an instrument to be reversed exactly.
//
// The core is a pure reducer over an immutable State value:
//
//	next, err := portfolio.Apply(state, portfolio.NewBuy(...))
//
// Commands (Buy, Sell, Dividend, Revoke, AddCapital, RemoveCapital,
// AddCategory) validate
// against the current state before any mutation, so a failed command leaves
// the state untouched and partially-applied states are never observable.
// Batches fold through ApplyAll and reject atomically.
//
// Valuation is a separate pure projection from (State, PriceSnapshot) to a
// CalculatedView with market values, unrealized and realized P&L, and
// allocation ratios. Price lookup and persistence are asynchronous
// collaborators, deliberately decoupled from ledger mutation.
//
// This package serves as the foundational logic for the `lfp` command-line
// tool.
package portfolio
