package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CommandType is a typed string for identifying ledger commands.
type CommandType string

// Command types used for identifying ledger commands.
const (
	CmdBuy           CommandType = "buy"
	CmdSell          CommandType = "sell"
	CmdDividend      CommandType = "dividend"
	CmdRevoke        CommandType = "revoke"
	CmdAddCapital    CommandType = "add-capital"
	CmdRemoveCapital CommandType = "remove-capital"
	CmdAddCategory   CommandType = "add-category"
)

// Command defines the common interface of all state transitions. The reducer
// Apply validates a command against the current state before any mutation.
type Command interface {
	What() CommandType // What returns the command type (e.g., "buy", "sell").
	When() time.Time   // When returns the moment the command takes effect.
	Validate(s State) error
}

type baseCmd struct {
	Command CommandType
	Time    time.Time
	Note    string
}

// What returns the command type.
func (t baseCmd) What() CommandType { return t.Command }

// When returns the effective time of the command.
func (t baseCmd) When() time.Time { return t.Time }

// orderCmd is a component for order commands targeting an instrument inside a
// category (buy, sell, dividend).
type orderCmd struct {
	baseCmd
	CategoryID  string
	Symbol      string
	DisplayName string
	Sector      string
}

// validate checks the order command fields common to all order kinds.
func (t orderCmd) validate(s State) error {
	if t.Symbol == "" {
		return errors.New("order symbol is missing")
	}
	if s.categoryIndex(t.CategoryID) < 0 {
		return fmt.Errorf("category %q not found", t.CategoryID)
	}
	return nil
}

// Buy orders the acquisition of shares, creating a new lot.
type Buy struct {
	orderCmd
	Shares      Quantity
	PriceNative Money
	FXRate      decimal.Decimal
	FeeNative   Money
	TaxNative   Money
}

// NewBuy creates a new Buy command.
func NewBuy(at time.Time, note, categoryID, symbol string, shares Quantity, priceNative Money, fxRate decimal.Decimal, feeNative, taxNative Money) Buy {
	return Buy{
		orderCmd:    orderCmd{baseCmd: baseCmd{Command: CmdBuy, Time: at, Note: note}, CategoryID: categoryID, Symbol: symbol},
		Shares:      shares,
		PriceNative: priceNative,
		FXRate:      fxRate,
		FeeNative:   feeNative,
		TaxNative:   taxNative,
	}
}

// Validate checks the Buy command's fields: positive shares and price, a
// positive exchange rate, an existing category, and whole shares on markets
// without fractional trading.
func (t Buy) Validate(s State) error {
	if err := t.orderCmd.validate(s); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("buy shares must be positive, got %s", t.Shares)
	}
	if !t.PriceNative.IsPositive() {
		return fmt.Errorf("buy price must be positive, got %s", t.PriceNative)
	}
	if !t.FXRate.IsPositive() {
		return fmt.Errorf("buy fx rate must be positive, got %s", t.FXRate)
	}
	cat := s.Categories[s.categoryIndex(t.CategoryID)]
	if !cat.AllowsFractional() && !t.Shares.IsInteger() {
		return fmt.Errorf("market %q does not support fractional shares, got %s", cat.CurrencyDomain, t.Shares)
	}
	return nil
}

// Sell orders the disposal of shares, consuming lots oldest-first.
type Sell struct {
	orderCmd
	Shares      Quantity
	PriceNative Money
	FXRate      decimal.Decimal
	FeeNative   Money
	TaxNative   Money
}

// NewSell creates a new Sell command.
func NewSell(at time.Time, note, categoryID, symbol string, shares Quantity, priceNative Money, fxRate decimal.Decimal, feeNative, taxNative Money) Sell {
	return Sell{
		orderCmd:    orderCmd{baseCmd: baseCmd{Command: CmdSell, Time: at, Note: note}, CategoryID: categoryID, Symbol: symbol},
		Shares:      shares,
		PriceNative: priceNative,
		FXRate:      fxRate,
		FeeNative:   feeNative,
		TaxNative:   taxNative,
	}
}

// Validate checks the Sell command's fields, requires whole shares on markets
// without fractional trading, and verifies the position covers the ordered
// quantity. Oversells fail with ErrInsufficientShares before any mutation.
func (t Sell) Validate(s State) error {
	if err := t.orderCmd.validate(s); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("sell shares must be positive, got %s", t.Shares)
	}
	if !t.PriceNative.IsPositive() {
		return fmt.Errorf("sell price must be positive, got %s", t.PriceNative)
	}
	if !t.FXRate.IsPositive() {
		return fmt.Errorf("sell fx rate must be positive, got %s", t.FXRate)
	}
	cat := s.Categories[s.categoryIndex(t.CategoryID)]
	if !cat.AllowsFractional() && !t.Shares.IsInteger() {
		return fmt.Errorf("market %q does not support fractional shares, got %s", cat.CurrencyDomain, t.Shares)
	}
	i := cat.instrumentIndex(t.Symbol)
	if i < 0 {
		return fmt.Errorf("cannot sell %s of %s: %w: no position", t.Shares, t.Symbol, ErrInsufficientShares)
	}
	if cat.Instruments[i].Shares.LessThan(t.Shares) {
		return fmt.Errorf("cannot sell %s of %s, position is only %s: %w",
			t.Shares, t.Symbol, cat.Instruments[i].Shares, ErrInsufficientShares)
	}
	return nil
}

// Dividend records a cash dividend. It never mutates lots: it is a pure
// cash-flow event referencing the instrument if one exists.
type Dividend struct {
	orderCmd
	Shares         Quantity // shares the dividend was paid on
	AmountPerShare Money    // native currency, may be zero
	FXRate         decimal.Decimal
	TaxNative      Money
}

// NewDividend creates a new Dividend command.
func NewDividend(at time.Time, note, categoryID, symbol string, shares Quantity, amountPerShare Money, fxRate decimal.Decimal, taxNative Money) Dividend {
	return Dividend{
		orderCmd:       orderCmd{baseCmd: baseCmd{Command: CmdDividend, Time: at, Note: note}, CategoryID: categoryID, Symbol: symbol},
		Shares:         shares,
		AmountPerShare: amountPerShare,
		FXRate:         fxRate,
		TaxNative:      taxNative,
	}
}

// Validate checks the Dividend command's fields. A zero per-share amount is
// permitted, a negative one is not.
func (t Dividend) Validate(s State) error {
	if err := t.orderCmd.validate(s); err != nil {
		return err
	}
	if !t.Shares.IsPositive() {
		return fmt.Errorf("dividend shares must be positive, got %s", t.Shares)
	}
	if t.AmountPerShare.IsNegative() {
		return fmt.Errorf("dividend amount per share cannot be negative, got %s", t.AmountPerShare)
	}
	if !t.FXRate.IsPositive() {
		return fmt.Errorf("dividend fx rate must be positive, got %s", t.FXRate)
	}
	return nil
}

// Revoke reverses the most recent transaction record of an instrument within
// a category. Older records are not revocable.
type Revoke struct {
	baseCmd
	TransactionID string
}

// NewRevoke creates a new Revoke command.
func NewRevoke(at time.Time, transactionID string) Revoke {
	return Revoke{
		baseCmd:       baseCmd{Command: CmdRevoke, Time: at},
		TransactionID: transactionID,
	}
}

// Validate verifies the target record exists and is the newest for its
// instrument/category pair. The check runs against the state as it stands, so
// sequential revocations in one batch each re-validate after the previous one.
//
// A record whose symbol is meanwhile held as a different position (sold out,
// then re-bought under a fresh instrument) is not revocable: reversing it
// would put a second instrument with the same symbol in the category.
func (t Revoke) Validate(s State) error {
	r := s.recordByID(t.TransactionID)
	if r == nil {
		return fmt.Errorf("transaction %q not found: %w", t.TransactionID, ErrNotRevocable)
	}
	latest := s.latestRecordID(r.InstrumentID, r.CategoryID)
	if latest != r.ID {
		return fmt.Errorf("transaction %q is not the newest for %s in category %s: %w",
			t.TransactionID, r.Symbol, r.CategoryID, ErrNotRevocable)
	}
	if cat := s.Category(r.CategoryID); cat != nil {
		if i := cat.instrumentIndex(r.Symbol); i >= 0 && cat.Instruments[i].ID != r.InstrumentID {
			return fmt.Errorf("transaction %q: %s is now held as a different position: %w",
				t.TransactionID, r.Symbol, ErrNotRevocable)
		}
	}
	return nil
}

// AddCapital appends a deposit or withdrawal to the capital log.
type AddCapital struct {
	baseCmd
	Kind   CapitalKind
	Amount Money
}

// NewAddCapital creates a new AddCapital command.
func NewAddCapital(at time.Time, note string, kind CapitalKind, amount Money) AddCapital {
	return AddCapital{
		baseCmd: baseCmd{Command: CmdAddCapital, Time: at, Note: note},
		Kind:    kind,
		Amount:  amount,
	}
}

// Validate checks the AddCapital command's fields.
func (t AddCapital) Validate(s State) error {
	if t.Kind != KindDeposit && t.Kind != KindWithdraw {
		return fmt.Errorf("unknown capital entry kind %q", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("capital amount must be positive, got %s", t.Amount)
	}
	if t.Amount.Currency() != "" && t.Amount.Currency() != s.BaseCurrency {
		return fmt.Errorf("capital amount currency %s does not match base currency %s",
			t.Amount.Currency(), s.BaseCurrency)
	}
	return nil
}

// AddCategory creates a new capital-allocation category.
type AddCategory struct {
	baseCmd
	Category Category
}

// NewAddCategory creates a new AddCategory command. An empty category id is
// assigned at apply time.
func NewAddCategory(at time.Time, c Category) AddCategory {
	return AddCategory{
		baseCmd:  baseCmd{Command: CmdAddCategory, Time: at},
		Category: c,
	}
}

// Validate checks the new category: a name, an allocation claim that is a
// percentage, and no pre-seeded instruments. Claims are advisory, so their
// sum across categories may exceed 100.
func (t AddCategory) Validate(s State) error {
	if t.Category.Name == "" {
		return errors.New("category name is missing")
	}
	if t.Category.AllocationPercent < 0 || t.Category.AllocationPercent > 100 {
		return fmt.Errorf("category allocation must be between 0 and 100, got %s", t.Category.AllocationPercent)
	}
	if len(t.Category.Instruments) > 0 {
		return errors.New("a new category cannot hold instruments")
	}
	if t.Category.ID != "" && s.categoryIndex(t.Category.ID) >= 0 {
		return fmt.Errorf("category %q already exists", t.Category.ID)
	}
	return nil
}

// RemoveCapital removes an entry from the capital log.
type RemoveCapital struct {
	baseCmd
	EntryID string
}

// NewRemoveCapital creates a new RemoveCapital command.
func NewRemoveCapital(at time.Time, entryID string) RemoveCapital {
	return RemoveCapital{
		baseCmd: baseCmd{Command: CmdRemoveCapital, Time: at},
		EntryID: entryID,
	}
}

// Validate verifies the targeted capital log entry exists.
func (t RemoveCapital) Validate(s State) error {
	if s.Capital.entryIndex(t.EntryID) < 0 {
		return fmt.Errorf("capital log entry %q not found", t.EntryID)
	}
	return nil
}
