package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tesujimath/limabean/ast"
)

// AccountNotOpenError is returned when a directive references an account
// that either doesn't exist or isn't open on the directive's date.
type AccountNotOpenError struct {
	Date    *ast.Date
	Account ast.Account
}

func (e *AccountNotOpenError) Error() string {
	return fmt.Sprintf("%s: account not open: %s", e.Date.Format("2006-01-02"), e.Account)
}

func NewAccountNotOpenError(txn *ast.Transaction, account ast.Account) *AccountNotOpenError {
	return &AccountNotOpenError{Date: txn.Date, Account: account}
}

func NewAccountNotOpenErrorFromBalance(balance *ast.Balance) *AccountNotOpenError {
	return &AccountNotOpenError{Date: balance.Date, Account: balance.Account}
}

func NewAccountNotOpenErrorFromPad(pad *ast.Pad, account ast.Account) *AccountNotOpenError {
	return &AccountNotOpenError{Date: pad.Date, Account: account}
}

func NewAccountNotOpenErrorFromNote(note *ast.Note) *AccountNotOpenError {
	return &AccountNotOpenError{Date: note.Date, Account: note.Account}
}

func NewAccountNotOpenErrorFromDocument(doc *ast.Document) *AccountNotOpenError {
	return &AccountNotOpenError{Date: doc.Date, Account: doc.Account}
}

// AccountAlreadyOpenError is returned when an open directive names an
// account that was already opened earlier in the ledger.
type AccountAlreadyOpenError struct {
	Open         *ast.Open
	ExistingDate *ast.Date
}

func (e *AccountAlreadyOpenError) Error() string {
	return fmt.Sprintf("%s: account %s already open (opened %s)",
		e.Open.Date.Format("2006-01-02"), e.Open.Account, e.ExistingDate.Format("2006-01-02"))
}

func NewAccountAlreadyOpenError(open *ast.Open, existingDate *ast.Date) *AccountAlreadyOpenError {
	return &AccountAlreadyOpenError{Open: open, ExistingDate: existingDate}
}

// AccountNotClosedError is returned when a close directive names an account
// that was never opened.
type AccountNotClosedError struct {
	Close *ast.Close
}

func (e *AccountNotClosedError) Error() string {
	return fmt.Sprintf("%s: cannot close unknown account %s", e.Close.Date.Format("2006-01-02"), e.Close.Account)
}

func NewAccountNotClosedError(close *ast.Close) *AccountNotClosedError {
	return &AccountNotClosedError{Close: close}
}

// AccountAlreadyClosedError is returned when a close directive names an
// account that was already closed.
type AccountAlreadyClosedError struct {
	Close    *ast.Close
	ClosedOn *ast.Date
}

func (e *AccountAlreadyClosedError) Error() string {
	return fmt.Sprintf("%s: account %s already closed (closed %s)",
		e.Close.Date.Format("2006-01-02"), e.Close.Account, e.ClosedOn.Format("2006-01-02"))
}

func NewAccountAlreadyClosedError(close *ast.Close, closedOn *ast.Date) *AccountAlreadyClosedError {
	return &AccountAlreadyClosedError{Close: close, ClosedOn: closedOn}
}

// InvalidAmountError is returned when a posting or balance amount can't be
// parsed as a decimal.
type InvalidAmountError struct {
	Date    *ast.Date
	Account ast.Account
	Value   string
	Err     error
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("%s: invalid amount (%s): %q: %v", e.Date.Format("2006-01-02"), e.Account, e.Value, e.Err)
}

func (e *InvalidAmountError) Unwrap() error { return e.Err }

func NewInvalidAmountError(txn *ast.Transaction, account ast.Account, value string, err error) *InvalidAmountError {
	return &InvalidAmountError{Date: txn.Date, Account: account, Value: value, Err: err}
}

func NewInvalidAmountErrorFromBalance(balance *ast.Balance, err error) *InvalidAmountError {
	return &InvalidAmountError{Date: balance.Date, Account: balance.Account, Value: balance.Amount.Value, Err: err}
}

// InvalidCostError is returned when a posting's cost specification is
// malformed: an unparseable amount, a zero date, or an empty label.
type InvalidCostError struct {
	Date     *ast.Date
	Account  ast.Account
	Index    int
	CostSpec string
	Err      error
}

func (e *InvalidCostError) Error() string {
	return fmt.Sprintf("%s: invalid cost specification (posting #%d: %s): %s: %v",
		e.Date.Format("2006-01-02"), e.Index, e.Account, e.CostSpec, e.Err)
}

func (e *InvalidCostError) Unwrap() error { return e.Err }

func NewInvalidCostError(txn *ast.Transaction, account ast.Account, index int, costSpec string, err error) *InvalidCostError {
	return &InvalidCostError{Date: txn.Date, Account: account, Index: index, CostSpec: costSpec, Err: err}
}

// InvalidPriceError is returned when a posting's price annotation can't be
// parsed as a decimal.
type InvalidPriceError struct {
	Date      *ast.Date
	Account   ast.Account
	Index     int
	PriceSpec string
	Err       error
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("%s: invalid price specification (posting #%d: %s): %s: %v",
		e.Date.Format("2006-01-02"), e.Index, e.Account, e.PriceSpec, e.Err)
}

func (e *InvalidPriceError) Unwrap() error { return e.Err }

func NewInvalidPriceError(txn *ast.Transaction, account ast.Account, index int, priceSpec string, err error) *InvalidPriceError {
	return &InvalidPriceError{Date: txn.Date, Account: account, Index: index, PriceSpec: priceSpec, Err: err}
}

// InvalidMetadataError is returned for a duplicate metadata key or an empty
// string value, at either transaction or posting scope.
type InvalidMetadataError struct {
	Date    *ast.Date
	Account ast.Account
	Key     string
	Value   *ast.MetadataValue
	Reason  string
}

func (e *InvalidMetadataError) Error() string {
	if e.Account == "" {
		return fmt.Sprintf("%s: invalid metadata: key=%q, value=%q: %s",
			e.Date.Format("2006-01-02"), e.Key, e.Value.String(), e.Reason)
	}
	return fmt.Sprintf("%s: invalid metadata (account %s): key=%q, value=%q: %s",
		e.Date.Format("2006-01-02"), e.Account, e.Key, e.Value.String(), e.Reason)
}

func NewInvalidMetadataError(txn *ast.Transaction, account ast.Account, key string, value *ast.MetadataValue, reason string) *InvalidMetadataError {
	return &InvalidMetadataError{Date: txn.Date, Account: account, Key: key, Value: value, Reason: reason}
}

// TransactionNotBalancedError is returned when a transaction still has a
// nonzero residual, outside tolerance, in one or more currencies after
// amount and cost inference.
type TransactionNotBalancedError struct {
	Date      *ast.Date
	Residuals map[string]string
}

func (e *TransactionNotBalancedError) Error() string {
	currencies := make([]string, 0, len(e.Residuals))
	for cur := range e.Residuals {
		currencies = append(currencies, cur)
	}
	sort.Strings(currencies)

	parts := make([]string, len(currencies))
	for i, cur := range currencies {
		parts[i] = fmt.Sprintf("%s %s", e.Residuals[cur], cur)
	}
	return fmt.Sprintf("%s: transaction does not balance, residual %s", e.Date.Format("2006-01-02"), strings.Join(parts, ", "))
}

func NewTransactionNotBalancedError(txn *ast.Transaction, residuals map[string]string) *TransactionNotBalancedError {
	return &TransactionNotBalancedError{Date: txn.Date, Residuals: residuals}
}

// BalanceMismatchError is returned when a balance assertion's expected
// amount doesn't match the account's actual amount (after padding, if any).
type BalanceMismatchError struct {
	Balance  *ast.Balance
	Expected string
	Actual   string
	Currency string
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("%s: balance assertion failed for %s: expected %s %s, got %s %s",
		e.Balance.Date.Format("2006-01-02"), e.Balance.Account, e.Expected, e.Currency, e.Actual, e.Currency)
}

func NewBalanceMismatchError(balance *ast.Balance, expected, actual, currency string) *BalanceMismatchError {
	return &BalanceMismatchError{Balance: balance, Expected: expected, Actual: actual, Currency: currency}
}

// InsufficientInventoryError is returned when a lot reduction can't be
// satisfied by the account's current holdings.
type InsufficientInventoryError struct {
	Date    *ast.Date
	Account ast.Account
	Err     error
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("%s: insufficient inventory in %s: %v", e.Date.Format("2006-01-02"), e.Account, e.Err)
}

func (e *InsufficientInventoryError) Unwrap() error { return e.Err }

func NewInsufficientInventoryError(txn *ast.Transaction, account ast.Account, err error) *InsufficientInventoryError {
	return &InsufficientInventoryError{Date: txn.Date, Account: account, Err: err}
}

// CurrencyConstraintError is returned when a posting uses a currency not
// listed in its account's open-directive constraint list.
type CurrencyConstraintError struct {
	Date     *ast.Date
	Account  ast.Account
	Currency string
	Allowed  []string
}

func (e *CurrencyConstraintError) Error() string {
	return fmt.Sprintf("%s: currency %s not allowed in %s (allowed: %s)",
		e.Date.Format("2006-01-02"), e.Currency, e.Account, strings.Join(e.Allowed, ","))
}

func NewCurrencyConstraintError(txn *ast.Transaction, account ast.Account, currency string, allowed []string) *CurrencyConstraintError {
	return &CurrencyConstraintError{Date: txn.Date, Account: account, Currency: currency, Allowed: allowed}
}

// UnusedPadWarning is returned when a pad directive is never consumed by a
// subsequent balance assertion on the same account.
type UnusedPadWarning struct {
	Pad *ast.Pad
}

func (e *UnusedPadWarning) Error() string {
	return fmt.Sprintf("%s: pad directive for %s from %s was never used by a balance assertion",
		e.Pad.Date.Format("2006-01-02"), e.Pad.Account, e.Pad.AccountPad)
}

func NewUnusedPadWarning(pad *ast.Pad) *UnusedPadWarning {
	return &UnusedPadWarning{Pad: pad}
}

// BookingError wraps a failure surfaced by the booking engine with the
// originating transaction's date, so it reads consistently with the rest of
// the ledger's validation errors.
type BookingError struct {
	Date *ast.Date
	Err  error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Date.Format("2006-01-02"), e.Err)
}

func (e *BookingError) Unwrap() error { return e.Err }

func NewBookingError(txn *ast.Transaction, err error) *BookingError {
	return &BookingError{Date: txn.Date, Err: err}
}
