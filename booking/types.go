// Package booking implements the double-entry booking engine: it takes the
// postings of a single transaction, infers any missing amounts or
// currencies, matches reducing postings against lot inventory under a
// chosen booking method, and reports a balance-checked result together with
// the inventory delta it implies.
//
// The package has no dependency on a parser or file format. Callers (a
// loader, a REPL, a formatter) construct PostingSpec values from whatever
// they parsed and hand them to Book.
package booking

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar date, decoupled from ast.Date so the engine carries no
// parser dependency. Two Dates compare equal when they name the same day
// regardless of time-of-day or location.
type Date struct {
	time.Time
}

// NewDate truncates t to a calendar day in its own location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

func compareDate(a, b Date) int {
	ay, am, ad := a.Time.Date()
	by, bm, bd := b.Time.Date()
	x := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	y := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return x.Compare(y)
}

// Number is the numeric type used throughout the booking engine. The
// original implementation this package is modelled on abstracts over a
// generic Number capability; Go has no operator overloading, so there is no
// equivalent win from doing that here. The teacher repo already standardizes
// on shopspring/decimal for every monetary quantity, so booking does too.
type Number = decimal.Decimal

// Currency is a commodity or currency symbol, e.g. "USD" or "AAPL".
type Currency string

// Account is a fully qualified account name, e.g. "Assets:Bank:Checking".
type Account string

// Label is a lot label supplied in a cost spec, e.g. the "lot-42" in
// {100.00 USD, "lot-42"}.
type Label string

// Sign classifies a Number as strictly positive, strictly negative, or
// (implicitly, by its absence) zero.
type Sign int

const (
	SignPositive Sign = iota
	SignNegative
)

func signOf(n Number) (Sign, bool) {
	switch {
	case n.IsZero():
		return 0, false
	case n.IsNegative():
		return SignNegative, true
	default:
		return SignPositive, true
	}
}

func scaleOf(n Number) int32 {
	e := n.Exponent()
	if e >= 0 {
		return 0
	}
	return -e
}

func rescaled(n Number, scale int32) Number {
	return n.Round(scale)
}

// Method is the booking method configured for an account, determining how a
// reducing posting is matched against existing lots.
type Method int

const (
	Strict Method = iota
	StrictWithSize
	None
	Average
	FIFO
	LIFO
	HIFO
)

func (m Method) String() string {
	switch m {
	case Strict:
		return "STRICT"
	case StrictWithSize:
		return "STRICT_WITH_SIZE"
	case None:
		return "NONE"
	case Average:
		return "AVERAGE"
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	case HIFO:
		return "HIFO"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// IsSupportedMethod reports whether method is implemented by this engine.
// Average is accepted by the type but never booked; spec.md carries it only
// as a documented Non-goal.
func IsSupportedMethod(method Method) bool {
	return method != Average
}

// ParseMethod maps a Beancount booking-method keyword (as written in an
// Open directive's booking string, e.g. "FIFO" or "STRICT_WITH_SIZE") to a
// Method. An empty or unrecognized string defaults to FIFO, matching the
// teacher's prior default-to-FIFO behavior for accounts opened without an
// explicit method.
func ParseMethod(s string) Method {
	switch s {
	case "STRICT":
		return Strict
	case "STRICT_WITH_SIZE":
		return StrictWithSize
	case "NONE":
		return None
	case "AVERAGE":
		return Average
	case "LIFO":
		return LIFO
	case "HIFO":
		return HIFO
	case "FIFO", "":
		return FIFO
	default:
		return FIFO
	}
}

// CostSpec is the (possibly partial) cost annotation on a posting, as
// written by the user: {per-unit or total, currency, date, label, merge}.
// Any field may be unset; the engine either matches against existing lots
// (reduction) or interpolates the missing pieces (augmentation).
type CostSpec struct {
	Date     *Date
	PerUnit  *Number
	Total    *Number
	Currency *Currency
	Label    *Label
	Merge    bool
}

// PriceSpec is the (possibly partial) price annotation on a posting: either
// a per-unit price ("@") or a total price ("@@").
type PriceSpec struct {
	Currency *Currency
	PerUnit  *Number
	Total    *Number
}

// PostingSpec is a single posting as supplied by the caller, before
// categorization or interpolation. Units and Currency are nil when the
// posting omits them (an auto-posting omits both).
type PostingSpec struct {
	Account  Account
	Currency *Currency
	Units    *Number
	Cost     *CostSpec
	Price    *PriceSpec
}

// Cost is a fully resolved lot cost, as stored against a Position.
type Cost struct {
	Date     Date
	PerUnit  Number
	Currency Currency
	Label    *Label
	Merge    bool
}

// Compare orders costs by (date, currency, per-unit, label, merge), the
// order lots are matched and reported in by FIFO/LIFO/StrictWithSize.
func (c Cost) Compare(o Cost) int {
	if d := compareDate(c.Date, o.Date); d != 0 {
		return d
	}
	if d := compareString(string(c.Currency), string(o.Currency)); d != 0 {
		return d
	}
	if d := c.PerUnit.Cmp(o.PerUnit); d != 0 {
		return d
	}
	if d := compareLabel(c.Label, o.Label); d != 0 {
		return d
	}
	return compareBool(c.Merge, o.Merge)
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareLabel(a, b *Label) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return compareString(string(*a), string(*b))
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// Position is a single held lot (or, when Cost is nil, a simple costless
// holding) of Units of Currency.
type Position struct {
	Currency Currency
	Units    Number
	Cost     *Cost
}

func (p Position) withAccumulated(units Number) Position {
	return Position{Currency: p.Currency, Units: p.Units.Add(units), Cost: p.Cost}
}

// Positions is the ordered list of lots an account holds in one currency or
// across currencies, satisfying the invariants:
//  1. a costless position, if any, sorts before any costed position of the
//     same currency;
//  2. positions are otherwise unique by (currency, cost) and sorted by
//     (currency, cost.date, cost.currency, cost.per-unit, cost.label,
//     cost.merge);
//  3. no stored position has zero units.
type Positions []Position

// Clone returns an independent copy, safe to mutate without affecting ps.
func (ps Positions) Clone() Positions {
	out := make(Positions, len(ps))
	copy(out, ps)
	return out
}

// PostingCost is one lot-level adjustment resulting from booking a single
// posting: the units taken from (or added to) a lot with the given
// per-unit cost.
type PostingCost struct {
	Date    Date
	Units   Number
	PerUnit Number
	Label   *Label
	Merge   bool
}

// PostingCosts groups the PostingCost adjustments a single posting produced,
// all sharing one cost currency (a posting may touch several lots, but only
// ever a single cost currency, so that categorization by currency bucket is
// never violated).
type PostingCosts struct {
	CostCurrency Currency
	Adjustments  []PostingCost
}

func (pc PostingCosts) asCosts() []Cost {
	costs := make([]Cost, len(pc.Adjustments))
	for i, adj := range pc.Adjustments {
		costs[i] = Cost{Date: adj.Date, PerUnit: adj.PerUnit, Currency: pc.CostCurrency, Label: adj.Label, Merge: adj.Merge}
	}
	return costs
}

// Price is a resolved, fully specified price annotation.
type Price struct {
	PerUnit  Number
	Currency Currency
}

// Interpolated is a posting after categorization, reduction and
// interpolation: every missing number and currency has been resolved.
type Interpolated struct {
	Posting  PostingSpec
	Index    int
	Units    Number
	Currency Currency
	Cost     *PostingCosts
	Price    *Price
}

// Bookings is the result of booking a transaction's postings: the
// interpolated postings, aligned index-for-index with the input, plus the
// inventory delta they imply.
type Bookings struct {
	InterpolatedPostings []Interpolated
	UpdatedInventory      map[Account]Positions
}

// InventoryLookup returns the prior positions held by account, or (nil,
// false) when the account has no holdings.
type InventoryLookup func(account Account) (Positions, bool)

// MethodLookup returns the booking method configured for account.
type MethodLookup func(account Account) Method
