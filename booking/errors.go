package booking

import (
	"fmt"
	"sort"
	"strings"
)

// UnsupportedBookingMethodError is returned when an account is configured
// with a Method that IsSupportedMethod rejects (currently only Average).
type UnsupportedBookingMethodError struct {
	Method  Method
	Account Account
}

func (e *UnsupportedBookingMethodError) Error() string {
	return fmt.Sprintf("unsupported booking method %s for %s", e.Method, e.Account)
}

// TooManyMissingNumbersError is returned when a currency bucket has more
// than one posting with an unknown weight; at most one can be inferred.
type TooManyMissingNumbersError struct{}

func (e *TooManyMissingNumbersError) Error() string {
	return "too many missing numbers for interpolation"
}

// UnbalancedError is returned when, after interpolation, one or more
// currencies still have a nonzero residual outside tolerance.
type UnbalancedError struct {
	Residuals map[Currency]Number
}

func (e *UnbalancedError) Error() string {
	currencies := make([]string, 0, len(e.Residuals))
	for cur := range e.Residuals {
		currencies = append(currencies, string(cur))
	}
	sort.Strings(currencies)

	parts := make([]string, len(currencies))
	for i, cur := range currencies {
		amount := e.Residuals[Currency(cur)]
		parts[i] = fmt.Sprintf("%s %s", amount.Neg().String(), cur)
	}
	return fmt.Sprintf("unbalanced transaction with residual %s", strings.Join(parts, ", "))
}

// CannotDetermineCurrencyForBalancingError is returned when a transaction
// has an auto-posting but no currency bucket to place it in.
type CannotDetermineCurrencyForBalancingError struct{}

func (e *CannotDetermineCurrencyForBalancingError) Error() string {
	return "can't determine currency for balancing transaction"
}

// AutoPostMultipleBucketsError is returned when a currency-ambiguous
// auto-posting would have to balance more than one currency bucket.
type AutoPostMultipleBucketsError struct {
	Currencies []Currency
}

func (e *AutoPostMultipleBucketsError) Error() string {
	names := make([]string, len(e.Currencies))
	for i, cur := range e.Currencies {
		names[i] = string(cur)
	}
	return fmt.Sprintf("can't have auto-post with multiple currencies %s", strings.Join(names, ","))
}

// PostingErrorKind discriminates the reasons a single posting can fail to
// book. Every PostingError carries the Index of the originating posting in
// the transaction.
type PostingErrorKind int

const (
	AmbiguousAutoPost PostingErrorKind = iota
	AmbiguousMatches
	MultipleCostCurrenciesMatch
	CannotInferUnits
	CannotInferCurrency
	CannotInferAnything
	CannotInferPricePerUnit
	CannotInferPriceCurrency
	CannotInferPrice
	NotEnoughLotsToReduce
	NoPositionMatches
)

func (k PostingErrorKind) String() string {
	switch k {
	case AmbiguousAutoPost:
		return "ambiguous auto-post"
	case AmbiguousMatches:
		return "ambiguous matches"
	case MultipleCostCurrenciesMatch:
		return "multiple currencies in cost spec matches against inventory"
	case CannotInferUnits:
		return "cannot infer units"
	case CannotInferCurrency:
		return "cannot infer currency"
	case CannotInferAnything:
		return "cannot infer anything"
	case CannotInferPricePerUnit:
		return "cannot infer price per-unit"
	case CannotInferPriceCurrency:
		return "cannot infer price currency"
	case CannotInferPrice:
		return "cannot infer price"
	case NotEnoughLotsToReduce:
		return "not enough lots to reduce"
	case NoPositionMatches:
		return "no position matches"
	default:
		return fmt.Sprintf("PostingErrorKind(%d)", int(k))
	}
}

// PostingError reports a booking failure attributable to a single posting.
type PostingError struct {
	Index int
	Kind  PostingErrorKind
}

func (e *PostingError) Error() string {
	return fmt.Sprintf("posting %d %s", e.Index, e.Kind)
}

func postingErr(idx int, kind PostingErrorKind) error {
	return &PostingError{Index: idx, Kind: kind}
}
