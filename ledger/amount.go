package ledger

import (
	"fmt"

	"github.com/tesujimath/limabean/ast"
	"github.com/tesujimath/limabean/booking"
	"github.com/shopspring/decimal"
)

// ParseAmount converts a ast.Amount to a decimal.Decimal
func ParseAmount(amount *ast.Amount) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Zero, fmt.Errorf("amount is nil")
	}

	d, err := decimal.NewFromString(amount.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount value %q: %w", amount.Value, err)
	}

	return d, nil
}

// MustParseAmount converts a ast.Amount to a decimal.Decimal and panics on error
// Use only in tests or when you're certain the amount is valid
func MustParseAmount(amount *ast.Amount) decimal.Decimal {
	d, err := ParseAmount(amount)
	if err != nil {
		panic(err)
	}
	return d
}

// ToleranceConfig is the ledger's tolerance configuration. It is an alias
// for booking.ToleranceConfig so that ledger.Config.Tolerance is literally
// the same value booking.Book balance-checks against, rather than a parallel
// reimplementation that could drift out of sync with it.
type ToleranceConfig = booking.ToleranceConfig

// NewToleranceConfig creates a default tolerance configuration.
// Default: 0.005 tolerance for all currencies, 0.5 multiplier.
func NewToleranceConfig() *ToleranceConfig {
	return booking.NewToleranceConfig()
}

// ParseToleranceConfig creates a ToleranceConfig from ledger options.
// Supports:
//   - option "inferred_tolerance_default" "*:0.005"
//   - option "inferred_tolerance_default" "USD:0.003"
//   - option "tolerance_multiplier" "0.6"
//   - option "infer_tolerance_from_cost" "TRUE"
func ParseToleranceConfig(options map[string][]string) (*ToleranceConfig, error) {
	return booking.ParseToleranceConfig(options)
}

// InferTolerance calculates tolerance from amount precision.
// Algorithm:
//  1. Find the smallest exponent across all amounts
//  2. Calculate tolerance = 10^minExp * multiplier
//  3. If no amounts (or all zero), use config's default tolerance for currency
func InferTolerance(amounts []decimal.Decimal, currency string, config *ToleranceConfig) decimal.Decimal {
	if config == nil {
		config = NewToleranceConfig()
	}

	return config.InferredTolerance(amounts, booking.Currency(currency))
}

// AmountEqual checks if two amounts are equal within tolerance
func AmountEqual(a, b decimal.Decimal, tolerance decimal.Decimal) bool {
	diff := a.Sub(b).Abs()
	return diff.LessThanOrEqual(tolerance)
}
