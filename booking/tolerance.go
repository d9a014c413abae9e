package booking

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Tolerance decides, for a set of weights contributing to one currency
// bucket, whether their sum is small enough to treat as zero.
type Tolerance interface {
	// Residual returns the sum of values and true when that sum falls
	// outside the tolerance for cur, or (zero, false) when it's within
	// tolerance and can be treated as balanced.
	Residual(values []Number, cur Currency) (Number, bool)
}

// ToleranceConfig is the reference Tolerance implementation, generalized
// from the teacher's ledger.ToleranceConfig: when InferFromCost (or simply
// the presence of nonzero values) lets it infer a precision from the
// amounts themselves, tolerance is half a unit in the smallest decimal
// place seen; otherwise it falls back to a configured per-currency default.
type ToleranceConfig struct {
	defaults      map[Currency]Number
	multiplier    Number
	inferFromCost bool
}

// NewToleranceConfig returns the default configuration: 0.005 tolerance for
// every currency, with inferred tolerances scaled by 0.5.
func NewToleranceConfig() *ToleranceConfig {
	return &ToleranceConfig{
		defaults:   map[Currency]Number{"*": decimal.NewFromFloat(0.005)},
		multiplier: decimal.NewFromFloat(0.5),
	}
}

// ParseToleranceConfig builds a ToleranceConfig from ledger-style options:
//
//	inferred_tolerance_default: "*:0.005" or "USD:0.003" (repeatable)
//	tolerance_multiplier:       "0.6"
//	infer_tolerance_from_cost:  "TRUE"
func ParseToleranceConfig(options map[string][]string) (*ToleranceConfig, error) {
	config := NewToleranceConfig()

	if vals := options["tolerance_multiplier"]; len(vals) > 0 {
		multiplier, err := decimal.NewFromString(vals[0])
		if err != nil {
			return nil, err
		}
		config.multiplier = multiplier
	}

	if vals := options["inferred_tolerance_default"]; len(vals) > 0 {
		for _, val := range vals {
			parts := strings.SplitN(val, ":", 2)
			if len(parts) != 2 {
				return nil, fmt.Errorf("invalid inferred_tolerance_default %q, expected CURRENCY:TOLERANCE", val)
			}
			cur := Currency(strings.TrimSpace(parts[0]))
			tol, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, err
			}
			config.defaults[cur] = tol
		}
	}

	if vals := options["infer_tolerance_from_cost"]; len(vals) > 0 {
		config.inferFromCost = strings.ToUpper(vals[0]) == "TRUE"
	}

	return config, nil
}

// DefaultTolerance returns the configured tolerance for cur, falling back to
// the "*" wildcard and finally a hardcoded 0.005.
func (c *ToleranceConfig) DefaultTolerance(cur Currency) Number {
	if c == nil {
		return decimal.NewFromFloat(0.005)
	}
	if tol, ok := c.defaults[cur]; ok {
		return tol
	}
	if tol, ok := c.defaults["*"]; ok {
		return tol
	}
	return decimal.NewFromFloat(0.005)
}

// InferredTolerance finds the smallest decimal place among the nonzero
// values and scales it by the configured multiplier.
func (c *ToleranceConfig) InferredTolerance(values []Number, cur Currency) Number {
	var minExp int32
	found := false

	for _, v := range values {
		if v.IsZero() {
			continue
		}
		exp := v.Exponent()
		if !found || exp < minExp {
			minExp = exp
			found = true
		}
	}

	if !found {
		return c.DefaultTolerance(cur)
	}

	return decimal.New(1, minExp).Mul(c.multiplier)
}

// Residual implements Tolerance.
func (c *ToleranceConfig) Residual(values []Number, cur Currency) (Number, bool) {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}

	tol := c.InferredTolerance(values, cur)
	if sum.Abs().LessThanOrEqual(tol) {
		return decimal.Zero, false
	}
	return sum, true
}
