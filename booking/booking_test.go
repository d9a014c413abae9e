package booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// d parses a decimal literal in tests, panicking on malformed input since
// every literal here is a constant the test author controls.
func d(s string) Number {
	n, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return n
}

func dp(s string) *Number {
	n := d(s)
	return &n
}

func date(s string) Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return NewDate(t)
}

func cur(s string) *Currency {
	c := Currency(s)
	return &c
}

func label(s string) *Label {
	l := Label(s)
	return &l
}

// noTolerance is a Tolerance that never treats any nonzero sum as
// negligible, used by tests that want exact balancing.
type noTolerance struct{}

func (noTolerance) Residual(values []Number, _ Currency) (Number, bool) {
	sum := d("0")
	for _, v := range values {
		sum = sum.Add(v)
	}
	if sum.IsZero() {
		return sum, false
	}
	return sum, true
}

func emptyInventory(Account) (Positions, bool) { return nil, false }

func inventoryOf(positions map[Account]Positions) InventoryLookup {
	return func(account Account) (Positions, bool) {
		p, ok := positions[account]
		return p, ok
	}
}

func fifoMethod(Account) Method { return FIFO }

func methodOf(m Method) MethodLookup {
	return func(Account) Method { return m }
}

var testCtx = context.Background()
