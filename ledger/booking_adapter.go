package ledger

import (
	"github.com/tesujimath/limabean/ast"
	"github.com/tesujimath/limabean/booking"
	"github.com/shopspring/decimal"
)

// bookingDate converts an *ast.Date to the booking package's own Date type.
func bookingDate(date *ast.Date) booking.Date {
	return booking.NewDate(date.Time)
}

// bookingPostingSpec builds a fully-resolved booking.PostingSpec for a
// posting whose amount and cost have already been determined (explicit, or
// inferred by calculateBalance). Every field that calculateBalance has
// already pinned down is passed through directly, so the booking engine's
// own categorization and interpolation degenerate to matching this single
// resolved currency bucket; only lot selection (FIFO/LIFO/HIFO/Strict
// matching) is left for it to do.
func bookingPostingSpec(posting *ast.Posting, amount decimal.Decimal, currency string, delta *TransactionDelta) booking.PostingSpec {
	cur := booking.Currency(currency)
	spec := booking.PostingSpec{
		Account:  booking.Account(posting.Account),
		Currency: &cur,
		Units:    &amount,
	}

	if cost := bookingCostSpec(posting, delta); cost != nil {
		spec.Cost = cost
	}
	if price := bookingPriceSpec(posting); price != nil {
		spec.Price = price
	}

	return spec
}

func bookingCostSpec(posting *ast.Posting, delta *TransactionDelta) *booking.CostSpec {
	cost := posting.Cost
	if cost == nil {
		return nil
	}

	if cost.IsMergeCost() {
		return &booking.CostSpec{Merge: true}
	}

	if cost.IsEmpty() {
		if inferred, ok := delta.InferredCosts[posting]; ok {
			perUnit, err := ParseAmount(inferred)
			if err != nil {
				return &booking.CostSpec{}
			}
			cur := booking.Currency(inferred.Currency)
			return &booking.CostSpec{PerUnit: &perUnit, Currency: &cur}
		}
		return &booking.CostSpec{}
	}

	spec := &booking.CostSpec{}
	if cost.Date != nil {
		d := booking.NewDate(cost.Date.Time)
		spec.Date = &d
	}
	if cost.Label != "" {
		label := booking.Label(cost.Label)
		spec.Label = &label
	}
	if cost.Amount != nil {
		amount, err := ParseAmount(cost.Amount)
		if err == nil {
			cur := booking.Currency(cost.Amount.Currency)
			spec.Currency = &cur
			if cost.IsTotal {
				spec.Total = &amount
			} else {
				spec.PerUnit = &amount
			}
		}
	}
	return spec
}

func bookingPriceSpec(posting *ast.Posting) *booking.PriceSpec {
	if posting.Price == nil {
		return nil
	}
	amount, err := ParseAmount(posting.Price)
	if err != nil {
		return nil
	}
	cur := booking.Currency(posting.Price.Currency)
	spec := &booking.PriceSpec{Currency: &cur}
	if posting.PriceTotal {
		spec.Total = &amount
	} else {
		spec.PerUnit = &amount
	}
	return spec
}

// bookingCostFromLotSpec converts an internal lotSpec into the fully-resolved
// booking.Cost a Position carries, or nil for a costless lot.
func bookingCostFromLotSpec(spec *lotSpec) *booking.Cost {
	if spec == nil || spec.Cost == nil {
		return nil
	}

	cost := &booking.Cost{
		PerUnit:  *spec.Cost,
		Currency: booking.Currency(spec.CostCurrency),
	}
	if spec.Date != nil {
		cost.Date = booking.NewDate(spec.Date.Time)
	}
	if spec.Label != "" {
		label := booking.Label(spec.Label)
		cost.Label = &label
	}
	return cost
}

// positionsFromInventory converts an account's lot-tracking Inventory into
// the booking package's own sorted Positions representation, via the same
// Accumulate used by the booking engine, so invariant ordering matches
// exactly what it would produce itself.
func positionsFromInventory(inv *Inventory, method booking.Method) booking.Positions {
	var positions booking.Positions
	if inv == nil {
		return positions
	}
	for commodity, lots := range inv.lots {
		for _, l := range lots {
			positions.Accumulate(l.Amount, booking.Currency(commodity), bookingCostFromLotSpec(l.Spec), method)
		}
	}
	return positions
}

// inventoryLookupFor adapts a snapshot of ledger accounts into the
// InventoryLookup the booking engine needs to read prior holdings.
func inventoryLookupFor(accounts map[string]*Account) booking.InventoryLookup {
	return func(account booking.Account) (booking.Positions, bool) {
		acc, ok := accounts[string(account)]
		if !ok || acc.Inventory == nil || acc.Inventory.IsEmpty() {
			return nil, false
		}
		return positionsFromInventory(acc.Inventory, acc.BookingMethod), true
	}
}

// methodLookupFor adapts a snapshot of ledger accounts into the MethodLookup
// the booking engine needs to choose a lot-selection strategy per account.
func methodLookupFor(accounts map[string]*Account) booking.MethodLookup {
	return func(account booking.Account) booking.Method {
		if acc, ok := accounts[string(account)]; ok {
			return acc.BookingMethod
		}
		return booking.FIFO
	}
}
