package booking

import (
	"context"
	"sort"

	"github.com/tesujimath/limabean/telemetry"
)

// Book infers missing amounts, books reductions and augmentations against
// ι, and balance-checks the result. It returns UnbalancedError if any
// currency bucket is left with a residual outside tolerance after
// interpolation.
//
// The returned Interpolated postings are aligned with postings: index i of
// the result always corresponds to postings[i].
func Book(ctx context.Context, date Date, postings []PostingSpec, tolerance Tolerance, inventory InventoryLookup, method MethodLookup) (*Bookings, error) {
	timer := telemetry.FromContext(ctx).Start("booking.book")
	defer timer.End()

	bookings, residuals, err := bookWithResiduals(ctx, date, postings, tolerance, inventory, method)
	if err != nil {
		return nil, err
	}

	if len(residuals) > 0 {
		return nil, &UnbalancedError{Residuals: residuals}
	}

	return bookings, nil
}

// bookWithResiduals is Book without the final balance check, exposed so
// callers (notably tests) can inspect a deliberately unbalanced booking
// rather than just its failure.
func bookWithResiduals(ctx context.Context, date Date, postings []PostingSpec, tolerance Tolerance, inventory InventoryLookup, method MethodLookup) (*Bookings, map[Currency]Number, error) {
	collector := telemetry.FromContext(ctx)

	interpolatedPostings := make([]*Interpolated, len(postings))
	updatedInventory := map[Account]Positions{}
	residuals := map[Currency]Number{}

	lookupOverlay := func(account Account) (Positions, bool) {
		if p, ok := updatedInventory[account]; ok {
			return p, true
		}
		return inventory(account)
	}

	categorizeTimer := collector.Start("booking.categorize")
	currencyGroups, err := categorizeByCurrency(postings, lookupOverlay)
	categorizeTimer.End()
	if err != nil {
		return nil, nil, err
	}

	currencies := make([]Currency, 0, len(currencyGroups))
	for cur := range currencyGroups {
		currencies = append(currencies, cur)
	}
	sort.Slice(currencies, func(i, j int) bool { return currencies[i] < currencies[j] })

	for _, cur := range currencies {
		annotatedPostings := currencyGroups[cur]

		if err := ensureSupportedMethods(annotatedPostings, method); err != nil {
			return nil, nil, err
		}

		reduceTimer := collector.Start("booking.reduce")
		reductions, err := bookReductions(annotatedPostings, tolerance, lookupOverlay, method)
		reduceTimer.End()
		if err != nil {
			return nil, nil, err
		}
		for account, positions := range reductions.updatedInventory {
			updatedInventory[account] = positions
		}

		interpolateTimer := collector.Start("booking.interpolate")
		interpolation, err := interpolateFromCosted(date, cur, reductions.postings, tolerance)
		interpolateTimer.End()
		if err != nil {
			return nil, nil, err
		}
		if interpolation.residual != nil {
			residuals[cur] = *interpolation.residual
		}

		augmentTimer := collector.Start("booking.augment")
		augmentedInventory, err := bookAugmentations(interpolation.postings, lookupOverlay, method)
		augmentTimer.End()
		if err != nil {
			return nil, nil, err
		}
		for account, positions := range augmentedInventory {
			updatedInventory[account] = positions
		}

		for _, p := range interpolation.postings {
			posting := p.posting
			interpolatedPostings[posting.Index] = &posting
		}
	}

	resolved := make([]Interpolated, len(interpolatedPostings))
	for i, p := range interpolatedPostings {
		resolved[i] = *p
	}

	return &Bookings{InterpolatedPostings: resolved, UpdatedInventory: updatedInventory}, residuals, nil
}

func ensureSupportedMethods(annotateds []annotatedPosting, method MethodLookup) error {
	seen := map[Account]struct{}{}
	for _, a := range annotateds {
		account := a.posting.Account
		if _, ok := seen[account]; ok {
			continue
		}
		seen[account] = struct{}{}
		if m := method(account); !IsSupportedMethod(m) {
			return &UnsupportedBookingMethodError{Method: m, Account: account}
		}
	}
	return nil
}

// bookAugmentations accumulates the interpolated postings that reduction
// left unbooked (a positive addition to a lot, or a fresh costless
// holding) into their accounts' positions.
func bookAugmentations(postings []interpolatedPosting, inventory InventoryLookup, method MethodLookup) (map[Account]Positions, error) {
	updatedInventory := map[Account]Positions{}

	current := func(account Account) Positions {
		if p, ok := updatedInventory[account]; ok {
			return p
		}
		if p, ok := inventory(account); ok {
			return p.Clone()
		}
		return Positions{}
	}

	for _, p := range postings {
		if p.booked {
			continue
		}
		interpolated := p.posting
		account := interpolated.Posting.Account
		accountMethod := method(account)
		positions := current(account)

		if interpolated.Cost != nil {
			for i, adj := range interpolated.Cost.Adjustments {
				cost := interpolated.Cost.asCosts()[i]
				positions.Accumulate(adj.Units, interpolated.Currency, &cost, accountMethod)
			}
		} else {
			positions.Accumulate(interpolated.Units, interpolated.Currency, nil, accountMethod)
		}

		updatedInventory[account] = positions
	}

	return updatedInventory, nil
}

// Accumulate books a set of already-resolved postings directly against
// inventory, without categorization or interpolation. It underlies the
// round-trip property tests: booking a transaction and then accumulating
// its own interpolated postings must reproduce the same inventory delta.
func Accumulate(postings []Interpolated, inventory InventoryLookup, method MethodLookup) map[Account]Positions {
	updatedInventory := map[Account]Positions{}

	current := func(account Account) Positions {
		if p, ok := updatedInventory[account]; ok {
			return p
		}
		if p, ok := inventory(account); ok {
			return p.Clone()
		}
		return Positions{}
	}

	for _, posting := range postings {
		account := posting.Posting.Account
		accountMethod := method(account)
		positions := current(account)

		if posting.Cost != nil {
			for i, adj := range posting.Cost.Adjustments {
				cost := posting.Cost.asCosts()[i]
				positions.Accumulate(adj.Units, posting.Currency, &cost, accountMethod)
			}
		} else {
			positions.Accumulate(posting.Units, posting.Currency, nil, accountMethod)
		}

		updatedInventory[account] = positions
	}

	return updatedInventory
}
