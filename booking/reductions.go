package booking

import (
	"sort"

	"github.com/shopspring/decimal"
)

// reductionsResult is the output of bookReductions: the costed (booked or
// still-unbooked) postings in input order, plus the inventory delta the
// reductions produced.
type reductionsResult struct {
	updatedInventory map[Account]Positions
	postings         []costedPosting
}

// bookReductions attempts to match every annotated posting in one currency
// bucket against its account's held lots, booking those that reduce a lot
// and passing the rest through unbooked for interpolate.go to resolve.
func bookReductions(annotateds []annotatedPosting, tolerance Tolerance, inventory InventoryLookup, method MethodLookup) (*reductionsResult, error) {
	updatedInventory := map[Account]Positions{}
	costedPostings := make([]costedPosting, 0, len(annotateds))

	lookup := func(account Account) (Positions, bool) {
		if p, ok := updatedInventory[account]; ok {
			return p, true
		}
		return inventory(account)
	}

	for _, annotated := range annotateds {
		account := annotated.posting.Account
		previousPositions, hasPositions := lookup(account)
		accountMethod := method(account)

		cp, updated, err := reduce(annotated, tolerance, accountMethod, previousPositions, hasPositions)
		if err != nil {
			return nil, err
		}
		costedPostings = append(costedPostings, cp)
		if updated != nil {
			updatedInventory[account] = *updated
		}
	}

	return &reductionsResult{updatedInventory: updatedInventory, postings: costedPostings}, nil
}

// reduce decides whether a single posting reduces existing lots. A posting
// can only be a candidate reduction when it states both units and currency,
// the account already has positions, the account isn't using Booking::None
// (which never matches), it carries a cost annotation, and some held
// position in that currency has the opposite sign.
func reduce(annotated annotatedPosting, tolerance Tolerance, method Method, positions Positions, hasPositions bool) (costedPosting, *Positions, error) {
	if annotated.currency == nil || annotated.posting.Units == nil || !hasPositions || method == None {
		return unbookedPosting(annotated), nil, nil
	}

	postingCurrency := *annotated.currency
	postingUnits := *annotated.posting.Units

	if annotated.posting.Cost == nil || !isPotentialReduction(postingUnits, postingCurrency, positions) {
		return unbookedPosting(annotated), nil, nil
	}

	matched := matchPositions(positions, postingCurrency, annotated.posting.Cost)

	switch {
	case len(matched) == 0:
		return costedPosting{}, nil, postingErr(annotated.index, NoPositionMatches)
	case len(matched) == 1:
		return reduceMatchedPosition(postingUnits, postingCurrency, annotated.posting, annotated.index, positions, matched[0])
	case isSellAllAtCost(postingUnits, postingCurrency, positions, matched, tolerance):
		return reduceAllSoldAtCost(postingUnits, postingCurrency, annotated.posting, annotated.index, positions, matched)
	default:
		return reduceMultiplePositions(postingUnits, postingCurrency, annotated.posting, annotated.index, positions, matched, method)
	}
}

// isPotentialReduction reports whether any held position in postingCurrency
// has a sign opposite the posting's, i.e. whether this posting could be
// reducing rather than augmenting.
func isPotentialReduction(postingUnits Number, postingCurrency Currency, positions Positions) bool {
	sign, ok := signOf(postingUnits)
	if !ok {
		return false
	}
	for _, pos := range positions {
		if pos.Currency != postingCurrency {
			continue
		}
		if posSign, ok := signOf(pos.Units); ok && posSign != sign {
			return true
		}
	}
	return false
}

func matchPositions(positions Positions, currency Currency, spec *CostSpec) []int {
	var matched []int
	for i, pos := range positions {
		if pos.Currency != currency || pos.Cost == nil {
			continue
		}
		if costMatchesSpec(*pos.Cost, *spec) {
			matched = append(matched, i)
		}
	}
	return matched
}

// costMatchesSpec reports whether a position's resolved cost satisfies a
// (possibly partial) cost spec's wildcard fields. The spec's Merge flag is
// accepted but never consulted here, matching the original's explicit TODO.
func costMatchesSpec(cost Cost, spec CostSpec) bool {
	if spec.Date != nil && compareDate(*spec.Date, cost.Date) != 0 {
		return false
	}
	if spec.Currency != nil && *spec.Currency != cost.Currency {
		return false
	}
	if spec.PerUnit != nil && !spec.PerUnit.Equal(cost.PerUnit) {
		return false
	}
	if spec.Label != nil && (cost.Label == nil || *spec.Label != *cost.Label) {
		return false
	}
	return true
}

func reduceMatchedPosition(postingUnits Number, postingCurrency Currency, posting PostingSpec, idx int, positions Positions, matchedIdx int) (costedPosting, *Positions, error) {
	matched := positions[matchedIdx]

	if postingUnits.Abs().GreaterThan(matched.Units.Abs()) {
		return costedPosting{}, nil, postingErr(idx, NotEnoughLotsToReduce)
	}

	updated := make(Positions, 0, len(positions))
	for i, pos := range positions {
		if i != matchedIdx {
			updated = append(updated, pos)
			continue
		}
		accumulated := pos.withAccumulated(postingUnits)
		if !accumulated.Units.IsZero() {
			updated = append(updated, accumulated)
		}
	}

	mc := matched.Cost
	result := bookedPosting(Interpolated{
		Posting:  posting,
		Index:    idx,
		Units:    postingUnits,
		Currency: postingCurrency,
		Cost: &PostingCosts{
			CostCurrency: mc.Currency,
			Adjustments: []PostingCost{{
				Date:    mc.Date,
				Units:   postingUnits,
				PerUnit: mc.PerUnit,
				Label:   mc.Label,
				Merge:   mc.Merge,
			}},
		},
	})
	return result, &updated, nil
}

// isSellAllAtCost reports whether the posting together with every matched
// position sums to (tolerably) zero, i.e. this is a "sell everything that
// matches" posting rather than an ambiguous partial reduction.
func isSellAllAtCost(postingUnits Number, postingCurrency Currency, positions Positions, matched []int, tolerance Tolerance) bool {
	values := make([]Number, 0, len(matched)+1)
	for _, i := range matched {
		values = append(values, positions[i].Units)
	}
	values = append(values, postingUnits)

	_, outsideTolerance := tolerance.Residual(values, postingCurrency)
	return !outsideTolerance
}

func reduceMultiplePositions(postingUnits Number, postingCurrency Currency, posting PostingSpec, idx int, positions Positions, matched []int, method Method) (costedPosting, *Positions, error) {
	switch method {
	case FIFO, LIFO, HIFO:
		if err := checkSufficientMatchedUnits(postingUnits, idx, positions, matched); err != nil {
			return costedPosting{}, nil, err
		}
		costCurrency, err := getUniqueCostCurrency(idx, positions, matched)
		if err != nil {
			return costedPosting{}, nil, err
		}

		ordered := append([]int(nil), matched...)
		switch method {
		case LIFO:
			for l, r := 0, len(ordered)-1; l < r; l, r = l+1, r-1 {
				ordered[l], ordered[r] = ordered[r], ordered[l]
			}
		case HIFO:
			sort.Slice(ordered, func(a, b int) bool {
				return positions[ordered[a]].Cost.PerUnit.GreaterThan(positions[ordered[b]].Cost.PerUnit)
			})
		}

		return reduceOrderedPositions(postingUnits, postingCurrency, costCurrency, posting, idx, positions, ordered)

	case StrictWithSize:
		var withSize []int
		for _, i := range matched {
			if positions[i].Units.Equal(postingUnits.Neg()) {
				withSize = append(withSize, i)
			}
		}
		sort.Slice(withSize, func(a, b int) bool {
			return compareDate(positions[withSize[a]].Cost.Date, positions[withSize[b]].Cost.Date) < 0
		})

		if len(withSize) == 0 {
			return costedPosting{}, nil, postingErr(idx, AmbiguousMatches)
		}
		return reduceMatchedPosition(postingUnits, postingCurrency, posting, idx, positions, withSize[0])

	default:
		return costedPosting{}, nil, postingErr(idx, AmbiguousMatches)
	}
}

func reduceOrderedPositions(postingUnits Number, postingCurrency, costCurrency Currency, posting PostingSpec, idx int, positions Positions, matched []int) (costedPosting, *Positions, error) {
	remaining := postingUnits
	updatedUnits := make([]Number, len(positions))
	for i, p := range positions {
		updatedUnits[i] = p.Units
	}
	var adjustments []PostingCost

	for _, i := range matched {
		costI := positions[i].Cost
		var consumed Number
		if remaining.Abs().LessThanOrEqual(updatedUnits[i].Abs()) {
			consumed = remaining
		} else {
			consumed = updatedUnits[i].Neg()
		}

		updatedUnits[i] = updatedUnits[i].Add(consumed)
		remaining = remaining.Sub(consumed)

		adjustments = append(adjustments, PostingCost{
			Date:    costI.Date,
			Units:   consumed,
			PerUnit: costI.PerUnit,
			Label:   costI.Label,
			Merge:   costI.Merge,
		})

		if remaining.IsZero() {
			break
		}
	}

	if !remaining.IsZero() {
		return costedPosting{}, nil, postingErr(idx, NotEnoughLotsToReduce)
	}

	updated := make(Positions, 0, len(positions))
	for i, units := range updatedUnits {
		if !units.IsZero() {
			updated = append(updated, Position{Currency: postingCurrency, Units: units, Cost: positions[i].Cost})
		}
	}

	result := bookedPosting(Interpolated{
		Posting:  posting,
		Index:    idx,
		Units:    postingUnits,
		Currency: postingCurrency,
		Cost:     &PostingCosts{CostCurrency: costCurrency, Adjustments: adjustments},
	})
	return result, &updated, nil
}

func checkSufficientMatchedUnits(postingUnits Number, idx int, positions Positions, matched []int) error {
	total := decimal.Zero
	for _, i := range matched {
		total = total.Add(positions[i].Units)
	}
	if postingUnits.Cmp(total) <= 0 {
		return nil
	}
	return postingErr(idx, NotEnoughLotsToReduce)
}

func reduceAllSoldAtCost(postingUnits Number, postingCurrency Currency, posting PostingSpec, idx int, positions Positions, matched []int) (costedPosting, *Positions, error) {
	costCurrency, err := getUniqueCostCurrency(idx, positions, matched)
	if err != nil {
		return costedPosting{}, nil, err
	}

	matchedSet := make(map[int]struct{}, len(matched))
	for _, i := range matched {
		matchedSet[i] = struct{}{}
	}

	updated := make(Positions, 0, len(positions)-len(matched))
	for i, pos := range positions {
		if _, ok := matchedSet[i]; !ok {
			updated = append(updated, pos)
		}
	}

	adjustments := make([]PostingCost, len(matched))
	for k, i := range matched {
		mp := positions[i]
		adjustments[k] = PostingCost{
			Date:    mp.Cost.Date,
			Units:   mp.Units.Neg(),
			PerUnit: mp.Cost.PerUnit,
			Label:   mp.Cost.Label,
			Merge:   mp.Cost.Merge,
		}
	}

	result := bookedPosting(Interpolated{
		Posting:  posting,
		Index:    idx,
		Units:    postingUnits,
		Currency: postingCurrency,
		Cost:     &PostingCosts{CostCurrency: costCurrency, Adjustments: adjustments},
	})
	return result, &updated, nil
}

func getUniqueCostCurrency(idx int, positions Positions, matched []int) (Currency, error) {
	seen := map[Currency]struct{}{}
	for _, i := range matched {
		seen[positions[i].Cost.Currency] = struct{}{}
	}
	if len(seen) != 1 {
		return "", postingErr(idx, MultipleCostCurrenciesMatch)
	}
	var cur Currency
	for c := range seen {
		cur = c
	}
	return cur, nil
}
