package booking

import "github.com/shopspring/decimal"

// interpolatedPosting pairs a fully resolved Interpolated posting with
// whether reduction had already booked it (true) or interpolation resolved
// it from an annotated posting just now (false).
type interpolatedPosting struct {
	posting Interpolated
	booked  bool
}

// interpolationResult is the per-currency-bucket output of interpolation:
// every posting in the bucket, resolved, plus any residual left after at
// most one unknown weight was inferred.
type interpolationResult struct {
	postings []interpolatedPosting
	residual *Number
}

// interpolateFromCosted resolves every still-unbooked posting in a currency
// bucket once reduction has booked what it could, inferring at most one
// missing weight from the others' sum and reporting anything left over as a
// residual.
func interpolateFromCosted(date Date, currency Currency, costeds []costedPosting, tolerance Tolerance) (*interpolationResult, error) {
	weights := make([]*Number, len(costeds))
	known := make([]Number, 0, len(costeds))
	unknownIdx := -1
	unknownCount := 0

	for i, c := range costeds {
		if w, ok := c.weight(); ok {
			weights[i] = &w
			known = append(known, w)
		} else {
			unknownCount++
			unknownIdx = i
		}
	}

	residualValue, outsideTolerance := tolerance.Residual(known, currency)
	var residual *Number
	if outsideTolerance {
		residual = &residualValue
	}

	switch {
	case unknownCount == 1:
		inferred := decimal.Zero
		if residual != nil {
			inferred = residual.Neg()
		}
		weights[unknownIdx] = &inferred
		residual = nil
	case unknownCount > 1:
		return nil, &TooManyMissingNumbersError{}
	}

	results := make([]interpolatedPosting, len(costeds))
	for i, c := range costeds {
		if c.booked != nil {
			results[i] = interpolatedPosting{posting: *c.booked, booked: true}
			continue
		}

		resolved, err := interpolateFromAnnotated(date, currency, *weights[i], *c.unbooked)
		if err != nil {
			return nil, err
		}
		results[i] = interpolatedPosting{posting: resolved, booked: false}
	}

	return &interpolationResult{postings: results, residual: residual}, nil
}

// interpolateFromAnnotated resolves a single unbooked posting now that its
// balancing weight is known, filling in whichever of units/currency/cost/
// price the posting itself didn't state.
func interpolateFromAnnotated(date Date, currency Currency, weight Number, annotated annotatedPosting) (Interpolated, error) {
	posting := annotated.posting
	idx := annotated.index
	uu := inferUnits(posting, weight)

	switch {
	case posting.Cost == nil && posting.Price == nil:
		return Interpolated{Posting: posting, Index: idx, Units: weight, Currency: currency}, nil

	case uu != nil && annotated.currency != nil && posting.Cost != nil:
		curr := *annotated.currency
		switch {
		case annotated.costCurrency != nil && uu.perUnit != nil:
			costDate := date
			if posting.Cost.Date != nil {
				costDate = *posting.Cost.Date
			}
			return Interpolated{
				Posting:  posting,
				Index:    idx,
				Units:    uu.units,
				Currency: curr,
				Cost: &PostingCosts{
					CostCurrency: *annotated.costCurrency,
					Adjustments: []PostingCost{{
						Date:    costDate,
						Units:   uu.units,
						PerUnit: *uu.perUnit,
						Label:   posting.Cost.Label,
						Merge:   posting.Cost.Merge,
					}},
				},
			}, nil
		case annotated.costCurrency == nil && uu.perUnit != nil:
			return Interpolated{}, postingErr(idx, CannotInferCurrency)
		case annotated.costCurrency != nil && uu.perUnit == nil:
			return Interpolated{}, postingErr(idx, CannotInferUnits)
		default:
			return Interpolated{}, postingErr(idx, CannotInferAnything)
		}

	case uu != nil && annotated.currency != nil && posting.Cost == nil && posting.Price != nil:
		curr := *annotated.currency
		switch {
		case uu.perUnit != nil && annotated.priceCurrency != nil:
			return Interpolated{
				Posting:  posting,
				Index:    idx,
				Units:    uu.units,
				Currency: curr,
				Price:    &Price{PerUnit: *uu.perUnit, Currency: *annotated.priceCurrency},
			}, nil
		case uu.perUnit == nil && annotated.priceCurrency != nil:
			return Interpolated{}, postingErr(idx, CannotInferPricePerUnit)
		case uu.perUnit != nil && annotated.priceCurrency == nil:
			return Interpolated{}, postingErr(idx, CannotInferPriceCurrency)
		default:
			return Interpolated{}, postingErr(idx, CannotInferPrice)
		}

	case uu == nil && annotated.currency != nil:
		return Interpolated{}, postingErr(idx, CannotInferUnits)
	case uu != nil && annotated.currency == nil:
		return Interpolated{}, postingErr(idx, CannotInferCurrency)
	default:
		return Interpolated{}, postingErr(idx, CannotInferAnything)
	}
}

type unitsAndPerUnit struct {
	units   Number
	perUnit *Number
}

// inferUnits derives a posting's units (and, where relevant, its per-unit
// cost/price) now that its weight is known.
func inferUnits(posting PostingSpec, weight Number) *unitsAndPerUnit {
	switch {
	case posting.Cost != nil:
		return unitsFromCostSpec(posting.Units, weight, posting.Cost)
	case posting.Price != nil:
		return unitsFromPriceSpec(posting.Units, weight, posting.Price)
	case posting.Units != nil:
		return &unitsAndPerUnit{units: *posting.Units}
	default:
		return nil
	}
}

func unitsFromCostSpec(postingUnits *Number, weight Number, cost *CostSpec) *unitsAndPerUnit {
	switch {
	case postingUnits != nil && cost.PerUnit != nil:
		pu := *cost.PerUnit
		return &unitsAndPerUnit{units: *postingUnits, perUnit: &pu}
	case postingUnits == nil && cost.PerUnit != nil:
		pu := *cost.PerUnit
		units := rescaled(weight.Div(pu), scaleOf(weight))
		return &unitsAndPerUnit{units: units, perUnit: &pu}
	case postingUnits != nil && cost.Total != nil:
		perUnit := cost.Total.Div(*postingUnits)
		return &unitsAndPerUnit{units: *postingUnits, perUnit: &perUnit}
	case postingUnits != nil:
		return &unitsAndPerUnit{units: *postingUnits}
	default:
		return nil
	}
}

func unitsFromPriceSpec(postingUnits *Number, weight Number, price *PriceSpec) *unitsAndPerUnit {
	switch {
	case postingUnits != nil && price.PerUnit != nil:
		pu := *price.PerUnit
		return &unitsAndPerUnit{units: *postingUnits, perUnit: &pu}
	case postingUnits == nil && price.PerUnit != nil:
		pu := *price.PerUnit
		units := rescaled(weight.Div(pu), scaleOf(weight))
		return &unitsAndPerUnit{units: units, perUnit: &pu}
	case postingUnits != nil && price.Total != nil:
		perUnit := price.Total.Div(*postingUnits)
		return &unitsAndPerUnit{units: *postingUnits, perUnit: &perUnit}
	case postingUnits != nil:
		perUnit := weight.Div(*postingUnits)
		return &unitsAndPerUnit{units: *postingUnits, perUnit: &perUnit}
	default:
		return nil
	}
}
