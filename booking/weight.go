package booking

// annotatedPosting is a posting paired with the currencies categorization
// inferred for it: the posting's own currency (if stated), and the
// currencies implied by any cost or price annotation.
type annotatedPosting struct {
	posting      PostingSpec
	index        int
	currency     *Currency
	costCurrency *Currency
	priceCurrency *Currency
}

// bucket is the currency used to balance weights during inference, which is
// not necessarily the currency the posting eventually books to: a costed or
// priced posting balances in its cost/price currency, not its own.
func (a annotatedPosting) bucket() *Currency {
	if a.costCurrency != nil {
		return a.costCurrency
	}
	if a.priceCurrency != nil {
		return a.priceCurrency
	}
	if a.posting.Cost == nil && a.posting.Price == nil {
		return a.currency
	}
	return nil
}

// costedPosting is either a posting that reduction has already fully
// booked, or one still awaiting interpolation.
type costedPosting struct {
	booked   *Interpolated
	unbooked *annotatedPosting
}

func bookedPosting(i Interpolated) costedPosting     { return costedPosting{booked: &i} }
func unbookedPosting(a annotatedPosting) costedPosting { return costedPosting{unbooked: &a} }

// weight computes the balancing weight of a posting, per Beancount's
// balancing-rule definition: a booked posting's weight is simply its
// units; an unbooked one derives its weight from cost or price when
// present, falling back to its own units.
//
// CostSpec.Total and PriceSpec.Total are assumed already signed to match
// the weight's sign convention (the caller resolves the "@@ is always a
// positive magnitude" convention before constructing the spec), matching
// the original implementation's generic weight computation exactly.
func (c costedPosting) weight() (Number, bool) {
	if c.booked != nil {
		return c.booked.Units, true
	}

	p := c.unbooked.posting
	switch {
	case p.Cost != nil:
		switch {
		case p.Cost.Total != nil:
			return *p.Cost.Total, true
		case p.Cost.PerUnit != nil && p.Units != nil:
			return rescaled(p.Cost.PerUnit.Mul(*p.Units), scaleOf(*p.Units)), true
		default:
			return Number{}, false
		}
	case p.Price != nil:
		switch {
		case p.Price.Total != nil:
			return *p.Price.Total, true
		case p.Price.PerUnit != nil && p.Units != nil:
			return rescaled(p.Price.PerUnit.Mul(*p.Units), scaleOf(*p.Units)), true
		default:
			return Number{}, false
		}
	default:
		if p.Units != nil {
			return *p.Units, true
		}
		return Number{}, false
	}
}
