package booking

import "golang.org/x/exp/slices"

// findInsertionIndex returns the index at which a position with the given
// currency and cost either already exists (found=true) or should be
// inserted to keep Positions sorted, following the comparator the method
// implies: for None with a cost present, the comparator always reports the
// existing position as "less", which degenerates the search into an
// unconditional append, matching the Rust original's "no matching when a
// cost is supplied" rule for Booking::None.
func findInsertionIndex(ps Positions, currency Currency, cost *Cost, method Method) (int, bool) {
	target := Position{Currency: currency, Cost: cost}

	return slices.BinarySearchFunc(ps, target, func(existing, target Position) int {
		if d := compareString(string(existing.Currency), string(target.Currency)); d != 0 {
			return d
		}
		switch method {
		case None:
			switch {
			case existing.Cost == nil && target.Cost == nil:
				return 0
			case existing.Cost != nil && target.Cost == nil:
				return 1
			default:
				return -1
			}
		default:
			switch {
			case existing.Cost == nil && target.Cost == nil:
				return 0
			case existing.Cost != nil && target.Cost == nil:
				return 1
			case existing.Cost == nil && target.Cost != nil:
				return -1
			default:
				return existing.Cost.Compare(*target.Cost)
			}
		}
	})
}

// Accumulate augments ps with units of currency at the given cost (nil for
// a costless holding), inserting a new position when none matches or adding
// to an existing one, and removing the result when it nets to zero units.
func (ps *Positions) Accumulate(units Number, currency Currency, cost *Cost, method Method) {
	idx, found := findInsertionIndex(*ps, currency, cost, method)

	if found {
		updated := (*ps)[idx].withAccumulated(units)
		if updated.Units.IsZero() {
			*ps = append((*ps)[:idx], (*ps)[idx+1:]...)
		} else {
			(*ps)[idx] = updated
		}
		return
	}

	if units.IsZero() {
		return
	}

	*ps = slices.Insert(*ps, idx, Position{Currency: currency, Units: units, Cost: cost})
}
