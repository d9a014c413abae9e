package booking

// categorizeByCurrency buckets a transaction's postings by the currency
// each balances in, inferring a bucket for postings whose currency can't be
// read off directly and placing at most one auto-posting into its bucket.
//
// Grounded on the Rust original's categorize_by_currency: bucket inference
// order is (1) a lone posting left unbucketed when every other posting
// shares one bucket, (2) the currency of the account's own existing
// holdings when that's unambiguous, and only then does an unresolvable
// posting fail outright.
func categorizeByCurrency(postings []PostingSpec, inventory InventoryLookup) (map[Currency][]annotatedPosting, error) {
	currencyGroups := map[Currency][]annotatedPosting{}
	autoPostings := map[bucketKey]annotatedPosting{}
	var unknown []annotatedPosting
	accountCurrencyCache := map[Account]*Currency{}

	for idx, posting := range postings {
		var postingCostCurrency, postingPriceCurrency *Currency
		if posting.Cost != nil {
			postingCostCurrency = posting.Cost.Currency
		}
		if posting.Price != nil {
			postingPriceCurrency = posting.Price.Currency
		}

		costCurrency := postingCostCurrency
		if costCurrency == nil {
			costCurrency = postingPriceCurrency
		}
		priceCurrency := postingPriceCurrency
		if priceCurrency == nil {
			priceCurrency = postingCostCurrency
		}

		p := annotatedPosting{
			posting:       posting,
			index:         idx,
			currency:      posting.Currency,
			costCurrency:  costCurrency,
			priceCurrency: priceCurrency,
		}
		bucket := p.bucket()

		switch {
		case posting.Units == nil && posting.Currency == nil:
			key := keyFor(bucket)
			if _, exists := autoPostings[key]; exists {
				return nil, postingErr(idx, AmbiguousAutoPost)
			}
			autoPostings[key] = p
		case bucket != nil:
			currencyGroups[*bucket] = append(currencyGroups[*bucket], p)
		default:
			unknown = append(unknown, p)
		}
	}

	// A single posting left unbucketed, with everything else sharing one
	// bucket, infers its currency (and cost/price currencies) from that
	// sole bucket.
	if len(unknown) == 1 && len(currencyGroups) == 1 {
		var onlyBucket Currency
		for cur := range currencyGroups {
			onlyBucket = cur
		}
		u := unknown[0]
		unknown = nil

		currency := u.currency
		if currency == nil && u.posting.Price == nil && u.posting.Cost == nil {
			only := onlyBucket
			currency = &only
		}

		costCurrency := u.costCurrency
		if costCurrency == nil {
			only := onlyBucket
			costCurrency = &only
		}
		priceCurrency := u.priceCurrency
		if priceCurrency == nil {
			only := onlyBucket
			priceCurrency = &only
		}

		inferred := annotatedPosting{
			posting:       u.posting,
			index:         u.index,
			currency:      currency,
			costCurrency:  costCurrency,
			priceCurrency: priceCurrency,
		}
		currencyGroups[onlyBucket] = append(currencyGroups[onlyBucket], inferred)
	}

	// Remaining unknown postings infer a bucket from their account's own
	// (unambiguous) holdings.
	for _, u := range unknown {
		bucket, ok := accountCurrency(u.posting.Account, inventory, accountCurrencyCache)
		if !ok {
			return nil, postingErr(u.index, CannotInferAnything)
		}
		currencyGroups[bucket] = append(currencyGroups[bucket], u)
	}

	if auto, ok := autoPostings[bucketKey{}]; ok {
		delete(autoPostings, bucketKey{})
		if len(autoPostings) != 0 {
			return nil, postingErr(auto.index, AmbiguousAutoPost)
		}

		switch len(currencyGroups) {
		case 0:
			return nil, &CannotDetermineCurrencyForBalancingError{}
		case 1:
			for cur := range currencyGroups {
				currencyGroups[cur] = append(currencyGroups[cur], auto)
			}
		default:
			currencies := make([]Currency, 0, len(currencyGroups))
			for cur := range currencyGroups {
				currencies = append(currencies, cur)
			}
			return nil, &AutoPostMultipleBucketsError{Currencies: currencies}
		}
	} else {
		for key, auto := range autoPostings {
			currencyGroups[key.currency] = append(currencyGroups[key.currency], auto)
		}
	}

	return currencyGroups, nil
}

// bucketKey is a comparable stand-in for Option<Currency>, used as the
// auto-posting map's key so at most one bucketless auto-posting and at most
// one auto-posting per bucket are ever accepted.
type bucketKey struct {
	currency Currency
	isSet    bool
}

func keyFor(c *Currency) bucketKey {
	if c == nil {
		return bucketKey{}
	}
	return bucketKey{currency: *c, isSet: true}
}

// accountCurrency looks up the sole currency account currently holds, if
// any, memoizing the result (including a negative result) across calls for
// the same transaction.
func accountCurrency(account Account, inventory InventoryLookup, cache map[Account]*Currency) (Currency, bool) {
	if cur, ok := cache[account]; ok {
		if cur == nil {
			return "", false
		}
		return *cur, true
	}

	positions, ok := inventory(account)
	if !ok {
		cache[account] = nil
		return "", false
	}

	seen := map[Currency]struct{}{}
	for _, pos := range positions {
		seen[pos.Currency] = struct{}{}
	}
	if len(seen) != 1 {
		cache[account] = nil
		return "", false
	}

	var cur Currency
	for c := range seen {
		cur = c
	}
	cache[account] = &cur
	return cur, true
}
