package revenue

import (
	"context"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/cache"
)

// Decomposer turns an order's raw line-items, refunds and discounts fields
// into a revenue Decomposition. Decomposition is pure, so results are
// memoized by raw input when a cache is attached; identical rows across a
// feed decompose once.
type Decomposer struct {
	cache cache.Cache
}

// NewDecomposer creates a decomposer. A nil cache disables memoization.
func NewDecomposer(c cache.Cache) *Decomposer {
	return &Decomposer{cache: c}
}

// Decompose extracts the revenue components from the raw order fields.
func (d *Decomposer) Decompose(ctx context.Context, lineItems, refunds, discounts string) Decomposition {
	if d.cache == nil {
		return decompose(lineItems, refunds, discounts)
	}

	key := cacheKey(lineItems, refunds, discounts)
	if cached, found := d.cache.Get(ctx, key); found {
		if result, ok := cache.UnmarshalCacheValue[Decomposition](cached); ok {
			return *result
		}
	}

	result := decompose(lineItems, refunds, discounts)
	d.cache.Set(ctx, key, &result, 0)
	return result
}

func decompose(lineItems, refunds, discounts string) Decomposition {
	return Decomposition{
		Gross:    ExtractGrossAmount(lineItems),
		Refund:   ExtractRefundAmount(refunds),
		Discount: ExtractDiscountAmount(discounts),
	}
}
