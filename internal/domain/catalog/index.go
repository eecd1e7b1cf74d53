package catalog

import "sort"

// Index holds catalog-wide statistics computed once after load. Read-only
// afterwards; shared safely across concurrent requests.
type Index struct {
	PriceMin, PriceMax       float64
	ETAMin, ETAMax           float64
	RatingMin, RatingMax     float64
	FeeMin, FeeMax           float64
	DiscountMin, DiscountMax float64

	pricesSorted []float64
	etasSorted   []float64
}

// NewIndex builds the statistics index for a catalog. An empty catalog yields
// a zero index.
func NewIndex(dishes []Dish) *Index {
	idx := &Index{}
	if len(dishes) == 0 {
		return idx
	}

	prices := make([]float64, len(dishes))
	etas := make([]float64, len(dishes))
	for i, d := range dishes {
		prices[i] = float64(d.PriceARS)
		etas[i] = float64(d.Restaurant.ETAMin)
	}
	sort.Float64s(prices)
	sort.Float64s(etas)
	idx.pricesSorted = prices
	idx.etasSorted = etas

	idx.PriceMin, idx.PriceMax = prices[0], prices[len(prices)-1]
	idx.ETAMin, idx.ETAMax = etas[0], etas[len(etas)-1]

	idx.RatingMin, idx.RatingMax = dishes[0].Restaurant.Rating, dishes[0].Restaurant.Rating
	idx.FeeMin, idx.FeeMax = dishes[0].DeliveryFee, dishes[0].DeliveryFee
	idx.DiscountMin, idx.DiscountMax = dishes[0].DiscountPct, dishes[0].DiscountPct
	for _, d := range dishes[1:] {
		idx.RatingMin = minF(idx.RatingMin, d.Restaurant.Rating)
		idx.RatingMax = maxF(idx.RatingMax, d.Restaurant.Rating)
		idx.FeeMin = minF(idx.FeeMin, d.DeliveryFee)
		idx.FeeMax = maxF(idx.FeeMax, d.DeliveryFee)
		idx.DiscountMin = minF(idx.DiscountMin, d.DiscountPct)
		idx.DiscountMax = maxF(idx.DiscountMax, d.DiscountPct)
	}
	return idx
}

// PricePercentile returns the price at the given percentile (0..1) of the
// sorted catalog price distribution, or false for an empty catalog.
func (i *Index) PricePercentile(pct float64) (float64, bool) {
	return percentile(i.pricesSorted, pct)
}

// ETAPercentile returns the restaurant ETA at the given percentile (0..1).
func (i *Index) ETAPercentile(pct float64) (float64, bool) {
	return percentile(i.etasSorted, pct)
}

// Norm scales v into [0,1] against the [lo,hi] range, clamping at the edges.
// A degenerate range yields 0.
func Norm(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	n := (v - lo) / (hi - lo)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func percentile(sorted []float64, pct float64) (float64, bool) {
	if len(sorted) == 0 {
		return 0, false
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}
	idx := int(float64(len(sorted))*pct) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(sorted)-1 {
		idx = len(sorted) - 1
	}
	return sorted[idx], true
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
