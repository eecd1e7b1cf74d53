package query

// Weight channel names for the scoring formula.
const (
	WeightRating = "rating"
	WeightPrice  = "price"
	WeightETA    = "eta"
	WeightPop    = "pop"
	WeightDist   = "dist"
	WeightLex    = "lex"
	WeightPromo  = "promo"
	WeightFee    = "fee"
)

// BaseWeights returns the default scoring weight table. Callers receive a
// fresh copy.
func BaseWeights() map[string]float64 {
	return map[string]float64{
		WeightRating: 0.25,
		WeightPrice:  0.20,
		WeightETA:    0.10,
		WeightPop:    0.10,
		WeightDist:   0.10,
		WeightLex:    0.10,
		WeightPromo:  0.10,
		WeightFee:    0.05,
	}
}

// RankingOverrides are soft, score-adjusting hints: boost/penalize tags
// matched against a dish's tag union and a sparse weight override map.
// They never exclude an item.
type RankingOverrides struct {
	BoostTags    []string           `json:"boost_tags"`
	PenalizeTags []string           `json:"penalize_tags"`
	Weights      map[string]float64 `json:"weights"`
}

// AddBoost appends boost tags, skipping duplicates.
func (r *RankingOverrides) AddBoost(tags ...string) {
	r.BoostTags = AddUnique(r.BoostTags, tags...)
}

// AddPenalize appends penalize tags, skipping duplicates.
func (r *RankingOverrides) AddPenalize(tags ...string) {
	r.PenalizeTags = AddUnique(r.PenalizeTags, tags...)
}

// NudgeWeight raises a weight override to at least v; an existing higher
// override is kept. Nudges never decrease a weight.
func (r *RankingOverrides) NudgeWeight(key string, v float64) {
	if r.Weights == nil {
		r.Weights = make(map[string]float64)
	}
	if cur, ok := r.Weights[key]; !ok || v > cur {
		r.Weights[key] = v
	}
}

// SetWeight sets a weight override unconditionally (enrichment merge rule).
func (r *RankingOverrides) SetWeight(key string, v float64) {
	if r.Weights == nil {
		r.Weights = make(map[string]float64)
	}
	r.Weights[key] = v
}
