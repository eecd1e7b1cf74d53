package search

import (
	"fmt"
	"strings"

	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/normalize"
)

const (
	restaurantHitBonus = 0.4
	boostFactor        = 1.10
	penalizeFactor     = 0.85
)

// score computes the weighted sum over normalized channels, the flat
// restaurant-hit bonus and the multiplicative boost/penalize adjustments.
// Returns the score and the per-channel breakdown.
func (s *Service) score(d catalog.Dish, q *query.CompiledQuery, weights map[string]float64) (float64, []string) {
	ratingN := catalog.Norm(d.Restaurant.Rating, s.idx.RatingMin, s.idx.RatingMax)
	priceN := catalog.Norm(float64(d.PriceARS), s.idx.PriceMin, s.idx.PriceMax)
	etaN := catalog.Norm(float64(d.Restaurant.ETAMin), s.idx.ETAMin, s.idx.ETAMax)
	popN := float64(d.Popularity) / 100.0
	distN := distanceScore(d, &q.Filters)
	lexN := s.lexScore(q.Text, d, &q.Filters)
	promoN := catalog.Norm(d.DiscountPct, s.idx.DiscountMin, s.idx.DiscountMax)
	feeN := catalog.Norm(d.DeliveryFee, s.idx.FeeMin, s.idx.FeeMax)

	score := weights[query.WeightRating]*ratingN +
		weights[query.WeightPrice]*(1-priceN) +
		weights[query.WeightETA]*(1-etaN) +
		weights[query.WeightPop]*popN +
		weights[query.WeightDist]*distN +
		weights[query.WeightLex]*lexN +
		weights[query.WeightPromo]*promoN +
		weights[query.WeightFee]*(1-feeN)

	reasons := []string{
		fmt.Sprintf("rating:%.2f", ratingN),
		fmt.Sprintf("price_inv:%.2f", 1-priceN),
		fmt.Sprintf("eta_inv:%.2f", 1-etaN),
		fmt.Sprintf("pop:%.2f", popN),
		fmt.Sprintf("dist:%.2f", distN),
		fmt.Sprintf("lex:%.2f", lexN),
		fmt.Sprintf("promo:%.2f", promoN),
		fmt.Sprintf("fee_inv:%.2f", 1-feeN),
	}

	if query.Contains(q.Metadata.RestaurantHits, d.Restaurant.Name) {
		score += restaurantHitBonus
		reasons = append(reasons, "rest_hit")
	}

	tags := dishTagUnion(d)
	if anyTagIn(q.Overrides.BoostTags, tags) {
		score *= boostFactor
		reasons = append(reasons, "boost")
	}
	if anyTagIn(q.Overrides.PenalizeTags, tags) {
		score *= penalizeFactor
		reasons = append(reasons, "penal")
	}
	return score, reasons
}

// distanceScore is a neighborhood proxy: full score on a match, neutral when
// no neighborhood was requested, zero otherwise.
func distanceScore(d catalog.Dish, f *query.Filters) float64 {
	if len(f.NeighborhoodAny) == 0 {
		return 0.5
	}
	if query.Contains(f.NeighborhoodAny, d.Restaurant.Neighborhood) {
		return 1.0
	}
	return 0.0
}

// lexScore is the fraction of query tokens present in the dish's searchable
// text, with a capped bonus when the restaurant's own name appears verbatim
// and does not contradict requested categories. Soft ingredient mentions
// (ingredients_any) join the token set so they nudge ranking without
// excluding anything.
func (s *Service) lexScore(text string, d catalog.Dish, f *query.Filters) float64 {
	qn := normalize.Strict(text)
	qWords := normalize.WordSet(qn)
	for _, ing := range f.IngredientsAny {
		if group, ok := s.lex.IngredientGroups()[ing]; ok {
			for surface := range group {
				for _, w := range normalize.Tokens(surface) {
					qWords[w] = struct{}{}
				}
			}
			continue
		}
		for _, w := range normalize.Tokens(normalize.Strict(ing)) {
			qWords[w] = struct{}{}
		}
	}
	if len(qWords) == 0 {
		return 0.0
	}

	searchable := strings.Join([]string{
		d.Name,
		d.Description,
		strings.Join(d.Synonyms, " "),
		strings.Join(d.Ingredients, " "),
		d.Restaurant.Name,
	}, " ")
	baseWords := normalize.WordSet(normalize.Strict(searchable))

	hits := 0
	for w := range qWords {
		if _, ok := baseWords[w]; ok {
			hits++
		}
	}
	score := float64(hits) / float64(len(qWords))

	rn := normalize.Strict(d.Restaurant.Name)
	if rn != "" && strings.Contains(qn, rn) &&
		(len(f.CategoryAny) == 0 || anyOverlap(f.CategoryAny, d.Categories)) {
		score += restaurantHitBonus
		if score > 1.0 {
			score = 1.0
		}
	}
	return score
}

// dishTagUnion is the tag set boost/penalize tags match against: categories,
// health tags, intent tags and the lowercased cuisine.
func dishTagUnion(d catalog.Dish) map[string]struct{} {
	tags := make(map[string]struct{}, len(d.Categories)+len(d.HealthTags)+len(d.IntentTags)+1)
	for _, t := range d.Categories {
		tags[t] = struct{}{}
	}
	for _, t := range d.HealthTags {
		tags[t] = struct{}{}
	}
	for _, t := range d.IntentTags {
		tags[t] = struct{}{}
	}
	if d.Restaurant.Cuisine != "" {
		tags[strings.ToLower(d.Restaurant.Cuisine)] = struct{}{}
	}
	return tags
}

func anyTagIn(want []string, tags map[string]struct{}) bool {
	for _, w := range want {
		if _, ok := tags[w]; ok {
			return true
		}
	}
	return false
}
