// Package query defines the compiled query model: hard filters, ranking
// overrides and request-scoped metadata. Values are owned by a single
// request's pipeline and never shared.
package query

import (
	"encoding/json"

	"github.com/comidalab/buscaplato/internal/domain/catalog"
)

// Filter field names, used for auto-constraint bookkeeping and relaxation.
const (
	FieldRatingMin     = "rating_min"
	FieldETAMax        = "eta_max"
	FieldPriceMax      = "price_max"
	FieldCategoryAny   = "category_any"
	FieldHealthAny     = "health_any"
	FieldIntentTagsAny = "intent_tags_any"
)

// Filters are the hard constraints of a compiled query. Every list field
// holds canonical lexicon tokens only, never raw surface strings.
// IngredientsAny is the one soft field: it nudges ranking without excluding.
type Filters struct {
	CategoryAny        []string `json:"category_any"`
	MealMomentsAny     []string `json:"meal_moments_any"`
	NeighborhoodAny    []string `json:"neighborhood_any"`
	CuisinesAny        []string `json:"cuisines_any"`
	RestaurantAny      []string `json:"restaurant_any"`
	IngredientsInclude []string `json:"ingredients_include"`
	IngredientsExclude []string `json:"ingredients_exclude"`
	IngredientsAny     []string `json:"ingredients_any"`
	DietMust           []string `json:"diet_must"`
	AllergensExclude   []string `json:"allergens_exclude"`
	HealthAny          []string `json:"health_any"`
	IntentTagsAny      []string `json:"intent_tags_any"`

	PriceMax      *PriceLimit `json:"price_max,omitempty"`
	ETAMax        *float64    `json:"eta_max,omitempty"`
	RatingMin     *float64    `json:"rating_min,omitempty"`
	AvailableOnly bool        `json:"available_only"`
}

// NewFilters returns the default filter set: all lists empty, no numeric
// bounds, available_only enabled.
func NewFilters() Filters {
	return Filters{AvailableOnly: true}
}

// UnmarshalJSON decodes over the default filter set, so a payload that omits
// available_only keeps it enabled rather than zeroing it to false.
func (f *Filters) UnmarshalJSON(data []byte) error {
	type plain Filters
	aux := plain(NewFilters())
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = Filters(aux)
	return nil
}

// TightenMin moves a lower bound toward stricter (larger) only.
func TightenMin(current *float64, candidate float64) *float64 {
	if current == nil || candidate > *current {
		v := candidate
		return &v
	}
	return current
}

// TightenMax moves an upper bound toward stricter (smaller) only.
func TightenMax(current *float64, candidate float64) *float64 {
	if current == nil || candidate < *current {
		v := candidate
		return &v
	}
	return current
}

// TightenPriceMax lowers a price cap toward candidate (a literal amount),
// resolving any existing percentile label through the catalog index first.
// The bound only ever moves down, and the result is always a literal cap.
func TightenPriceMax(current *PriceLimit, candidate float64, idx *catalog.Index) *PriceLimit {
	if current != nil {
		if resolved, ok := current.Resolve(idx); ok && resolved <= candidate {
			l := LiteralPrice(resolved)
			return &l
		}
	}
	l := LiteralPrice(candidate)
	return &l
}

// AddUnique appends values not already present, preserving order.
func AddUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		dst = append(dst, v)
		seen[v] = struct{}{}
	}
	return dst
}

// Remove returns dst without the given values, preserving order.
func Remove(dst []string, values ...string) []string {
	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		drop[v] = struct{}{}
	}
	out := dst[:0]
	for _, v := range dst {
		if _, ok := drop[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether list holds v.
func Contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
