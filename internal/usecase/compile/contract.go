package compile

import (
	"context"

	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
)

// PlanRequest is the payload handed to the external enrichment planner.
type PlanRequest struct {
	Text         string         `json:"user_request"`
	Filters      query.Filters  `json:"base_filters"`
	Hints        []string       `json:"base_hints"`
	ScenarioTags []string       `json:"scenario_tags"`
	Facets       lexicon.Facets `json:"catalog_facets"`
}

// SuggestedFilters mirrors the filter fields a planner may propose. All list
// values arrive as raw vocabulary and are canonicalized by the merger;
// unknown tokens are dropped silently.
type SuggestedFilters struct {
	CategoryAny        []string          `json:"category_any"`
	MealMomentsAny     []string          `json:"meal_moments_any"`
	NeighborhoodAny    []string          `json:"neighborhood_any"`
	CuisinesAny        []string          `json:"cuisines_any"`
	IngredientsInclude []string          `json:"ingredients_include"`
	IngredientsExclude []string          `json:"ingredients_exclude"`
	IngredientsAny     []string          `json:"ingredients_any"`
	DietMust           []string          `json:"diet_must"`
	AllergensExclude   []string          `json:"allergens_exclude"`
	HealthAny          []string          `json:"health_any"`
	IntentTagsAny      []string          `json:"intent_tags_any"`
	PriceMax           *query.PriceLimit `json:"price_max,omitempty"`
	ETAMax             *float64          `json:"eta_max,omitempty"`
	RatingMin          *float64          `json:"rating_min,omitempty"`
	AvailableOnly      *bool             `json:"available_only,omitempty"`
}

// SuggestedOverrides are planner-proposed ranking adjustments.
type SuggestedOverrides struct {
	BoostTags    []string           `json:"boost_tags"`
	PenalizeTags []string           `json:"penalize_tags"`
	Weights      map[string]float64 `json:"weights"`
}

// Strategy is an alternative plan inside a suggestion. Its filters, hints and
// overrides merge under the same rules as the top-level suggestion; its
// summary becomes an advisor note.
type Strategy struct {
	Title     string             `json:"title"`
	Summary   string             `json:"summary"`
	Filters   SuggestedFilters   `json:"filters"`
	Overrides SuggestedOverrides `json:"ranking_overrides"`
	Hints     []string           `json:"hints"`
}

// Suggestion is the structured answer of the enrichment planner. Every field
// is optional.
type Suggestion struct {
	Headline     string             `json:"headline"`
	Details      string             `json:"details"`
	Filters      SuggestedFilters   `json:"filters"`
	Overrides    SuggestedOverrides `json:"ranking_overrides"`
	Hints        []string           `json:"hints"`
	ScenarioTags []string           `json:"scenario_tags"`
	Notes        []string           `json:"notes"`
	Strategies   []Strategy         `json:"strategies"`
}

// Planner produces an optional enrichment suggestion for a query. A nil
// suggestion with a nil error means the planner had nothing to add. Returning
// domain.ErrEnrichmentDisabled signals the feature is off entirely.
type Planner interface {
	Name() string
	Plan(ctx context.Context, req PlanRequest) (*Suggestion, error)
}
