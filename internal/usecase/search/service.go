// Package search runs compiled queries against the dish catalog: hard
// filtering, weighted scoring and the empty-result relaxation pass.
package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/domain"
	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
	"github.com/comidalab/buscaplato/internal/normalize"
)

// Result is one ranked dish with its score breakdown.
type Result struct {
	Item    catalog.Dish `json:"item"`
	Score   float64      `json:"score"`
	Reasons []string     `json:"reasons"`
}

// Rejection records why a dish failed the hard filters.
type Rejection struct {
	ID  string   `json:"id"`
	Why []string `json:"why"`
}

// Plan explains how a search was executed.
type Plan struct {
	HardFilters    query.Filters           `json:"hard_filters"`
	RankingWeights map[string]float64      `json:"ranking_weights"`
	Explain        string                  `json:"explain"`
	RejectedSample []Rejection             `json:"rejected_sample"`
	AdvisorSummary string                  `json:"advisor_summary,omitempty"`
	ScenarioTags   []string                `json:"scenario_tags,omitempty"`
	Relaxations    []string                `json:"relaxed_filters,omitempty"`
	Enrichment     *query.EnrichmentStatus `json:"llm_status,omitempty"`
}

// Response is the full search answer: ranked results plus the plan.
type Response struct {
	Results []Result `json:"results"`
	Plan    Plan     `json:"plan"`
}

const rejectedSampleSize = 10

// Service filters and ranks the catalog. The catalog, index and lexicon are
// read-only after construction; the service is safe for concurrent use.
type Service struct {
	dishes []catalog.Dish
	idx    *catalog.Index
	lex    *lexicon.Lexicon
	logger *zap.Logger
}

// New creates a search service over an already augmented catalog.
func New(dishes []catalog.Dish, idx *catalog.Index, lex *lexicon.Lexicon, logger *zap.Logger) *Service {
	return &Service{dishes: dishes, idx: idx, lex: lex, logger: logger}
}

// Search runs the compiled query. An empty initial result set triggers the
// relaxation pass over auto-applied constraints.
func (s *Service) Search(ctx context.Context, q query.CompiledQuery) (Response, error) {
	if len(s.dishes) == 0 {
		return Response{}, domain.ErrCatalogEmpty
	}

	results, rejected := s.runOnce(&q)

	var relaxations []string
	if len(results) == 0 {
		relaxed := q
		rResults, rRejected, attempts := s.relax(&relaxed)
		if len(attempts) > 0 {
			results, rejected, relaxations = rResults, rRejected, attempts
			q = relaxed
		}
	}

	plan := Plan{
		HardFilters:    q.Filters,
		RankingWeights: q.EffectiveWeights(),
		Explain:        "Se aplicaron filtros duros y luego orden ponderado. Boosts y penalizaciones consideradas.",
		RejectedSample: rejected,
		AdvisorSummary: q.AdvisorSummary,
		ScenarioTags:   q.ScenarioTags,
		Relaxations:    relaxations,
		Enrichment:     q.Metadata.Enrichment,
	}
	if plan.Enrichment != nil && len(plan.Enrichment.Notes) == 0 {
		plan.Enrichment.Notes = q.Metadata.EnrichmentNotes
	}

	s.logger.Debug("Search executed",
		zap.Int("results", len(results)),
		zap.Int("relaxations", len(relaxations)))
	return Response{Results: results, Plan: plan}, nil
}

// runOnce evaluates every dish against the filters and scores the survivors.
// The sort is stable: ties keep catalog order.
func (s *Service) runOnce(q *query.CompiledQuery) ([]Result, []Rejection) {
	weights := q.EffectiveWeights()
	var results []Result
	var rejected []Rejection

	for _, d := range s.dishes {
		if reason, ok := s.passes(d, &q.Filters); !ok {
			if len(rejected) < rejectedSampleSize {
				rejected = append(rejected, Rejection{ID: d.ID, Why: []string{reason}})
			}
			continue
		}
		score, reasons := s.score(d, q, weights)
		results = append(results, Result{Item: d, Score: score, Reasons: reasons})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, rejected
}

// passes applies the hard-filter families in order; the first failing
// predicate short-circuits with its reason.
func (s *Service) passes(d catalog.Dish, f *query.Filters) (string, bool) {
	if f.AvailableOnly && !d.Available {
		return "No disponible", false
	}
	if len(f.MealMomentsAny) > 0 && !anyOverlap(f.MealMomentsAny, d.MealMoments) {
		return fmt.Sprintf("Meal moment no coincide %v", f.MealMomentsAny), false
	}
	if len(f.CategoryAny) > 0 && !anyOverlap(f.CategoryAny, d.Categories) {
		return fmt.Sprintf("Categoria no coincide %v", f.CategoryAny), false
	}
	if len(f.NeighborhoodAny) > 0 && !query.Contains(f.NeighborhoodAny, d.Restaurant.Neighborhood) {
		return fmt.Sprintf("Barrio no coincide %v", f.NeighborhoodAny), false
	}
	if len(f.CuisinesAny) > 0 && !query.Contains(f.CuisinesAny, d.Restaurant.Cuisine) {
		return fmt.Sprintf("Cocina no coincide %v", f.CuisinesAny), false
	}
	if len(f.RestaurantAny) > 0 && !query.Contains(f.RestaurantAny, d.Restaurant.Name) {
		return fmt.Sprintf("Restaurante no coincide %v", f.RestaurantAny), false
	}

	if len(f.IngredientsInclude) > 0 || len(f.IngredientsExclude) > 0 {
		set := s.expandIngredients(d.Ingredients)
		for _, ing := range f.IngredientsInclude {
			if !s.ingredientPresent(ing, set) {
				return "Falta ingrediente requerido", false
			}
		}
		for _, ing := range f.IngredientsExclude {
			if s.ingredientPresent(ing, set) {
				return "Contiene ingrediente excluido", false
			}
		}
	}

	for _, flag := range f.DietMust {
		if !d.DietFlags[flag] {
			return fmt.Sprintf("No cumple dietas requeridas %v", f.DietMust), false
		}
	}
	if len(f.AllergensExclude) > 0 && anyOverlap(f.AllergensExclude, d.Allergens) {
		return fmt.Sprintf("Contiene alergenos excluidos %v", f.AllergensExclude), false
	}
	if len(f.HealthAny) > 0 && !anyOverlap(f.HealthAny, d.HealthTags) {
		return fmt.Sprintf("No coincide salud %v", f.HealthAny), false
	}
	if len(f.IntentTagsAny) > 0 && !anyOverlap(f.IntentTagsAny, d.IntentTags) {
		return fmt.Sprintf("No coincide intencion %v", f.IntentTagsAny), false
	}

	if f.PriceMax != nil {
		if limit, ok := f.PriceMax.Resolve(s.idx); ok && float64(d.PriceARS) > limit {
			return "Precio mayor a limite", false
		}
	}
	if f.ETAMax != nil && float64(d.EffectiveETA()) > *f.ETAMax {
		return "ETA mayor a limite", false
	}
	if f.RatingMin != nil && d.Restaurant.Rating < *f.RatingMin {
		return "Rating menor a minimo", false
	}
	return "", true
}

// expandIngredients normalizes the dish's raw ingredient strings and adds
// every canonical token whose synonym group overlaps them.
func (s *Service) expandIngredients(raw []string) map[string]struct{} {
	set := make(map[string]struct{}, len(raw)*2)
	for _, r := range raw {
		set[normalize.Strict(r)] = struct{}{}
	}
	for canonical, group := range s.lex.IngredientGroups() {
		for surface := range group {
			if _, ok := set[surface]; ok {
				set[canonical] = struct{}{}
				break
			}
		}
	}
	return set
}

// ingredientPresent resolves a required token through the synonym map before
// checking membership.
func (s *Service) ingredientPresent(token string, set map[string]struct{}) bool {
	if _, ok := set[normalize.Strict(token)]; ok {
		return true
	}
	if canonical, ok := s.lex.CanonicalIngredient(token); ok {
		if _, hit := set[canonical]; hit {
			return true
		}
	}
	_, ok := set[token]
	return ok
}

func anyOverlap(want, have []string) bool {
	for _, w := range want {
		if query.Contains(have, w) {
			return true
		}
	}
	return false
}
