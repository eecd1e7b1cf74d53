// Package compile turns free Spanish food-ordering text into a structured
// query: hard filters, ranking overrides, UI hints and an explanation plan.
package compile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/domain"
	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
	"github.com/comidalab/buscaplato/internal/metrics"
	"github.com/comidalab/buscaplato/internal/normalize"
)

// Result is a compiled query plus its human-readable plan.
type Result struct {
	Query query.CompiledQuery `json:"query"`
	Plan  []string            `json:"plan"`
}

// Service runs the compilation pipeline: extractor battery, conversational
// scenarios, course preference, restaurant-name suppression and optional
// planner enrichment. Safe for concurrent use.
type Service struct {
	lex     *lexicon.Lexicon
	idx     *catalog.Index
	ex      *extractor
	planner Planner
	logger  *zap.Logger
}

// New creates the compile service. planner may be nil when enrichment is
// disabled.
func New(lex *lexicon.Lexicon, idx *catalog.Index, restaurantNames []string, planner Planner, logger *zap.Logger) *Service {
	return &Service{
		lex:     lex,
		idx:     idx,
		ex:      newExtractor(lex, restaurantNames),
		planner: planner,
		logger:  logger,
	}
}

// Compile parses text into a compiled query. It never fails on user input:
// unrecognized text compiles to the default filter set.
func (s *Service) Compile(ctx context.Context, text string) (Result, error) {
	trace := &Trace{}
	q := query.NewCompiledQuery(text)
	tn := normalize.Strict(text)

	q.Metadata.RestaurantHits = s.ex.extractRestaurants(text, trace)

	q.Filters.CategoryAny = s.ex.extractCategories(tn, trace)
	q.Filters.NeighborhoodAny = s.ex.extractNeighborhoods(text, trace)
	q.Filters.CuisinesAny = s.ex.extractCuisines(text, trace)
	q.Filters.MealMomentsAny = s.ex.extractMealMoments(tn, trace)

	ch := s.ex.extractIngredients(tn, trace)
	q.Filters.IngredientsInclude = ch.include
	q.Filters.IngredientsExclude = ch.exclude
	q.Filters.IngredientsAny = ch.softAny
	q.Filters.AllergensExclude = ch.allergens

	q.Filters.DietMust = s.ex.extractDiets(tn, trace)

	hi := s.ex.extractHealthAndIntents(tn, trace)
	q.Filters.HealthAny = hi.healthAny
	q.AddHints(hi.hints...)
	q.Overrides.AddBoost(hi.boost...)
	q.Overrides.AddPenalize(hi.penalize...)

	q.Filters.PriceMax = s.ex.extractPriceMax(tn, trace)
	q.Filters.ETAMax = s.ex.extractETAMax(tn, trace)
	q.Filters.RatingMin = s.ex.extractRatingMin(text, trace)
	q.Weights = s.ex.extractWeights(tn, trace)

	// An explicit dessert mention survives the course-preference pass.
	dessertRequested := query.Contains(q.Filters.CategoryAny, "postres") ||
		query.Contains(q.Filters.CategoryAny, "helado") ||
		query.Contains(q.Filters.MealMomentsAny, "postre")

	summaries := applyScenarios(&q, s.idx, normalize.Soft(text), trace)
	if len(summaries) > 0 {
		q.AdvisorSummary = strings.Join(summaries, " ")
	}

	applyCoursePreference(&q, dessertRequested, trace)
	s.suppressRestaurantEcho(&q, trace)
	s.enrich(ctx, &q, trace)

	if q.Metadata.Enrichment != nil {
		metrics.QueryCompileTotal.WithLabelValues(q.Metadata.Enrichment.Status).Inc()
	}

	return Result{Query: q, Plan: trace.Steps()}, nil
}

// suppressRestaurantEcho drops category and cuisine matches that only exist
// because a word is embedded in a matched restaurant's name ("Wok Express"
// must not force the wok category).
func (s *Service) suppressRestaurantEcho(q *query.CompiledQuery, trace *Trace) {
	if len(q.Metadata.RestaurantHits) == 0 {
		return
	}
	joined := strings.ToLower(strings.Join(q.Metadata.RestaurantHits, " "))
	if !strings.Contains(joined, "wok") {
		return
	}
	before := len(q.Filters.CategoryAny) + len(q.Filters.CuisinesAny)
	q.Filters.CategoryAny = query.Remove(q.Filters.CategoryAny, "wok")
	kept := q.Filters.CuisinesAny[:0]
	for _, c := range q.Filters.CuisinesAny {
		if strings.ToLower(c) != "wok" {
			kept = append(kept, c)
		}
	}
	q.Filters.CuisinesAny = kept
	if before != len(q.Filters.CategoryAny)+len(q.Filters.CuisinesAny) {
		trace.Addf("Nombre de restaurante: descarto categoria/cocina wok por coincidencia literal")
	}
}

// enrich calls the planner once with a bounded context and folds any
// suggestion in. Planner failures degrade to rule-only output, never abort.
func (s *Service) enrich(ctx context.Context, q *query.CompiledQuery, trace *Trace) {
	if s.planner == nil {
		q.Metadata.Enrichment = &query.EnrichmentStatus{Status: query.EnrichmentDisabled}
		return
	}

	req := PlanRequest{
		Text:         q.Text,
		Filters:      q.Filters,
		Hints:        q.Hints,
		ScenarioTags: q.ScenarioTags,
		Facets:       s.lex.Facets(),
	}
	status := &query.EnrichmentStatus{Provider: s.planner.Name()}
	q.Metadata.Enrichment = status

	suggestion, err := s.planner.Plan(ctx, req)
	switch {
	case errors.Is(err, domain.ErrEnrichmentDisabled):
		status.Status = query.EnrichmentDisabled
	case err != nil:
		status.Status = query.EnrichmentError
		status.Message = err.Error()
		s.logger.Warn("Enrichment planner failed, continuing rule-only",
			zap.String("provider", s.planner.Name()), zap.Error(err))
		trace.Addf("Enriquecimiento: fallo del planificador, sigo solo con reglas")
	case suggestion == nil:
		status.Status = query.EnrichmentNoData
	default:
		m := &merger{lex: s.lex, idx: s.idx}
		notes := m.merge(q, suggestion, trace)
		status.Status = query.EnrichmentUsed
		status.Notes = notes
		q.Metadata.EnrichmentNotes = notes
	}
}
