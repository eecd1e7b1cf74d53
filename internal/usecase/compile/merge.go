package compile

import (
	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
)

// Merge rules for planner suggestions. List fields union into existing
// values after lexicon canonicalization; a list field with no user value is
// accepted only when it is on the always-mergeable allow-list. Numeric
// bounds merge only when the user set that bound explicitly, and only toward
// looser (never introducing or tightening a constraint the user did not
// ask for).

// alwaysMergeable are the list fields a suggestion may populate even when
// the user left them empty.
var alwaysMergeable = map[string]struct{}{
	query.FieldHealthAny:     {},
	query.FieldIntentTagsAny: {},
	"ingredients_any":        {},
}

type merger struct {
	lex *lexicon.Lexicon
	idx *catalog.Index
}

// scoringWeightKeys guards the override weight map against junk keys.
var scoringWeightKeys = map[string]struct{}{
	query.WeightRating: {}, query.WeightPrice: {}, query.WeightETA: {},
	query.WeightPop: {}, query.WeightDist: {}, query.WeightLex: {},
	query.WeightPromo: {}, query.WeightFee: {},
}

// merge folds a suggestion into the compiled query and returns the advisor
// notes it produced.
func (m *merger) merge(q *query.CompiledQuery, s *Suggestion, trace *Trace) []string {
	var notes []string
	if s.Headline != "" {
		notes = append(notes, s.Headline)
	}
	if s.Details != "" {
		notes = append(notes, s.Details)
	}
	notes = append(notes, s.Notes...)

	m.mergeFilters(q, s.Filters)
	m.mergeOverrides(q, s.Overrides)
	q.AddHints(s.Hints...)
	q.AddScenarioTags(s.ScenarioTags...)

	for _, st := range s.Strategies {
		m.mergeFilters(q, st.Filters)
		m.mergeOverrides(q, st.Overrides)
		q.AddHints(st.Hints...)
		if st.Summary != "" {
			if st.Title != "" {
				notes = append(notes, st.Title+": "+st.Summary)
			} else {
				notes = append(notes, st.Summary)
			}
		}
	}

	trace.Addf("Enriquecimiento: sugerencia del planificador integrada")
	return notes
}

func (m *merger) mergeFilters(q *query.CompiledQuery, sf SuggestedFilters) {
	f := &q.Filters

	f.CategoryAny = m.mergeList(f.CategoryAny, sf.CategoryAny, query.FieldCategoryAny, m.lex.CanonicalCategory)
	f.CuisinesAny = m.mergeList(f.CuisinesAny, sf.CuisinesAny, "cuisines_any", m.lex.CanonicalCuisine)
	f.NeighborhoodAny = m.mergeList(f.NeighborhoodAny, sf.NeighborhoodAny, "neighborhood_any", m.lex.CanonicalNeighborhood)
	f.MealMomentsAny = m.mergeList(f.MealMomentsAny, sf.MealMomentsAny, "meal_moments_any", m.lex.CanonicalMealMoment)
	f.IngredientsInclude = m.mergeList(f.IngredientsInclude, sf.IngredientsInclude, "ingredients_include", m.lex.CanonicalIngredient)
	f.IngredientsExclude = m.mergeList(f.IngredientsExclude, sf.IngredientsExclude, "ingredients_exclude", m.lex.CanonicalIngredient)
	f.IngredientsAny = m.mergeList(f.IngredientsAny, sf.IngredientsAny, "ingredients_any", m.lex.CanonicalIngredient)
	f.DietMust = m.mergeList(f.DietMust, sf.DietMust, "diet_must", m.lex.CanonicalDiet)
	f.AllergensExclude = m.mergeList(f.AllergensExclude, sf.AllergensExclude, "allergens_exclude", m.lex.CanonicalAllergen)
	f.HealthAny = m.mergeList(f.HealthAny, sf.HealthAny, query.FieldHealthAny, m.lex.CanonicalHealth)
	f.IntentTagsAny = m.mergeList(f.IntentTagsAny, sf.IntentTagsAny, query.FieldIntentTagsAny, m.canonIntentTag)

	// Numeric bounds merge only over a user-set bound and only toward looser.
	if sf.RatingMin != nil && m.userSet(q, query.FieldRatingMin, f.RatingMin != nil) {
		if *sf.RatingMin < *f.RatingMin {
			v := *sf.RatingMin
			f.RatingMin = &v
		}
	}
	if sf.ETAMax != nil && m.userSet(q, query.FieldETAMax, f.ETAMax != nil) {
		if *sf.ETAMax > *f.ETAMax {
			v := *sf.ETAMax
			f.ETAMax = &v
		}
	}
	if sf.PriceMax != nil && m.userSet(q, query.FieldPriceMax, f.PriceMax != nil) {
		cur, okCur := f.PriceMax.Resolve(m.idx)
		next, okNext := sf.PriceMax.Resolve(m.idx)
		if okCur && okNext && next > cur {
			limit := *sf.PriceMax
			f.PriceMax = &limit
		}
	}
	// Availability may only be narrowed, never opened up.
	if sf.AvailableOnly != nil && *sf.AvailableOnly {
		f.AvailableOnly = true
	}
}

func (m *merger) mergeOverrides(q *query.CompiledQuery, so SuggestedOverrides) {
	q.Overrides.AddBoost(so.BoostTags...)
	q.Overrides.AddPenalize(so.PenalizeTags...)
	for k, v := range so.Weights {
		if _, ok := scoringWeightKeys[k]; ok {
			q.Overrides.SetWeight(k, v)
		}
	}
}

// mergeList canonicalizes suggested values and unions the survivors into
// current. An empty current list accepts values only for allow-listed fields.
func (m *merger) mergeList(current, suggested []string, field string, canon func(string) (string, bool)) []string {
	if len(suggested) == 0 {
		return current
	}
	if len(current) == 0 {
		if _, ok := alwaysMergeable[field]; !ok {
			return current
		}
	}
	for _, raw := range suggested {
		if tok, ok := canon(raw); ok {
			current = query.AddUnique(current, tok)
		}
	}
	return current
}

func (m *merger) canonIntentTag(raw string) (string, bool) {
	if m.lex.KnownIntentTag(raw) {
		return raw, true
	}
	return "", false
}

func (m *merger) userSet(q *query.CompiledQuery, field string, present bool) bool {
	return present && !q.Metadata.IsAuto(field)
}
