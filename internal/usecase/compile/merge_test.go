package compile

import (
	"reflect"
	"testing"

	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
)

func testMerger(t *testing.T) *merger {
	t.Helper()
	return &merger{lex: lexicon.New(), idx: testIndex(t)}
}

func TestMerge_ListFieldNotImposedOnEmptyUserValue(t *testing.T) {
	q := query.NewCompiledQuery("algo romantico")
	s := &Suggestion{Filters: SuggestedFilters{CategoryAny: []string{"Parrilla"}}}

	testMerger(t).merge(&q, s, &Trace{})

	if len(q.Filters.CategoryAny) != 0 {
		t.Fatalf("suggestion must not impose categories, got %v", q.Filters.CategoryAny)
	}
}

func TestMerge_ListFieldUnionsOverUserValue(t *testing.T) {
	q := query.NewCompiledQuery("pasta")
	q.Filters.CategoryAny = []string{"pasta"}
	s := &Suggestion{Filters: SuggestedFilters{CategoryAny: []string{"Parrilla", "comida-inventada"}}}

	testMerger(t).merge(&q, s, &Trace{})

	if !reflect.DeepEqual(q.Filters.CategoryAny, []string{"pasta", "parrilla"}) {
		t.Fatalf("expected canonical union with unknowns dropped, got %v", q.Filters.CategoryAny)
	}
}

func TestMerge_AlwaysMergeableFields(t *testing.T) {
	q := query.NewCompiledQuery("liviano")
	s := &Suggestion{Filters: SuggestedFilters{
		HealthAny:      []string{"saludable", "nope"},
		IntentTagsAny:  []string{"healthy_choice", "made_up_tag"},
		IngredientsAny: []string{"zanahoria"},
	}}

	testMerger(t).merge(&q, s, &Trace{})

	if !hasToken(q.Filters.HealthAny, "no_fry") {
		t.Errorf("expected canonical health tag, got %v", q.Filters.HealthAny)
	}
	if !reflect.DeepEqual(q.Filters.IntentTagsAny, []string{"healthy_choice"}) {
		t.Errorf("expected known intent tags only, got %v", q.Filters.IntentTagsAny)
	}
	if !reflect.DeepEqual(q.Filters.IngredientsAny, []string{"zanahoria"}) {
		t.Errorf("expected soft ingredient merged, got %v", q.Filters.IngredientsAny)
	}
}

func TestMerge_NumericBoundNeedsUserValue(t *testing.T) {
	q := query.NewCompiledQuery("algo rico")
	price := query.LiteralPrice(3500)
	eta := 40.0
	s := &Suggestion{Filters: SuggestedFilters{PriceMax: &price, ETAMax: &eta}}

	testMerger(t).merge(&q, s, &Trace{})

	if q.Filters.PriceMax != nil {
		t.Errorf("suggestion must not introduce a price bound, got %v", q.Filters.PriceMax)
	}
	if q.Filters.ETAMax != nil {
		t.Errorf("suggestion must not introduce an eta bound, got %v", q.Filters.ETAMax)
	}
}

func TestMerge_NumericBoundLoosensUserValueOnly(t *testing.T) {
	q := query.NewCompiledQuery("hasta 3000 y rating 4.5")
	userPrice := query.LiteralPrice(3000)
	userRating := 4.5
	q.Filters.PriceMax = &userPrice
	q.Filters.RatingMin = &userRating

	looser := query.LiteralPrice(5000)
	lowerRating := 4.0
	s := &Suggestion{Filters: SuggestedFilters{PriceMax: &looser, RatingMin: &lowerRating}}
	testMerger(t).merge(&q, s, &Trace{})

	if got, _ := q.Filters.PriceMax.Resolve(nil); got != 5000 {
		t.Errorf("expected price loosened to 5000, got %v", got)
	}
	if *q.Filters.RatingMin != 4.0 {
		t.Errorf("expected rating loosened to 4.0, got %v", *q.Filters.RatingMin)
	}

	tighter := query.LiteralPrice(1000)
	higherRating := 4.9
	s = &Suggestion{Filters: SuggestedFilters{PriceMax: &tighter, RatingMin: &higherRating}}
	testMerger(t).merge(&q, s, &Trace{})

	if got, _ := q.Filters.PriceMax.Resolve(nil); got != 5000 {
		t.Errorf("suggestion must not tighten price, got %v", got)
	}
	if *q.Filters.RatingMin != 4.0 {
		t.Errorf("suggestion must not tighten rating, got %v", *q.Filters.RatingMin)
	}
}

func TestMerge_AutoBoundNotTreatedAsUserValue(t *testing.T) {
	q := query.NewCompiledQuery("cita romantica")
	auto := 4.4
	q.Filters.RatingMin = &auto
	q.Metadata.MarkAuto(query.FieldRatingMin)

	lower := 3.5
	s := &Suggestion{Filters: SuggestedFilters{RatingMin: &lower}}
	testMerger(t).merge(&q, s, &Trace{})

	if *q.Filters.RatingMin != 4.4 {
		t.Fatalf("auto bound must not merge, got %v", *q.Filters.RatingMin)
	}
}

func TestMerge_OverridesHintsAndStrategies(t *testing.T) {
	q := query.NewCompiledQuery("cita romantica barata")
	s := &Suggestion{
		Headline:     "Plan balanceado",
		Overrides:    SuggestedOverrides{BoostTags: []string{"romantic"}, Weights: map[string]float64{"rating": 0.4, "bogus": 1}},
		Hints:        []string{"llm_hint"},
		ScenarioTags: []string{"llm_defined"},
		Strategies: []Strategy{{
			Title:     "Veggie elegante",
			Summary:   "Evaluar platos vegetarianos con buen rating.",
			Overrides: SuggestedOverrides{BoostTags: []string{"vegetariano"}},
			Hints:     []string{"veg_alt"},
		}},
	}

	notes := testMerger(t).merge(&q, s, &Trace{})

	if !hasToken(q.Overrides.BoostTags, "romantic") || !hasToken(q.Overrides.BoostTags, "vegetariano") {
		t.Errorf("expected boost tags merged, got %v", q.Overrides.BoostTags)
	}
	if q.Overrides.Weights["rating"] != 0.4 {
		t.Errorf("expected weight override set, got %v", q.Overrides.Weights)
	}
	if _, ok := q.Overrides.Weights["bogus"]; ok {
		t.Error("unknown weight keys must be dropped")
	}
	if !hasToken(q.Hints, "llm_hint") || !hasToken(q.Hints, "veg_alt") {
		t.Errorf("expected hints merged, got %v", q.Hints)
	}
	if !hasToken(q.ScenarioTags, "llm_defined") {
		t.Errorf("expected scenario tag merged, got %v", q.ScenarioTags)
	}
	wantNote := "Veggie elegante: Evaluar platos vegetarianos con buen rating."
	if !hasToken(notes, "Plan balanceado") || !hasToken(notes, wantNote) {
		t.Errorf("expected headline and strategy summary in notes, got %v", notes)
	}
}
