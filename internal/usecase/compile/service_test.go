package compile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/domain"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
)

type fakePlanner struct {
	suggestion *Suggestion
	err        error
	called     bool
	lastReq    PlanRequest
}

func (f *fakePlanner) Name() string { return "fake" }

func (f *fakePlanner) Plan(_ context.Context, req PlanRequest) (*Suggestion, error) {
	f.called = true
	f.lastReq = req
	return f.suggestion, f.err
}

func testService(t *testing.T, planner Planner) *Service {
	t.Helper()
	return New(lexicon.New(), testIndex(t), []string{"Wok Express", "La Parrillita"}, planner, zap.NewNop())
}

func TestCompile_EmptyTextYieldsDefaults(t *testing.T) {
	res, err := testService(t, nil).Compile(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := res.Query.Filters
	if !f.AvailableOnly {
		t.Error("available_only must default to true")
	}
	if len(f.CategoryAny) != 0 || f.PriceMax != nil || f.ETAMax != nil || f.RatingMin != nil {
		t.Errorf("expected empty filters, got %+v", f)
	}
	if len(res.Query.ScenarioTags) != 0 {
		t.Errorf("expected no scenario tags, got %v", res.Query.ScenarioTags)
	}
}

func TestCompile_FullPipeline(t *testing.T) {
	res, err := testService(t, nil).Compile(context.Background(), "pasta barata sin espinaca en Palermo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := res.Query.Filters
	if !hasToken(f.CategoryAny, "pasta") {
		t.Errorf("expected pasta category, got %v", f.CategoryAny)
	}
	if !hasToken(f.IngredientsExclude, "espinaca") {
		t.Errorf("expected espinaca excluded, got %v", f.IngredientsExclude)
	}
	if !hasToken(f.NeighborhoodAny, "Palermo") {
		t.Errorf("expected Palermo, got %v", f.NeighborhoodAny)
	}
	if len(res.Plan) == 0 {
		t.Error("expected a non-empty plan")
	}
}

func TestCompile_RestaurantNameDoesNotForceWok(t *testing.T) {
	res, err := testService(t, nil).Compile(context.Background(), "pedir en Wok Express")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !hasToken(res.Query.Metadata.RestaurantHits, "Wok Express") {
		t.Fatalf("expected restaurant hit, got %v", res.Query.Metadata.RestaurantHits)
	}
	if hasToken(res.Query.Filters.CategoryAny, "wok") {
		t.Errorf("wok category must be suppressed, got %v", res.Query.Filters.CategoryAny)
	}
	for _, c := range res.Query.Filters.CuisinesAny {
		if strings.EqualFold(c, "wok") {
			t.Errorf("wok cuisine must be suppressed, got %v", res.Query.Filters.CuisinesAny)
		}
	}
}

func TestCompile_ScenarioProducesAdvisorSummary(t *testing.T) {
	res, err := testService(t, nil).Compile(context.Background(), "tengo una cita romantica en Palermo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := res.Query
	if !hasToken(q.ScenarioTags, ScenarioRomanticDate) {
		t.Fatalf("expected romantic_date, got %v", q.ScenarioTags)
	}
	if q.AdvisorSummary == "" {
		t.Error("expected advisor summary")
	}
	if q.Filters.RatingMin == nil || *q.Filters.RatingMin < 4.4 {
		t.Errorf("expected rating_min >= 4.4, got %v", q.Filters.RatingMin)
	}
	if !hasToken(q.Filters.IntentTagsAny, "romantic_evening") {
		t.Errorf("expected romantic_evening intent, got %v", q.Filters.IntentTagsAny)
	}
}

func TestCompile_EnrichmentDisabledWithoutPlanner(t *testing.T) {
	res, _ := testService(t, nil).Compile(context.Background(), "sushi")
	st := res.Query.Metadata.Enrichment
	if st == nil || st.Status != query.EnrichmentDisabled {
		t.Fatalf("expected disabled status, got %+v", st)
	}
}

func TestCompile_EnrichmentUsed(t *testing.T) {
	planner := &fakePlanner{suggestion: &Suggestion{
		Headline:  "Sugerencia",
		Overrides: SuggestedOverrides{BoostTags: []string{"romantic"}},
		Hints:     []string{"llm_hint"},
	}}
	res, _ := testService(t, planner).Compile(context.Background(), "cita romantica")

	if !planner.called {
		t.Fatal("expected planner call")
	}
	if planner.lastReq.Text != "cita romantica" {
		t.Errorf("unexpected request text %q", planner.lastReq.Text)
	}
	st := res.Query.Metadata.Enrichment
	if st == nil || st.Status != query.EnrichmentUsed || st.Provider != "fake" {
		t.Fatalf("expected used status from fake provider, got %+v", st)
	}
	if !hasToken(res.Query.Hints, "llm_hint") {
		t.Errorf("expected hint merged, got %v", res.Query.Hints)
	}
	if !hasToken(st.Notes, "Sugerencia") {
		t.Errorf("expected headline note, got %v", st.Notes)
	}
}

func TestCompile_EnrichmentErrorDegradesToRules(t *testing.T) {
	planner := &fakePlanner{err: errors.New("timeout")}
	res, err := testService(t, planner).Compile(context.Background(), "pasta")
	if err != nil {
		t.Fatalf("planner failure must not abort compile: %v", err)
	}

	st := res.Query.Metadata.Enrichment
	if st == nil || st.Status != query.EnrichmentError || st.Message != "timeout" {
		t.Fatalf("expected error status, got %+v", st)
	}
	if !hasToken(res.Query.Filters.CategoryAny, "pasta") {
		t.Errorf("rule output must survive planner failure, got %v", res.Query.Filters.CategoryAny)
	}
}

func TestCompile_EnrichmentNoData(t *testing.T) {
	planner := &fakePlanner{}
	res, _ := testService(t, planner).Compile(context.Background(), "pasta")
	st := res.Query.Metadata.Enrichment
	if st == nil || st.Status != query.EnrichmentNoData {
		t.Fatalf("expected no_data status, got %+v", st)
	}
}

func TestCompile_EnrichmentDisabledSentinel(t *testing.T) {
	planner := &fakePlanner{err: domain.ErrEnrichmentDisabled}
	res, _ := testService(t, planner).Compile(context.Background(), "pasta")
	st := res.Query.Metadata.Enrichment
	if st == nil || st.Status != query.EnrichmentDisabled {
		t.Fatalf("expected disabled status, got %+v", st)
	}
}

func TestCompile_ExplicitDessertKept(t *testing.T) {
	res, _ := testService(t, nil).Compile(context.Background(), "un postre rico despues de la cena")
	if !hasToken(res.Query.Filters.CategoryAny, "postres") {
		t.Fatalf("explicit dessert request must keep the category, got %v", res.Query.Filters.CategoryAny)
	}
}
