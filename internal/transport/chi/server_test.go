package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/lexicon"
	compileuc "github.com/comidalab/buscaplato/internal/usecase/compile"
	healthuc "github.com/comidalab/buscaplato/internal/usecase/health"
	searchuc "github.com/comidalab/buscaplato/internal/usecase/search"
)

func serverDishes() []catalog.Dish {
	base := func(id, name, category string) catalog.Dish {
		return catalog.Dish{
			ID:         id,
			Name:       name,
			Categories: []string{category},
			Available:  true,
			PriceARS:   4000,
			Popularity: 50,
			MealMoments: []string{
				"almuerzo", "cena",
			},
			Restaurant: catalog.Restaurant{
				Name:         "Test Resto",
				Neighborhood: "Palermo",
				Cuisine:      "Italiana",
				Rating:       4.3,
				ETAMin:       30,
			},
		}
	}
	return []catalog.Dish{
		base("p1", "Pizza muzzarella", "pizza"),
		base("p2", "Pizza napolitana", "pizza"),
		base("p3", "Pizza fugazzeta", "pizza"),
		base("p4", "Pizza calabresa", "pizza"),
		base("b1", "Burger clasica", "burger"),
	}
}

func testRouter(t *testing.T, dishes []catalog.Dish) http.Handler {
	t.Helper()

	catalog.Augment(dishes)
	idx := catalog.NewIndex(dishes)
	lex := lexicon.New()

	compileSvc := compileuc.New(lex, idx, nil, nil, zap.NewNop())
	searchSvc := searchuc.New(dishes, idx, lex, zap.NewNop())
	healthSvc := healthuc.New(len(dishes), nil, nil)

	srv := NewServer(compileSvc, searchSvc, healthSvc, dishes, Limits{Default: 2, Max: 3}, zap.NewNop())
	r := chirouter.NewRouter()
	srv.Mount(r)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestParse_CompilesText(t *testing.T) {
	h := testRouter(t, serverDishes())

	rr := postJSON(t, h, "/parse", ParseRequest{Text: "pizza rapido"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var result compileuc.Result
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !query.Contains(result.Query.Filters.CategoryAny, "pizza") {
		t.Errorf("expected pizza category, got %v", result.Query.Filters.CategoryAny)
	}
	if result.Query.Filters.ETAMax == nil || *result.Query.Filters.ETAMax != 25 {
		t.Errorf("expected eta_max 25, got %v", result.Query.Filters.ETAMax)
	}
	if !result.Query.Filters.AvailableOnly {
		t.Error("available_only must default to true")
	}
	if len(result.Plan) == 0 {
		t.Error("expected a non-empty plan trace")
	}
}

func TestParse_InvalidBody_400(t *testing.T) {
	h := testRouter(t, serverDishes())

	req := httptest.NewRequest("POST", "/parse", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "bad_request" {
		t.Errorf("error code: got %s, want bad_request", errResp.Code)
	}
}

func TestSearch_WithText(t *testing.T) {
	h := testRouter(t, serverDishes())

	rr := postJSON(t, h, "/search", SearchRequest{Text: "burger", Limit: 10})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(resp.Results))
	}
	if resp.Results[0].Item.ID != "b1" {
		t.Errorf("expected b1, got %s", resp.Results[0].Item.ID)
	}
	if !query.Contains(resp.Plan.HardFilters.CategoryAny, "burger") {
		t.Errorf("plan must echo the compiled filters, got %v", resp.Plan.HardFilters.CategoryAny)
	}
}

func TestSearch_WithCompiledQuery(t *testing.T) {
	h := testRouter(t, serverDishes())

	q := query.NewCompiledQuery("")
	q.Filters.CategoryAny = []string{"burger"}

	rr := postJSON(t, h, "/search", SearchRequest{Query: &q, Limit: 10})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Item.ID != "b1" {
		t.Errorf("expected only b1, got %+v", resp.Results)
	}
}

func TestSearch_WithBareFilters(t *testing.T) {
	h := testRouter(t, serverDishes())

	f := query.NewFilters()
	f.CategoryAny = []string{"burger"}

	rr := postJSON(t, h, "/search", SearchRequest{Filters: &f, Limit: 10})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}

	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Item.ID != "b1" {
		t.Errorf("expected only b1, got %+v", resp.Results)
	}
}

func TestSearch_BareFiltersKeepAvailableOnlyDefault(t *testing.T) {
	dishes := serverDishes()
	dishes[0].Available = false
	h := testRouter(t, dishes)

	// available_only omitted on purpose: it must default to true.
	body := strings.NewReader(`{"filters":{"category_any":["pizza"]},"limit":10}`)
	req := httptest.NewRequest("POST", "/search", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, r := range resp.Results {
		if r.Item.ID == "p1" {
			t.Errorf("unavailable dish p1 must be filtered out, got %+v", resp.Results)
		}
	}
	if len(resp.Results) != 3 {
		t.Errorf("expected the 3 available pizzas, got %d", len(resp.Results))
	}
}

func TestSearch_TextWinsOverQuery(t *testing.T) {
	h := testRouter(t, serverDishes())

	q := query.NewCompiledQuery("")
	q.Filters.CategoryAny = []string{"pizza"}

	rr := postJSON(t, h, "/search", SearchRequest{Text: "burger", Query: &q, Limit: 10})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Item.ID != "b1" {
		t.Errorf("text must take precedence over the query payload, got %+v", resp.Results)
	}
}

func TestSearch_NeitherTextNorQuery_400(t *testing.T) {
	h := testRouter(t, serverDishes())

	rr := postJSON(t, h, "/search", SearchRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "bad_request" {
		t.Errorf("error code: got %s, want bad_request", errResp.Code)
	}
}

func TestSearch_LimitDefaultsAndClamps(t *testing.T) {
	h := testRouter(t, serverDishes())

	q := query.NewCompiledQuery("")
	q.Filters.CategoryAny = []string{"pizza"}

	// No limit: the configured default of 2 applies.
	rr := postJSON(t, h, "/search", SearchRequest{Query: &q})
	var resp searchuc.Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("default limit: expected 2 results, got %d", len(resp.Results))
	}

	// Oversized limit: clamped to the configured max of 3.
	rr = postJSON(t, h, "/search", SearchRequest{Query: &q, Limit: 50})
	resp = searchuc.Response{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Errorf("clamped limit: expected 3 results, got %d", len(resp.Results))
	}
}

func TestSearch_EmptyCatalog_503(t *testing.T) {
	h := testRouter(t, nil)

	q := query.NewCompiledQuery("")
	rr := postJSON(t, h, "/search", SearchRequest{Query: &q})
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", rr.Code)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "catalog_empty" {
		t.Errorf("error code: got %s, want catalog_empty", errResp.Code)
	}
}

func TestCatalog_ReturnsAllItems(t *testing.T) {
	dishes := serverDishes()
	h := testRouter(t, dishes)

	req := httptest.NewRequest("GET", "/catalog", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp CatalogResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != len(dishes) || len(resp.Items) != len(dishes) {
		t.Errorf("expected %d items, got count=%d len=%d", len(dishes), resp.Count, len(resp.Items))
	}
}

func TestHealth_OK(t *testing.T) {
	h := testRouter(t, serverDishes())

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rr.Code, rr.Body.String())
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status: got %s, want ok", resp.Status)
	}
	if resp.Checks["catalog"] != "ok" {
		t.Errorf("catalog check: got %s, want ok", resp.Checks["catalog"])
	}
}

func TestHealth_EmptyCatalog_503(t *testing.T) {
	h := testRouter(t, nil)

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status: got %d, want 503", rr.Code)
	}
	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("status: got %s, want degraded", resp.Status)
	}
}
