// Package chi exposes the HTTP API: query parsing, catalog search and the
// operational endpoints.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/domain"
	"github.com/comidalab/buscaplato/internal/domain/catalog"
	"github.com/comidalab/buscaplato/internal/domain/query"
	compileuc "github.com/comidalab/buscaplato/internal/usecase/compile"
	healthuc "github.com/comidalab/buscaplato/internal/usecase/health"
	searchuc "github.com/comidalab/buscaplato/internal/usecase/search"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Limits bounds the number of results returned per search.
type Limits struct {
	Default int
	Max     int
}

// Server implements the HTTP handlers over the compile and search services.
type Server struct {
	compile *compileuc.Service
	search  *searchuc.Service
	health  *healthuc.Service
	dishes  []catalog.Dish
	limits  Limits
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	compile *compileuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	dishes []catalog.Dish,
	limits Limits,
	logger *zap.Logger,
) *Server {
	if limits.Default <= 0 {
		limits.Default = 20
	}
	if limits.Max <= 0 {
		limits.Max = 100
	}
	return &Server{
		compile: compile,
		search:  search,
		health:  health,
		dishes:  dishes,
		limits:  limits,
		logger:  logger,
	}
}

// Mount registers all routes on the router.
func (s *Server) Mount(r chi.Router) {
	r.Post("/parse", s.Parse)
	r.Post("/search", s.Search)
	r.Get("/catalog", s.Catalog)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ParseRequest is the POST /parse payload.
type ParseRequest struct {
	Text string `json:"text"`
}

// Parse handles POST /parse: free text in, compiled query plus plan out.
func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	result, err := s.compile.Compile(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// SearchRequest is the POST /search payload. Free text, an already compiled
// query, or a bare filter set; text wins over query, query over filters.
type SearchRequest struct {
	Text    string               `json:"text,omitempty"`
	Query   *query.CompiledQuery `json:"query,omitempty"`
	Filters *query.Filters       `json:"filters,omitempty"`
	Limit   int                  `json:"limit,omitempty"`
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	var q query.CompiledQuery
	switch {
	case req.Text != "":
		result, err := s.compile.Compile(r.Context(), req.Text)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		q = result.Query
	case req.Query != nil:
		q = *req.Query
	case req.Filters != nil:
		q = query.NewCompiledQuery("")
		q.Filters = *req.Filters
	default:
		writeError(w, http.StatusBadRequest, "bad_request", "Either text, query or filters is required")
		return
	}

	resp, err := s.search.Search(r.Context(), q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limits.Default
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}
	if len(resp.Results) > limit {
		resp.Results = resp.Results[:limit]
	}

	writeJSON(w, http.StatusOK, resp)
}

// CatalogResponse is the GET /catalog payload.
type CatalogResponse struct {
	Count int            `json:"count"`
	Items []catalog.Dish `json:"items"`
}

// Catalog handles GET /catalog.
func (s *Server) Catalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		Count: len(s.dishes),
		Items: s.dishes,
	})
}

// HealthResponse is the GET /healthz payload.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))

	switch {
	case errors.Is(err, domain.ErrCatalogEmpty):
		writeError(w, http.StatusServiceUnavailable, "catalog_empty", domain.ErrCatalogEmpty.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.ErrNotFound.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
