package search

import (
	"fmt"

	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/metrics"
)

// Relaxation controller: when the initial pass returns nothing, drop
// auto-applied constraints one at a time, strict priority order, and stop at
// the first re-run that recovers results. Only scenario-applied (auto)
// constraints are ever touched; user-supplied bounds stay.

func (s *Service) relax(q *query.CompiledQuery) ([]Result, []Rejection, []string) {
	var attempts []string
	var results []Result
	var rejected []Rejection

	numeric := []struct {
		field string
		label string
		clear func(*query.Filters) string
	}{
		{query.FieldRatingMin, "el mínimo de rating sugerido", func(f *query.Filters) string {
			prev := fmt.Sprintf("%g", *f.RatingMin)
			f.RatingMin = nil
			return prev
		}},
		{query.FieldETAMax, "el tope de entrega sugerido", func(f *query.Filters) string {
			prev := fmt.Sprintf("%g", *f.ETAMax)
			f.ETAMax = nil
			return prev
		}},
		{query.FieldPriceMax, "el tope de precio sugerido", func(f *query.Filters) string {
			prev := f.PriceMax.String()
			f.PriceMax = nil
			return prev
		}},
	}

	for _, step := range numeric {
		if !q.Metadata.IsAuto(step.field) || !boundSet(&q.Filters, step.field) {
			continue
		}
		prev := step.clear(&q.Filters)
		metrics.SearchRelaxationsTotal.WithLabelValues(step.field).Inc()
		attempts = append(attempts, fmt.Sprintf("Se quitó %s (%s).", step.label, prev))
		results, rejected = s.runOnce(q)
		if len(results) > 0 {
			return results, rejected, attempts
		}
	}

	lists := []struct {
		field string
		label string
		get   func(*query.Filters) *[]string
	}{
		{query.FieldHealthAny, "los requisitos de salud sugeridos", func(f *query.Filters) *[]string {
			return &f.HealthAny
		}},
		{query.FieldIntentTagsAny, "los tags de intención sugeridos", func(f *query.Filters) *[]string {
			return &f.IntentTagsAny
		}},
	}

	for _, step := range lists {
		values := step.get(&q.Filters)
		if !q.Metadata.IsAuto(step.field) || len(*values) == 0 {
			continue
		}
		metrics.SearchRelaxationsTotal.WithLabelValues(step.field).Inc()
		attempts = append(attempts, fmt.Sprintf("Se ignoró %s: %v.", step.label, *values))
		*values = nil
		results, rejected = s.runOnce(q)
		if len(results) > 0 {
			return results, rejected, attempts
		}
	}

	return results, rejected, attempts
}

func boundSet(f *query.Filters, field string) bool {
	switch field {
	case query.FieldRatingMin:
		return f.RatingMin != nil
	case query.FieldETAMax:
		return f.ETAMax != nil
	case query.FieldPriceMax:
		return f.PriceMax != nil
	}
	return false
}
