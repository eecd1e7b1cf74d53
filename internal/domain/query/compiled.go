package query

// Enrichment status values recorded in metadata.
const (
	EnrichmentUsed     = "used"
	EnrichmentNoData   = "no_data"
	EnrichmentDisabled = "disabled"
	EnrichmentError    = "error"
)

// EnrichmentStatus records the outcome of the external planner call for
// observability. Never causes a request failure.
type EnrichmentStatus struct {
	Status   string   `json:"status"`
	Provider string   `json:"provider,omitempty"`
	Message  string   `json:"message,omitempty"`
	Notes    []string `json:"notes,omitempty"`
}

// Metadata is request-scoped bookkeeping attached to a compiled query.
type Metadata struct {
	// AutoConstraints lists filter fields introduced by scenario inference
	// rather than explicit user text; only these may be relaxed.
	AutoConstraints []string          `json:"auto_constraints,omitempty"`
	RestaurantHits  []string          `json:"restaurant_hits,omitempty"`
	Enrichment      *EnrichmentStatus `json:"llm,omitempty"`
	EnrichmentNotes []string          `json:"llm_notes,omitempty"`
}

// MarkAuto records a field as scenario-applied (relaxation candidate).
func (m *Metadata) MarkAuto(field string) {
	m.AutoConstraints = AddUnique(m.AutoConstraints, field)
}

// IsAuto reports whether a field was scenario-applied.
func (m *Metadata) IsAuto(field string) bool {
	return Contains(m.AutoConstraints, field)
}

// CompiledQuery is the output of the query-compilation pipeline and the input
// of the search engine.
type CompiledQuery struct {
	Text           string             `json:"q"`
	Filters        Filters            `json:"filters"`
	Hints          []string           `json:"hints"`
	Weights        map[string]float64 `json:"weights,omitempty"`
	Overrides      RankingOverrides   `json:"ranking_overrides"`
	AdvisorSummary string             `json:"advisor_summary,omitempty"`
	ScenarioTags   []string           `json:"scenario_tags"`
	Metadata       Metadata           `json:"metadata"`
}

// NewCompiledQuery creates a compiled query with default filters for text.
func NewCompiledQuery(text string) CompiledQuery {
	return CompiledQuery{Text: text, Filters: NewFilters()}
}

// AddHints appends UI hints, suppressing duplicates and keeping order.
func (q *CompiledQuery) AddHints(hints ...string) {
	q.Hints = AddUnique(q.Hints, hints...)
}

// AddScenarioTags appends scenario tags, suppressing duplicates.
func (q *CompiledQuery) AddScenarioTags(tags ...string) {
	q.ScenarioTags = AddUnique(q.ScenarioTags, tags...)
}

// EffectiveWeights merges base weights, query-level weights, then override
// weights; the later override wins.
func (q *CompiledQuery) EffectiveWeights() map[string]float64 {
	weights := BaseWeights()
	for k, v := range q.Weights {
		weights[k] = v
	}
	for k, v := range q.Overrides.Weights {
		weights[k] = v
	}
	return weights
}
