package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/domain"
	"github.com/comidalab/buscaplato/internal/metrics"
	"github.com/comidalab/buscaplato/internal/usecase/compile"
)

// Defaults for the chat planner when the config leaves them unset.
const (
	DefaultModel       = "llama3-8b-8192"
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 900
	DefaultTimeout     = 15 * time.Second
)

// systemPrompt instructes the model to answer with the suggestion schema and
// nothing else. The planner persona is a Buenos Aires food advisor, so the
// prompt stays in Spanish like the rest of the user-facing copy.
const systemPrompt = `Sos un planificador gastronómico de Buenos Aires. ` +
	`Debés interpretar la intención del usuario y responder únicamente con un JSON válido sin texto adicional. ` +
	"El JSON debe seguir este esquema:\n" +
	"{\n" +
	`  "headline": string,` + "\n" +
	`  "details": string,` + "\n" +
	`  "filters": { claves opcionales: category_any, cuisines_any, neighborhood_any, ` +
	`ingredients_include, ingredients_exclude, ingredients_any, diet_must, allergens_exclude, health_any, ` +
	`intent_tags_any, meal_moments_any, price_max, eta_max, rating_min, available_only },` + "\n" +
	`  "ranking_overrides": {` + "\n" +
	`     "boost_tags": string[],` + "\n" +
	`     "penalize_tags": string[],` + "\n" +
	`     "weights": { "rating"?: float, "price"?: float, "eta"?: float, "pop"?: float, "dist"?: float, "lex"?: float }` + "\n" +
	"  },\n" +
	`  "hints": string[],` + "\n" +
	`  "scenario_tags": string[],` + "\n" +
	`  "notes": string[],` + "\n" +
	`  "strategies": [{ "title": string, "summary": string, "filters": {}, "ranking_overrides": {}, "hints": string[] }]` + "\n" +
	"}\n" +
	`Respetá los nombres de campo y usá valores concretos. ` +
	`Si no tenés información para un campo, devolvé un array vacío, objeto vacío o null según corresponda. ` +
	`No inventes restaurantes específicos fuera del catálogo.`

// Planner asks an OpenAI-compatible chat API (e.g. Groq) for a structured
// query suggestion. It implements compile.Planner.
type Planner struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	user        string
	provider    string
	logger      *zap.Logger
}

// Config holds the chat planner settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
	User        string
	Provider    string
	Logger      *zap.Logger
}

// NewPlanner creates an OpenAI-compatible chat planner.
func NewPlanner(cfg *Config) *Planner {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	p := &Planner{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		user:        cfg.User,
		provider:    cfg.Provider,
		logger:      cfg.Logger,
	}
	if p.model == "" {
		p.model = DefaultModel
	}
	if p.temperature == 0 {
		p.temperature = DefaultTemperature
	}
	if p.maxTokens <= 0 {
		p.maxTokens = DefaultMaxTokens
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	return p
}

// Name implements compile.Planner.
func (p *Planner) Name() string {
	return p.provider
}

// Plan implements compile.Planner. Returns the parsed suggestion with
// transport-level metrics.
func (p *Planner) Plan(ctx context.Context, req compile.PlanRequest) (*compile.Suggestion, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal plan request: %w", err)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
		User:        p.user,
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(callCtx, chatReq)

	duration := time.Since(start)

	if err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		metrics.EnrichmentErrorsTotal.WithLabelValues(p.provider, p.model, "api_error").Inc()
		return nil, parseAPIError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.EnrichmentRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		metrics.EnrichmentErrorsTotal.WithLabelValues(p.provider, p.model, "empty_response").Inc()
		return nil, fmt.Errorf("empty chat response: %w", domain.ErrEnrichmentProvider)
	}

	content := stripJSONFence(resp.Choices[0].Message.Content)

	var suggestion compile.Suggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		metrics.EnrichmentRequestsTotal.WithLabelValues(p.provider, p.model, "error").Inc()
		metrics.EnrichmentErrorsTotal.WithLabelValues(p.provider, p.model, "malformed").Inc()
		return nil, fmt.Errorf("parse suggestion: %v: %w", err, domain.ErrMalformedEnrichment)
	}

	metrics.EnrichmentRequestsTotal.WithLabelValues(p.provider, p.model, "success").Inc()
	metrics.EnrichmentRequestDuration.WithLabelValues(p.provider, p.model).Observe(duration.Seconds())

	if p.logger != nil {
		p.logger.Debug("plan suggestion received",
			zap.String("provider", p.provider),
			zap.String("model", p.model),
			zap.Duration("duration", duration),
			zap.Int("total_tokens", resp.Usage.TotalTokens))
	}

	return &suggestion, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (p *Planner) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// stripJSONFence removes a markdown code fence around a JSON answer. Chat
// models tend to wrap JSON in ```json blocks even when told not to.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 && strings.EqualFold(strings.TrimSpace(s[:idx]), "json") {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEnrichmentProvider so callers can
// degrade to the rule-based plan.
func parseAPIError(err error) error {
	wrap := domain.ErrEnrichmentProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("planner API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("planner API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("planner API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("planner request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
