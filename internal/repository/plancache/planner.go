package plancache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/comidalab/buscaplato/internal/db"
	"github.com/comidalab/buscaplato/internal/domain/query"
	"github.com/comidalab/buscaplato/internal/usecase/compile"
)

// Defaults when the config leaves the cache settings unset.
const (
	DefaultPrefix = "buscaplato:plan_cache:"
	DefaultTTL    = 24 * time.Hour
)

// store is the consumer interface for the plan cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedPlanner caches planner suggestions in a key-value store. Identical
// queries over the same rule-derived filters reuse the stored suggestion
// instead of paying another chat completion.
type CachedPlanner struct {
	inner      compile.Planner
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator around a planner.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner compile.Planner,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedPlanner {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedPlanner{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Name implements compile.Planner.
func (c *CachedPlanner) Name() string {
	return c.inner.Name()
}

// Plan returns a cached suggestion or calls the inner planner. Store failures
// degrade to a cache miss; they never surface to the caller.
func (c *CachedPlanner) Plan(ctx context.Context, req compile.PlanRequest) (*compile.Suggestion, error) {
	key, err := c.cacheKey(req)
	if err != nil {
		return c.inner.Plan(ctx, req)
	}

	if suggestion, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return suggestion, nil
	}

	c.incCache("miss")

	suggestion, err := c.inner.Plan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan query: %w", err)
	}

	if suggestion != nil {
		c.putToCache(ctx, key, suggestion)
	}
	return suggestion, nil
}

func (c *CachedPlanner) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the text together with the rule-derived filters, so the
// same words with different scenario context produce distinct entries.
func (c *CachedPlanner) cacheKey(req compile.PlanRequest) (string, error) {
	payload, err := json.Marshal(struct {
		Text         string        `json:"text"`
		Filters      query.Filters `json:"filters"`
		ScenarioTags []string      `json:"scenario_tags"`
	}{req.Text, req.Filters, req.ScenarioTags})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	h := sha256.Sum256(payload)
	return c.prefix + hex.EncodeToString(h[:]), nil
}

func (c *CachedPlanner) getFromCache(ctx context.Context, key string) (*compile.Suggestion, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached plan", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var suggestion compile.Suggestion
	if err := json.Unmarshal(data, &suggestion); err != nil {
		c.logger.Warn("Failed to parse cached plan", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &suggestion, true
}

func (c *CachedPlanner) putToCache(ctx context.Context, key string, suggestion *compile.Suggestion) {
	data, err := json.Marshal(suggestion)
	if err != nil {
		c.logger.Warn("Failed to encode plan for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache plan", zap.String("key", key), zap.Error(err))
	}
}
