package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/divetribe/divedirectory/internal/domain/entities"
	"github.com/divetribe/divedirectory/internal/domain/providers"
	"github.com/divetribe/divedirectory/internal/domain/repositories"
	"github.com/divetribe/divedirectory/internal/infrastructure/observability"
	"github.com/divetribe/divedirectory/pkg/slug"
)

// Cache TTLs (in seconds). Only single-record reads are cached; search
// results always come from the store.
const (
	operatorByIDTTL   = 300
	operatorBySlugTTL = 300
)

func operatorCacheKey(id string) string {
	return fmt.Sprintf("operator:%s", id)
}

func operatorSlugCacheKey(s string) string {
	return fmt.Sprintf("operator:slug:%s", slug.Normalize(s))
}

// CachedOperatorAdapter wraps an OperatorRepository with read-through caching
// of the by-id and by-slug lookups
type CachedOperatorAdapter struct {
	adapter repositories.OperatorRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedOperatorAdapter creates a new cached operator adapter. Metrics may
// be nil when telemetry is disabled.
func NewCachedOperatorAdapter(adapter repositories.OperatorRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.OperatorRepository {
	return &CachedOperatorAdapter{
		adapter: adapter,
		cache:   cache,
		metrics: metrics,
	}
}

// GetByID retrieves an operator by ID with caching
func (a *CachedOperatorAdapter) GetByID(ctx context.Context, id string) (*entities.Operator, error) {
	cacheKey := operatorCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var operator entities.Operator
		if err := json.Unmarshal(cached, &operator); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "operator:id")
			return &operator, nil
		}
		observability.GetLogger().Warn().Err(err).Str("operator_id", id).
			Msg("failed to unmarshal cached operator")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "operator:id")

	operator, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.fillAsync(cacheKey, operator, operatorByIDTTL)
	return operator, nil
}

// GetBySlug retrieves an operator by slug with caching
func (a *CachedOperatorAdapter) GetBySlug(ctx context.Context, s string) (*entities.Operator, error) {
	cacheKey := operatorSlugCacheKey(s)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var operator entities.Operator
		if err := json.Unmarshal(cached, &operator); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "operator:slug")
			return &operator, nil
		}
		observability.GetLogger().Warn().Err(err).Str("slug", s).
			Msg("failed to unmarshal cached operator")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "operator:slug")

	operator, err := a.adapter.GetBySlug(ctx, s)
	if err != nil {
		return nil, err
	}

	a.fillAsync(cacheKey, operator, operatorBySlugTTL)
	return operator, nil
}

// Create creates an operator. A freed slug may be reclaimed, so any stale
// slug entry is invalidated.
func (a *CachedOperatorAdapter) Create(ctx context.Context, operator *entities.Operator) error {
	if err := a.adapter.Create(ctx, operator); err != nil {
		return err
	}
	a.invalidateAsync(operator.ID, operator.Slug)
	return nil
}

// Update updates an operator and invalidates its cache entries
func (a *CachedOperatorAdapter) Update(ctx context.Context, operator *entities.Operator) error {
	if err := a.adapter.Update(ctx, operator); err != nil {
		return err
	}
	a.invalidateAsync(operator.ID, operator.Slug)
	return nil
}

// Delete soft-deletes an operator and invalidates its cache entries
func (a *CachedOperatorAdapter) Delete(ctx context.Context, id string) (bool, error) {
	// Fetch first so the slug entry can be invalidated too
	var cachedSlug string
	if operator, err := a.adapter.GetByID(ctx, id); err == nil {
		cachedSlug = operator.Slug
	}

	deleted, err := a.adapter.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		a.invalidateAsync(id, cachedSlug)
	}
	return deleted, nil
}

// Search is never cached; it passes straight through to the store
func (a *CachedOperatorAdapter) Search(ctx context.Context, params repositories.OperatorSearchParams) ([]*entities.Operator, int, error) {
	return a.adapter.Search(ctx, params)
}

// SlugInUse passes through uncached; uniqueness checks must see the store
func (a *CachedOperatorAdapter) SlugInUse(ctx context.Context, s string, excludeID string) (bool, error) {
	return a.adapter.SlugInUse(ctx, s, excludeID)
}

// fillAsync updates the cache without blocking the response
func (a *CachedOperatorAdapter) fillAsync(cacheKey string, operator *entities.Operator, ttl int) {
	go func() {
		bgCtx := context.Background()
		data, err := json.Marshal(operator)
		if err != nil {
			return
		}
		if err := a.cache.Set(bgCtx, cacheKey, data, ttl); err != nil {
			observability.GetLogger().Warn().Err(err).Str("cache_key", cacheKey).
				Msg("failed to cache operator")
		}
	}()
}

func (a *CachedOperatorAdapter) invalidateAsync(id, s string) {
	go func() {
		bgCtx := context.Background()
		keys := []string{operatorCacheKey(id)}
		if s != "" {
			keys = append(keys, operatorSlugCacheKey(s))
		}
		for _, key := range keys {
			if err := a.cache.Delete(bgCtx, key); err != nil {
				observability.GetLogger().Warn().Err(err).Str("cache_key", key).
					Msg("failed to invalidate operator cache")
			}
		}
	}()
}
