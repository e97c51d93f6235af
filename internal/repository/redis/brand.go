package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/qqtong-pm/mall/internal/domain"
	"github.com/qqtong-pm/mall/internal/repository"
	"github.com/qqtong-pm/mall/pkg/logger"
)

const (
	keyPrefix = "brand:"
	listKey   = keyPrefix + "all"

	// genTTL bounds how long an eviction counter outlives its entry.
	genTTL = 24 * time.Hour
	// noGeneration marks a lookup whose result must not be written back.
	noGeneration = int64(-1)
)

// errStale aborts a write-back when the entry was evicted during the load.
var errStale = errors.New("cache entry evicted while loading")

func brandKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// genKey holds the eviction counter of key. Every eviction bumps it, and a
// read only writes back when the counter still matches what it saw on miss.
func genKey(key string) string {
	return key + ":gen"
}

type cacheMetrics struct {
	hits   *prometheus.CounterVec
	misses *prometheus.CounterVec
	stale  *prometheus.CounterVec
	errors *prometheus.CounterVec
}

func newCacheMetrics(reg prometheus.Registerer) *cacheMetrics {
	f := promauto.With(reg)
	return &cacheMetrics{
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brand_cache_hits_total",
			Help: "Number of brand reads served from Redis.",
		}, []string{"op"}),
		misses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brand_cache_misses_total",
			Help: "Number of brand reads that fell through to the database.",
		}, []string{"op"}),
		stale: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brand_cache_stale_writes_skipped_total",
			Help: "Number of write-backs dropped because a mutation evicted the entry mid-load.",
		}, []string{"op"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brand_cache_errors_total",
			Help: "Number of failed Redis cache operations.",
		}, []string{"op"}),
	}
}

// CachedBrandRepository decorates a BrandRepository with a Redis read-through
// cache for GetByID and ListAll. Mutations that touch at least one row evict
// the affected entries. Redis failures are logged and never fail the call.
type CachedBrandRepository struct {
	next    repository.BrandRepository
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *cacheMetrics
}

var _ repository.BrandRepository = (*CachedBrandRepository)(nil)

// NewCachedBrandRepository wraps next. A nil reg skips metric registration.
func NewCachedBrandRepository(
	next repository.BrandRepository,
	client *redis.Client,
	ttl time.Duration,
	log *slog.Logger,
	reg prometheus.Registerer,
) *CachedBrandRepository {
	return &CachedBrandRepository{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  log,
		metrics: newCacheMetrics(reg),
	}
}

func (r *CachedBrandRepository) ListAll(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	gen, hit := r.load(ctx, "list_all", listKey, &brands)
	if hit {
		return brands, nil
	}

	brands, err := r.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "list_all", listKey, gen, brands)
	return brands, nil
}

func (r *CachedBrandRepository) GetByID(ctx context.Context, id int64) (*domain.Brand, error) {
	key := brandKey(id)

	var b domain.Brand
	gen, hit := r.load(ctx, "get", key, &b)
	if hit {
		return &b, nil
	}

	got, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "get", key, gen, got)
	return got, nil
}

// List is not cached: pages depend on filters and go stale on every write.
func (r *CachedBrandRepository) List(ctx context.Context, filter repository.BrandFilter) ([]domain.Brand, int64, error) {
	return r.next.List(ctx, filter)
}

func (r *CachedBrandRepository) Create(ctx context.Context, b *domain.Brand) (int64, error) {
	count, err := r.next.Create(ctx, b)
	if err == nil && count > 0 {
		r.evict(ctx, listKey)
	}
	return count, err
}

func (r *CachedBrandRepository) Update(ctx context.Context, b *domain.Brand) (int64, error) {
	count, err := r.next.Update(ctx, b)
	if err == nil && count > 0 {
		r.evict(ctx, listKey, brandKey(b.ID))
	}
	return count, err
}

func (r *CachedBrandRepository) Delete(ctx context.Context, id int64) (int64, error) {
	count, err := r.next.Delete(ctx, id)
	if err == nil && count > 0 {
		r.evict(ctx, listKey, brandKey(id))
	}
	return count, err
}

func (r *CachedBrandRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	count, err := r.next.DeleteBatch(ctx, ids)
	if err == nil && count > 0 {
		r.evict(ctx, keysFor(ids)...)
	}
	return count, err
}

func (r *CachedBrandRepository) UpdateStatus(ctx context.Context, ids []int64, field domain.StatusField, value int) (int64, error) {
	count, err := r.next.UpdateStatus(ctx, ids, field, value)
	if err == nil && count > 0 {
		r.evict(ctx, keysFor(ids)...)
	}
	return count, err
}

func keysFor(ids []int64) []string {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, listKey)
	for _, id := range ids {
		keys = append(keys, brandKey(id))
	}
	return keys
}

// load fetches key together with its eviction counter. hit reports whether
// the entry was decoded into dst. On a miss, gen is the counter to hand to
// store, or noGeneration when Redis could not be read.
func (r *CachedBrandRepository) load(ctx context.Context, op, key string, dst any) (gen int64, hit bool) {
	vals, err := r.client.MGet(ctx, key, genKey(key)).Result()
	if err != nil {
		r.fail(ctx, op, fmt.Errorf("redis mget %s: %w", key, err))
		r.metrics.misses.WithLabelValues(op).Inc()
		return noGeneration, false
	}

	if raw, ok := vals[1].(string); ok {
		if gen, err = strconv.ParseInt(raw, 10, 64); err != nil {
			r.fail(ctx, op, fmt.Errorf("parse %s: %w", genKey(key), err))
			gen = noGeneration
		}
	}

	raw, ok := vals[0].(string)
	if !ok {
		r.metrics.misses.WithLabelValues(op).Inc()
		return gen, false
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		r.fail(ctx, op, fmt.Errorf("unmarshal %s: %w", key, err))
		r.metrics.misses.WithLabelValues(op).Inc()
		return gen, false
	}

	r.metrics.hits.WithLabelValues(op).Inc()
	return gen, true
}

// store writes v under key unless key was evicted since load returned gen.
func (r *CachedBrandRepository) store(ctx context.Context, op, key string, gen int64, v any) {
	if gen == noGeneration {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		r.fail(ctx, op, fmt.Errorf("marshal %s: %w", key, err))
		return
	}

	gk := genKey(key)
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
	case errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
		r.metrics.stale.WithLabelValues(op).Inc()
		logger.WithContext(ctx, r.logger).Debug("brand cache write-back skipped",
			slog.String("op", op),
			slog.String("key", key),
		)
	default:
		r.fail(ctx, op, fmt.Errorf("redis set %s: %w", key, err))
	}
}

// evict deletes keys and bumps their eviction counters in one transaction.
func (r *CachedBrandRepository) evict(ctx context.Context, keys ...string) {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, keys...)
		for _, k := range keys {
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), genTTL)
		}
		return nil
	})
	if err != nil {
		r.fail(ctx, "evict", fmt.Errorf("redis evict: %w", err))
	}
}

func (r *CachedBrandRepository) fail(ctx context.Context, op string, err error) {
	r.metrics.errors.WithLabelValues(op).Inc()
	logger.WithContext(ctx, r.logger).Warn("brand cache unavailable",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
}
