package resource

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spaceapp/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

// CachedStore fronts a Store with a Redis cache-aside of single rows. Reads
// by id hit Redis first; writes go through to the inner store and then
// refresh or evict the cached copy. Redis failures are logged and never
// fail the request. List always reads the inner store.
//
// Entries hold the row's wire record, so the cache shares the schema's
// codec with the HTTP layer.
//
// When both the refresh and the eviction of a key fail, the key may still
// hold an outdated row. Such ids are remembered and read from the inner
// store until a later write or eviction of the key succeeds.
type CachedStore[T any] struct {
	inner  Store[T]
	client redis.Cmdable
	schema *Schema[T]
	ttl    time.Duration
	logger *slog.Logger

	mu    sync.Mutex
	stale map[int64]struct{}
}

func NewCachedStore[T any](inner Store[T], client redis.Cmdable, schema *Schema[T], ttl time.Duration, logger *slog.Logger) *CachedStore[T] {
	return &CachedStore[T]{
		inner:  inner,
		client: client,
		schema: schema,
		ttl:    ttl,
		logger: logger.With("component", schema.Entity+"_cache"),
		stale:  make(map[int64]struct{}),
	}
}

func (c *CachedStore[T]) key(id int64) string {
	return fmt.Sprintf("spaceapp:%s:%d", c.schema.Table, id)
}

func (c *CachedStore[T]) List(ctx context.Context) ([]T, error) {
	return c.inner.List(ctx)
}

func (c *CachedStore[T]) Get(ctx context.Context, id int64) (*T, error) {
	logger := c.logger.With("operation", "get", "id", id)

	stale := c.isStale(id)
	if stale {
		logger.Debug("Bypassing possibly outdated cache entry")
	} else if item, ok := c.read(ctx, id, logger); ok {
		return item, nil
	}

	item, err := c.inner.Get(ctx, id)
	if err != nil {
		if stale && errors.IsNotFound(err) {
			c.evict(ctx, id)
		}
		return nil, err
	}
	c.put(ctx, item)
	return item, nil
}

func (c *CachedStore[T]) Create(ctx context.Context, row *T) (*T, error) {
	created, err := c.inner.Create(ctx, row)
	if err != nil {
		return nil, err
	}
	c.put(ctx, created)
	return created, nil
}

func (c *CachedStore[T]) Update(ctx context.Context, id int64, row *T) (*T, error) {
	updated, err := c.inner.Update(ctx, id, row)
	if err != nil {
		c.evict(ctx, id)
		return nil, err
	}
	c.put(ctx, updated)
	return updated, nil
}

func (c *CachedStore[T]) Delete(ctx context.Context, id int64) error {
	err := c.inner.Delete(ctx, id)
	c.evict(ctx, id)
	return err
}

func (c *CachedStore[T]) read(ctx context.Context, id int64, logger *slog.Logger) (*T, bool) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	switch {
	case err == nil:
	case stderrors.Is(err, redis.Nil):
		logger.Debug("Cache miss")
		return nil, false
	default:
		logger.Warn("Cache read failed, falling back to store", "error", err)
		return nil, false
	}

	var item T
	if err := c.schema.Decode(data, &item, false); err != nil {
		logger.Warn("Discarding undecodable cache entry", "error", err)
		return nil, false
	}
	*c.schema.ID(&item) = id

	logger.Debug("Cache hit")
	return &item, true
}

func (c *CachedStore[T]) put(ctx context.Context, item *T) {
	id := *c.schema.ID(item)
	data, err := json.Marshal(c.schema.Encode(item))
	if err != nil {
		c.logger.Warn("Failed to encode cache entry", "id", id, "error", err)
		c.evict(ctx, id)
		return
	}
	if err := c.client.Set(ctx, c.key(id), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", "id", id, "error", err)
		c.evict(ctx, id)
		return
	}
	c.setStale(id, false)
}

func (c *CachedStore[T]) evict(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Error("Cache eviction failed, bypassing key until it is rewritten", "id", id, "error", err)
		c.setStale(id, true)
		return
	}
	c.setStale(id, false)
}

func (c *CachedStore[T]) isStale(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.stale[id]
	return ok
}

func (c *CachedStore[T]) setStale(id int64, stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stale {
		c.stale[id] = struct{}{}
	} else {
		delete(c.stale, id)
	}
}
