// Package cache keeps a Redis copy of the column view for poll-heavy readers.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/notify"
)

const (
	// ColumnsKey is the Redis key holding the serialized column view
	ColumnsKey = "shipnotes:columns"
	// GenerationKey counts evictions. A snapshot is only stored if no eviction
	// happened while it was being read.
	GenerationKey = "shipnotes:columns:gen"
)

var errStaleSnapshot = errors.New("column snapshot superseded by a newer change")

// ColumnSource produces the authoritative column view
type ColumnSource interface {
	ListColumns(ctx context.Context) ([]*models.Column, error)
}

// ColumnCache wraps a ColumnSource with Redis-backed caching. It implements
// notify.Publisher so the change stream evicts it after every mutation.
type ColumnCache struct {
	base  ColumnSource
	redis *redis.Client
	ttl   time.Duration
	log   log.FieldLogger
}

// NewColumnCache creates a caching wrapper. A nil client or zero ttl disables caching.
func NewColumnCache(base ColumnSource, client *redis.Client, ttl time.Duration, logger log.FieldLogger) *ColumnCache {
	if base == nil {
		panic("cache.NewColumnCache: base source is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &ColumnCache{
		base:  base,
		redis: client,
		ttl:   ttl,
		log:   logger.WithField("component", "cache"),
	}
}

// ListColumns serves the cached view, falling back to the source on a miss or
// any Redis failure.
func (c *ColumnCache) ListColumns(ctx context.Context) ([]*models.Column, error) {
	if columns, ok := c.load(ctx); ok {
		return columns, nil
	}

	gen, cacheable := c.generation(ctx)
	columns, err := c.base.ListColumns(ctx)
	if err != nil {
		return nil, err
	}

	if cacheable {
		c.store(ctx, gen, columns)
	}
	return columns, nil
}

// Publish evicts the cached view. Every change type affects columns.
func (c *ColumnCache) Publish(ctx context.Context, change notify.Change) error {
	return c.Evict(ctx)
}

// Evict drops the cached view and bumps the generation so snapshots read
// before the eviction are not stored afterwards.
func (c *ColumnCache) Evict(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, ColumnsKey)
		return nil
	})
	return err
}

// generation reads the eviction counter. ok is false when the cache is
// disabled or Redis cannot be read.
func (c *ColumnCache) generation(ctx context.Context) (int64, bool) {
	if c.redis == nil || c.ttl == 0 {
		return 0, false
	}
	gen, err := c.redis.Get(ctx, GenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.WithError(err).Debug("column cache generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *ColumnCache) load(ctx context.Context) ([]*models.Column, bool) {
	if c.redis == nil || c.ttl == 0 {
		return nil, false
	}
	data, err := c.redis.Get(ctx, ColumnsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).Debug("column cache read failed")
			_ = c.redis.Del(ctx, ColumnsKey).Err()
		}
		return nil, false
	}
	var columns []*models.Column
	if err := sonic.Unmarshal(data, &columns); err != nil {
		_ = c.redis.Del(ctx, ColumnsKey).Err()
		return nil, false
	}
	return columns, true
}

// store writes columns only while the generation still equals gen. WATCH
// aborts the write if an eviction lands between the check and EXEC.
func (c *ColumnCache) store(ctx context.Context, gen int64, columns []*models.Column) {
	data, err := sonic.Marshal(columns)
	if err != nil {
		return
	}
	err = c.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleSnapshot
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, ColumnsKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleSnapshot), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("column snapshot changed while reading, not cached")
	default:
		c.log.WithError(err).Debug("column cache write failed")
	}
}

var _ notify.Publisher = (*ColumnCache)(nil)
