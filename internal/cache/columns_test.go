package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/notify"
)

type stubSource struct {
	calls   int
	columns []*models.Column
	err     error
}

func (s *stubSource) ListColumns(context.Context) ([]*models.Column, error) {
	s.calls++
	return s.columns, s.err
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleColumns() []*models.Column {
	released := "released"
	return []*models.Column{
		{Status: &models.Status{ID: 1, Name: "Backlogs", Position: 0, Reserved: true}, Label: "Backlogs", Count: 2},
		{Status: &models.Status{ID: 2, Name: "Release", Position: 1}, Label: "Release", Count: 0, Category: &released},
	}
}

func TestColumnCache_MissThenHit(t *testing.T) {
	mr, client := newRedis(t)
	src := &stubSource{columns: sampleColumns()}
	c := NewColumnCache(src, client, time.Minute, nil)
	ctx := context.Background()

	first, err := c.ListColumns(ctx)
	require.NoError(t, err)
	second, err := c.ListColumns(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls, "second read should be served from redis")
	require.Len(t, second, 2)
	assert.Equal(t, first[0].Label, second[0].Label)
	assert.Equal(t, 2, second[0].Count)
	assert.True(t, second[0].Status.Reserved)
	require.NotNil(t, second[1].Category)
	assert.Equal(t, "released", *second[1].Category)

	ttl := mr.TTL(ColumnsKey)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %v", ttl)
}

func TestColumnCache_EvictedByChange(t *testing.T) {
	mr, client := newRedis(t)
	src := &stubSource{columns: sampleColumns()}
	c := NewColumnCache(src, client, time.Minute, nil)
	ctx := context.Background()

	_, err := c.ListColumns(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(ColumnsKey))

	require.NoError(t, c.Publish(ctx, notify.Change{Type: notify.StatusReordered}))
	assert.False(t, mr.Exists(ColumnsKey))
	gen, err := mr.Get(GenerationKey)
	require.NoError(t, err)
	assert.Equal(t, "1", gen)

	_, err = c.ListColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

// changingSource commits a change (and publishes it) while its first read is
// still in flight, returning the snapshot taken before the change.
type changingSource struct {
	cache    *ColumnCache
	released int
	calls    int
}

func (s *changingSource) ListColumns(ctx context.Context) ([]*models.Column, error) {
	s.calls++
	columns := sampleColumns()
	columns[1].Count = s.released
	if s.calls == 1 {
		s.released = 1
		if err := s.cache.Publish(ctx, notify.Change{Type: notify.EventChanged, EventID: 7}); err != nil {
			return nil, err
		}
	}
	return columns, nil
}

func TestColumnCache_ChangeDuringReadNotCached(t *testing.T) {
	mr, client := newRedis(t)
	src := &changingSource{}
	c := NewColumnCache(src, client, time.Minute, nil)
	src.cache = c
	ctx := context.Background()

	first, err := c.ListColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, first[1].Count, "caller still gets the snapshot it read")
	assert.False(t, mr.Exists(ColumnsKey), "superseded snapshot must not be stored")

	second, err := c.ListColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second[1].Count, "count after the committed change")
	assert.Equal(t, 2, src.calls)

	third, err := c.ListColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third[1].Count)
	assert.Equal(t, 2, src.calls, "fresh snapshot is cached")
}

func TestColumnCache_CorruptEntryFallsBack(t *testing.T) {
	mr, client := newRedis(t)
	src := &stubSource{columns: sampleColumns()}
	c := NewColumnCache(src, client, time.Minute, nil)

	require.NoError(t, mr.Set(ColumnsKey, "{not json"))

	columns, err := c.ListColumns(context.Background())
	require.NoError(t, err)
	assert.Len(t, columns, 2)
	assert.Equal(t, 1, src.calls)
}

func TestColumnCache_RedisDownFallsBack(t *testing.T) {
	mr, client := newRedis(t)
	src := &stubSource{columns: sampleColumns()}
	c := NewColumnCache(src, client, time.Minute, nil)
	mr.Close()

	columns, err := c.ListColumns(context.Background())
	require.NoError(t, err)
	assert.Len(t, columns, 2)
}

func TestColumnCache_Disabled(t *testing.T) {
	src := &stubSource{columns: sampleColumns()}
	c := NewColumnCache(src, nil, time.Minute, nil)
	ctx := context.Background()

	_, err := c.ListColumns(ctx)
	require.NoError(t, err)
	_, err = c.ListColumns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
	assert.NoError(t, c.Evict(ctx))
}

func TestColumnCache_SourceErrorNotCached(t *testing.T) {
	mr, client := newRedis(t)
	src := &stubSource{err: errors.New("db closed")}
	c := NewColumnCache(src, client, time.Minute, nil)

	_, err := c.ListColumns(context.Background())
	assert.Error(t, err)
	assert.False(t, mr.Exists(ColumnsKey))
}
