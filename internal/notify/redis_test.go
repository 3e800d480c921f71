package notify

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "start miniredis")
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPublisher_DefaultChannel(t *testing.T) {
	_, client := newTestRedis(t)
	assert.Equal(t, DefaultChannel, NewRedisPublisher(client, "").Channel())
	assert.Equal(t, "custom", NewRedisPublisher(client, "custom").Channel())
}

func TestRedisPublisher_PublishSubscribe(t *testing.T) {
	_, client := newTestRedis(t)
	pub := NewRedisPublisher(client, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := pub.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, Change{Type: StatusCreated, StatusID: 5}))
	require.NoError(t, pub.Publish(ctx, Change{Type: StatusReordered}))

	first := receive(t, changes)
	assert.Equal(t, StatusCreated, first.Type)
	assert.Equal(t, 5, first.StatusID)
	assert.EqualValues(t, 1, first.SequenceID)
	assert.False(t, first.Timestamp.IsZero())

	second := receive(t, changes)
	assert.Equal(t, StatusReordered, second.Type)
	assert.EqualValues(t, 2, second.SequenceID)

	cancel()
	select {
	case _, ok := <-changes:
		for ok {
			_, ok = <-changes
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription channel should close after cancel")
	}
}

func TestRedisPublisher_StampsOrigin(t *testing.T) {
	_, client := newTestRedis(t)
	first := NewRedisPublisher(client, "")
	second := NewRedisPublisher(client, "")
	require.NotEmpty(t, first.Origin())
	assert.NotEqual(t, first.Origin(), second.Origin())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := second.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, first.Publish(ctx, Change{Type: MappingChanged, StatusID: 2}))
	got := receive(t, changes)
	assert.Equal(t, first.Origin(), got.Origin)

	require.NoError(t, first.Publish(ctx, Change{Type: ThemeReloaded, Origin: "upstream"}))
	assert.Equal(t, "upstream", receive(t, changes).Origin, "existing origin is kept")
}

func TestRedisPublisher_PublishFailsWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	pub := NewRedisPublisher(client, "")
	mr.Close()

	err := pub.Publish(context.Background(), Change{Type: StatusCreated})
	assert.Error(t, err)
}

func receive(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
	}
	return Change{}
}
