package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipnotes/shipnotes/internal/cache"
	"github.com/shipnotes/shipnotes/internal/config"
	"github.com/shipnotes/shipnotes/internal/database"
	"github.com/shipnotes/shipnotes/internal/models"
	"github.com/shipnotes/shipnotes/internal/notify"
	"github.com/shipnotes/shipnotes/internal/server"
	"github.com/shipnotes/shipnotes/internal/services/status"
	"github.com/shipnotes/shipnotes/internal/theme"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Database.Path = database.MemoryPath
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts = append([]Option{WithLogger(logger)}, opts...)
	a, err := New(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestNew_Defaults(t *testing.T) {
	a := newTestApp(t, testConfig())

	require.NotNil(t, a.Statuses)
	require.NotNil(t, a.Events)
	require.NotNil(t, a.Columns)
	assert.Nil(t, a.Reloader, "built-in manifest is static")
	assert.Equal(t, theme.Default().Name, a.Themes.Manifest().Name)

	statuses, err := a.Statuses.ListStatuses(context.Background())
	require.NoError(t, err)
	assert.Len(t, statuses, len(models.DefaultSeedStatuses()))
}

func TestNew_CustomSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Workflow.Seed = []models.SeedStatus{{Name: "Todo"}, {Name: "Done", Reserved: true}}
	a := newTestApp(t, cfg)

	statuses, err := a.Statuses.ListStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, "Todo", statuses[0].Name)
	assert.True(t, statuses[1].Reserved)
}

func TestNew_ManifestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: custom\ncategories:\n  - id: shipped\n"), 0o644))

	cfg := testConfig()
	cfg.Theme.Manifest = path
	a := newTestApp(t, cfg)

	require.NotNil(t, a.Reloader)
	_, ok := a.Themes.Manifest().Category("shipped")
	assert.True(t, ok)

	ctx := context.Background()
	st, err := a.Statuses.CreateStatus(ctx, status.CreateStatusRequest{Name: "Shipped", CategoryID: strPtr("shipped")})
	require.NoError(t, err)
	m, err := a.Statuses.GetCategoryMapping(ctx, st.ID)
	require.NoError(t, err)
	assert.True(t, m.Exclusive, "multiple defaults to false")
}

func TestNew_Errors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		cfg := testConfig()
		cfg.Theme.Manifest = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := New(context.Background(), cfg)
		assert.Error(t, err)
	})

	t.Run("bad redis url", func(t *testing.T) {
		cfg := testConfig()
		cfg.Redis.URL = "ftp://nope"
		_, err := New(context.Background(), cfg)
		assert.ErrorContains(t, err, "invalid redis url")
	})
}

func TestNew_RedisUnreachableIsNotFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Redis.URL = "redis://" + addr
	a := newTestApp(t, cfg)

	_, err := a.Statuses.CreateStatus(context.Background(), status.CreateStatusRequest{Name: "Offline"})
	assert.NoError(t, err, "mutations succeed while notifications fail")

	columns, err := a.Columns.ListColumns(context.Background())
	require.NoError(t, err)
	assert.Len(t, columns, 5)
}

func TestChangesReachRedisCacheAndExtraPublishers(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()

	metrics := server.NewMetrics()
	a := newTestApp(t, cfg, WithPublishers(metrics, nil))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// warm the cache
	_, err := a.Columns.ListColumns(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.ColumnsKey))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	changes, err := notify.NewRedisPublisher(client, cfg.Redis.Channel).Subscribe(ctx)
	require.NoError(t, err)

	created, err := a.Statuses.CreateStatus(ctx, status.CreateStatusRequest{Name: "Beta"})
	require.NoError(t, err)

	select {
	case change := <-changes:
		assert.Equal(t, notify.StatusCreated, change.Type)
		assert.Equal(t, created.ID, change.StatusID)
	case <-ctx.Done():
		t.Fatal("timeout waiting for redis change")
	}

	assert.False(t, mr.Exists(cache.ColumnsKey), "column cache evicted")
	assert.Equal(t, int64(1), metrics.GetSnapshot().ChangesPublished)

	columns, err := a.Columns.ListColumns(ctx)
	require.NoError(t, err)
	assert.Len(t, columns, 5)
}

func TestNew_FileDatabaseUsesReadPool(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "shipnotes.db")
	a := newTestApp(t, cfg)
	require.NotSame(t, a.db, a.read)

	ctx := context.Background()
	created, err := a.Statuses.CreateStatus(ctx, status.CreateStatusRequest{Name: "Beta"})
	require.NoError(t, err)

	statuses, err := a.Statuses.ListStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 5)
	assert.Equal(t, created.ID, statuses[4].ID, "committed writes are visible to the read pool")

	columns, err := a.Columns.ListColumns(ctx)
	require.NoError(t, err)
	assert.Len(t, columns, 5)
}

func TestNew_MemoryDatabaseSharesWriter(t *testing.T) {
	a := newTestApp(t, testConfig())
	assert.Same(t, a.db, a.read)
}

func TestRelayRemoteChanges(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis.URL = "redis://" + mr.Addr()

	writer := newTestApp(t, cfg)
	reader := newTestApp(t, cfg)
	require.NotNil(t, reader.Remote)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	relayed := make(chan notify.Change, 8)
	sink := notify.PublisherFunc(func(_ context.Context, c notify.Change) error {
		relayed <- c
		return nil
	})
	require.NoError(t, reader.RelayRemoteChanges(ctx, sink))

	// the reader's own change is not relayed back to it
	_, err := reader.Statuses.CreateStatus(ctx, status.CreateStatusRequest{Name: "Local"})
	require.NoError(t, err)

	created, err := writer.Statuses.CreateStatus(ctx, status.CreateStatusRequest{Name: "Remote"})
	require.NoError(t, err)

	select {
	case change := <-relayed:
		assert.Equal(t, notify.StatusCreated, change.Type)
		assert.Equal(t, created.ID, change.StatusID)
		assert.Equal(t, writer.Remote.Origin(), change.Origin)
	case <-ctx.Done():
		t.Fatal("timeout waiting for relayed change")
	}

	select {
	case change := <-relayed:
		t.Fatalf("unexpected relayed change %+v", change)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRelayRemoteChanges_WithoutRedis(t *testing.T) {
	a := newTestApp(t, testConfig())
	assert.Nil(t, a.Remote)
	assert.NoError(t, a.RelayRemoteChanges(context.Background(), notify.Fanout{}))
}

func TestAPIDeps(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 2048
	a := newTestApp(t, cfg)
	srv := server.New(cfg.Server, nil)

	d := a.APIDeps(srv)
	assert.Same(t, srv.Metrics(), d.Metrics)
	assert.Same(t, srv.Hub(), d.Hub)
	assert.Equal(t, int64(2048), d.MaxBodyBytes)
	assert.NotNil(t, d.DB)
	assert.Nil(t, d.Reloader)

	assert.Nil(t, a.APIDeps(nil).Hub)
}

func TestClose(t *testing.T) {
	logger, _ := test.NewNullLogger()
	a, err := New(context.Background(), testConfig(), WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, a.Close())
	assert.Error(t, a.DB().PingContext(context.Background()), "database closed")
}

func strPtr(s string) *string { return &s }
