// Package app wires configuration, storage and services into one container.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/shipnotes/shipnotes/internal/api"
	"github.com/shipnotes/shipnotes/internal/cache"
	"github.com/shipnotes/shipnotes/internal/config"
	"github.com/shipnotes/shipnotes/internal/database"
	"github.com/shipnotes/shipnotes/internal/notify"
	"github.com/shipnotes/shipnotes/internal/server"
	"github.com/shipnotes/shipnotes/internal/services/event"
	"github.com/shipnotes/shipnotes/internal/services/status"
	"github.com/shipnotes/shipnotes/internal/theme"
)

// App holds all application services and the resources they share.
type App struct {
	cfg   *config.Config
	db    *sql.DB
	read  *sql.DB // read-only pool, db itself for in-memory databases
	redis *redis.Client
	log   log.FieldLogger

	Themes    theme.Provider
	Reloader  theme.Reloader // nil when the built-in manifest is used
	Publisher notify.Publisher
	Remote    *notify.RedisPublisher // nil without Redis
	Columns   *cache.ColumnCache

	Statuses status.Service
	Events   event.Service
}

// New opens the database, loads the theme manifest, connects Redis when
// configured and builds the services.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	options := appConfig{logger: log.StandardLogger()}
	for _, opt := range opts {
		opt(&options)
	}
	logger := options.logger.WithField("component", "app")

	a := &App{cfg: cfg, log: logger}

	db, err := database.InitDB(ctx, cfg.Database.Path, cfg.Workflow.Seed)
	if err != nil {
		return nil, err
	}
	a.db = db

	read, err := database.OpenReader(ctx, cfg.Database.Path, db)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.read = read

	if cfg.Theme.Manifest != "" {
		provider, err := theme.NewFileProvider(cfg.Theme.Manifest)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to load theme: %w", err)
		}
		a.Themes = provider
		a.Reloader = provider
	} else {
		a.Themes = theme.StaticProvider{M: theme.Default()}
	}

	if cfg.Redis.URL != "" {
		client, err := connectRedis(ctx, cfg.Redis.URL, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.redis = client
	}

	a.Columns = cache.NewColumnCache(database.New(read), a.redis, cfg.Redis.CacheTTL, options.logger)

	fanout := notify.Fanout{a.Columns}
	if a.redis != nil {
		a.Remote = notify.NewRedisPublisher(a.redis, cfg.Redis.Channel)
		fanout = append(fanout, a.Remote)
	}
	fanout = append(fanout, options.publishers...)
	a.Publisher = fanout

	a.Statuses = status.NewService(db, a.Themes,
		status.WithCapacityPolicy(cfg.Workflow.CapacityPolicy),
		status.WithPublisher(a.Publisher),
		status.WithReader(read),
		status.WithLogger(options.logger))
	a.Events = event.NewService(db,
		event.WithPublisher(a.Publisher),
		event.WithLogger(options.logger))

	logger.WithFields(log.Fields{
		"db":     cfg.Database.Path,
		"redis":  a.redis != nil,
		"policy": cfg.Workflow.CapacityPolicy,
	}).Debug("application initialized")
	return a, nil
}

// connectRedis parses url and checks the server answers. An unreachable Redis
// is not fatal: publishing and caching degrade to logged failures.
func connectRedis(ctx context.Context, url string, logger log.FieldLogger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable; change notifications and column cache degraded")
	}
	return client, nil
}

// RelayRemoteChanges forwards changes committed by other instances sharing the
// Redis channel to dst until ctx is done. Without Redis it does nothing.
func (a *App) RelayRemoteChanges(ctx context.Context, dst notify.Publisher) error {
	if a.Remote == nil || dst == nil {
		return nil
	}
	changes, err := a.Remote.Subscribe(ctx)
	if err != nil {
		return err
	}
	go notify.Relay(ctx, changes, a.Remote.Origin(), dst, a.log)
	return nil
}

// DB returns the database handle
func (a *App) DB() *sql.DB {
	return a.db
}

// Config returns the configuration the app was built from
func (a *App) Config() *config.Config {
	return a.cfg
}

// APIDeps assembles the HTTP handler dependencies for srv
func (a *App) APIDeps(srv *server.Server) api.Deps {
	d := api.Deps{
		Statuses:     a.Statuses,
		Events:       a.Events,
		Columns:      a.Columns,
		Themes:       a.Themes,
		Reloader:     a.Reloader,
		Publisher:    a.Publisher,
		DB:           a.db,
		Logger:       a.log,
		MaxBodyBytes: a.cfg.Server.MaxBodyBytes,
		CORSOrigins:  a.cfg.Server.CORSOrigins,
	}
	if srv != nil {
		d.Metrics = srv.Metrics()
		d.Hub = srv.Hub()
	}
	return d
}

// Close releases Redis and database connections
func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.read != nil && a.read != a.db {
		if err := a.read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close read pool: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
