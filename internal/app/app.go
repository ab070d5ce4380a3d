// Package app wires configuration, storage, and services together.
package app

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sinfiltro/feedserver/internal/config"
	"github.com/sinfiltro/feedserver/internal/database"
	"github.com/sinfiltro/feedserver/internal/feed"
	"github.com/sinfiltro/feedserver/internal/httpapi"
	"github.com/sinfiltro/feedserver/internal/logging"
	"github.com/sinfiltro/feedserver/internal/moderation"
	"github.com/sinfiltro/feedserver/internal/ratelimit"
	"github.com/sinfiltro/feedserver/internal/seed"
	"github.com/sinfiltro/feedserver/internal/uploads"
)

// App holds all application dependencies
type App struct {
	Config     *config.Config
	Logger     *logging.Logger
	FeedSvc    *feed.Service
	UploadSvc  *uploads.Service
	HTTPServer *httpapi.Server

	db            *database.DB
	redisClient   *redis.Client
	uploadLimiter ratelimit.RateLimiter
}

// New creates and initializes a new App instance
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.Logger = app.initLogger()

	contentStore := app.initDatabase()
	app.initRateLimiter()

	generator := seed.New()

	app.FeedSvc = feed.NewService(feedStore(contentStore), generator, feed.Config{
		Categories: cfg.Feed.Categories,
		SeedCount:  cfg.Feed.SeedCount,
		PageLimit:  cfg.Feed.PageLimit,
	}, app.Logger)

	moderator := app.initModeration()

	uploadSvc, err := uploads.NewService(uploadStore(contentStore), moderator, cfg.Uploads.Dir, cfg.Uploads.PublicPath, cfg.Moderation.Timeout, app.Logger)
	if err != nil {
		return nil, err
	}
	app.UploadSvc = uploadSvc

	app.HTTPServer = httpapi.New(app.FeedSvc, app.UploadSvc, app.uploadLimiter, cfg.Server.IndexFile, cfg.Uploads.MaxSize, app.Logger)

	return app, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run(ctx context.Context) error {
	_ = ctx
	return a.HTTPServer.Start(a.Config.Server.HTTPAddr)
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	if a.db != nil {
		if err := a.db.Close(ctx); err != nil {
			a.Logger.Error("Database close error", logging.WithField("error", err.Error()))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.Logger.Error("Redis close error", logging.WithField("error", err.Error()))
		}
	}

	return nil
}

func (a *App) initLogger() *logging.Logger {
	level := logging.LevelInfo
	switch a.Config.Logging.Level {
	case "debug":
		level = logging.LevelDebug
	case "warn":
		level = logging.LevelWarn
	case "error":
		level = logging.LevelError
	}
	return logging.New(level)
}

// initDatabase connects to MongoDB. A failed connection degrades rather
// than aborts: the feed serves unpersisted sample batches and uploads
// report failure until the process is restarted with a reachable store.
func (a *App) initDatabase() *database.ContentStore {
	db, err := database.New(database.Config{
		URI:      a.Config.Database.URI,
		Database: a.Config.Database.Database,
	})
	if err != nil {
		a.Logger.Warn("Failed to connect to MongoDB, serving sample data only", logging.WithField("error", err.Error()))
		return nil
	}

	a.Logger.Info("Connected to MongoDB", logging.WithField("database", a.Config.Database.Database))
	a.db = db
	return database.NewContentStore(db)
}

func (a *App) initRateLimiter() {
	interval := a.Config.RateLimit.Interval
	if interval <= 0 {
		return
	}

	if a.Config.RateLimit.Backend == "redis" {
		client := redis.NewClient(&redis.Options{Addr: a.Config.RateLimit.RedisAddr})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to in-memory rate limiting", logging.WithField("error", err.Error()))
			_ = client.Close()
			a.uploadLimiter = ratelimit.New(interval)
			return
		}

		a.redisClient = client
		a.uploadLimiter = ratelimit.NewRedis(client, "ratelimit:upload:", interval)
		a.Logger.Info("Using Redis for distributed upload rate limiting")
		return
	}

	a.uploadLimiter = ratelimit.New(interval)
}

func (a *App) initModeration() uploads.Moderator {
	if !a.Config.Moderation.Enabled {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	detector, err := moderation.NewAWSDetector(ctx, a.Config.Moderation.AWSRegion)
	if err != nil {
		a.Logger.Warn("Failed to initialize image moderation, uploads will not be screened", logging.WithField("error", err.Error()))
		return nil
	}

	a.Logger.Info("Image moderation enabled", logging.WithField("region", a.Config.Moderation.AWSRegion))
	return moderation.NewService(detector, a.Config.Moderation.RejectConfidence)
}

// feedStore converts a possibly-nil concrete store into the feed interface
// without producing a typed-nil interface value.
func feedStore(store *database.ContentStore) feed.ContentStore {
	if store == nil {
		return nil
	}
	return store
}

// uploadStore is the same conversion for the uploads interface.
func uploadStore(store *database.ContentStore) uploads.Store {
	if store == nil {
		return nil
	}
	return store
}
