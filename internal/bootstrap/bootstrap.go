// Package bootstrap wires the stores, providers and services shared by the server and matchctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/config"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/cache"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/models"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/providers/embedding"
	mongorepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/mongo"
	pgrepo "github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/repositories/postgres"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/search"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/services"
	"github.com/wrtn-edu-sch-bootcamp/20214056-Personal-Project/internal/vectorstore"
)

type Container struct {
	Config config.MatchingConfig
	Log    *logrus.Logger
	Redis  *redis.Client

	Profiles    pgrepo.ProfileRepository
	Postings    pgrepo.PostingRepository
	Embeddings  pgrepo.EmbeddingRepository
	RefreshLogs mongorepo.RefreshLogRepository // nil when Mongo is not configured

	Vectors      *vectorstore.Store
	ProfileIndex *search.Index
	PostingIndex *search.Index

	Queue      services.RefreshQueue
	Refresh    services.RefreshService
	Matching   services.MatchingService
	ProfileSvc services.ProfileService
	PostingSvc services.PostingService
	SearchSvc  services.SearchService
}

// Build connects Postgres and Redis (required) and Mongo (optional), then wires every service.
func Build(ctx context.Context, log *logrus.Logger) (*Container, error) {
	cfg, err := config.LoadMatching()
	if err != nil {
		return nil, fmt.Errorf("matching config: %w", err)
	}

	if err := config.InitPostgres(); err != nil {
		return nil, fmt.Errorf("postgres init: %w", err)
	}
	if err := config.MigratePostgres(); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		return nil, fmt.Errorf("redis init: %w", err)
	}
	log.Info("Redis connected")

	c := &Container{
		Config:     cfg,
		Log:        log,
		Redis:      config.RedisClient,
		Profiles:   pgrepo.NewProfileRepo(config.PostgresDB),
		Postings:   pgrepo.NewPostingRepo(config.PostgresDB),
		Embeddings: pgrepo.NewEmbeddingRepo(config.PostgresDB),
	}

	var recorder vectorstore.Recorder
	if err := config.InitMongo(); errors.Is(err, config.ErrMongoNotConfigured) {
		log.Info("MONGO_URI not set, refresh log disabled")
	} else if err != nil {
		log.WithError(err).Warn("MongoDB unavailable, refresh log disabled")
	} else {
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("ensure mongo indexes failed")
		}
		c.RefreshLogs = mongorepo.NewRefreshLogRepo(config.MongoDatabase(), cfg.RefreshLogTTL)
		recorder = c.RefreshLogs
		log.Info("MongoDB connected")
	}

	gw, err := embedding.New(ctx, cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding gateway: %w", err)
	}
	c.Vectors = vectorstore.New(c.Embeddings, gw, vectorstore.Options{
		Cache:          cache.NewVectorCache(cache.NewRedisCache(c.Redis).WithPrefix(cfg.CachePrefix), cfg.CacheTTL),
		Recorder:       recorder,
		Logger:         log,
		Concurrency:    cfg.Concurrency,
		RefreshTimeout: 2 * cfg.Embedding.Timeout,
	})
	log.WithFields(logrus.Fields{"provider": cfg.Embedding.Provider, "model": c.Vectors.Model()}).Info("vector store ready")

	if c.ProfileIndex, err = search.NewIndex(models.KindProfile); err != nil {
		return nil, err
	}
	if c.PostingIndex, err = search.NewIndex(models.KindPosting); err != nil {
		return nil, err
	}

	c.Queue = services.NewRefreshQueue(c.Redis)
	c.Refresh = services.NewRefreshService(c.Profiles, c.Postings, c.Vectors)
	c.Matching = services.NewMatchingService(c.Profiles, c.Postings, c.Vectors, services.MatchingConfig{
		MaxLimit:      cfg.MaxLimit,
		MaxCandidates: cfg.MaxCandidates,
	}, log)
	c.ProfileSvc = services.NewProfileService(c.Profiles, c.Queue, c.ProfileIndex, c.Vectors, log)
	c.PostingSvc = services.NewPostingService(c.Postings, c.Queue, c.PostingIndex, c.Vectors, log)
	c.SearchSvc = services.NewSearchService(c.Profiles, c.Postings, c.ProfileIndex, c.PostingIndex, cfg.MaxLimit, log)

	return c, nil
}

// Close releases the in-memory indexes and network clients.
func (c *Container) Close(ctx context.Context) {
	if c.ProfileIndex != nil {
		_ = c.ProfileIndex.Close()
	}
	if c.PostingIndex != nil {
		_ = c.PostingIndex.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(ctx)
	}
	if config.PostgresDB != nil {
		if sqlDB, err := config.PostgresDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
