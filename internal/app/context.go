package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/elucidate-app/elucidate/internal/cache"
	"github.com/elucidate-app/elucidate/internal/config"
	"github.com/elucidate-app/elucidate/internal/metrics"
	"github.com/elucidate-app/elucidate/internal/session"
)

// AppContext holds shared dependencies (DB, Redis, Logger, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
	Sessions   *session.Codec
	Metrics    *metrics.Collector
}

// New creates a new AppContext
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Sessions:   session.NewCodec(cfg),
		Metrics:    metrics.NewCollector(),
	}
}
