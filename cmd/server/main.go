package main

import (
	"context"

	"github.com/elucidate-app/elucidate/internal/app"
	"github.com/elucidate-app/elucidate/internal/cache"
	"github.com/elucidate-app/elucidate/internal/config"
	"github.com/elucidate-app/elucidate/internal/db"
	"github.com/elucidate-app/elucidate/internal/logger"
	"github.com/elucidate-app/elucidate/internal/server"
	"github.com/elucidate-app/elucidate/internal/service/account"
	"github.com/elucidate-app/elucidate/internal/service/chat"
	"github.com/elucidate-app/elucidate/internal/service/discovery"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L() // slog.Logger pointer

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	// Inject shared dependencies into app context
	appCtx := app.New(cfg, database, redisCache, log)

	registrars := []server.Registrar{
		account.NewRegistrar(appCtx),
		discovery.NewRegistrar(appCtx),
		chat.NewRegistrar(appCtx),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(appCtx, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
