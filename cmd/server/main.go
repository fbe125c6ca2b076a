package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/livescore-api-links/internal/config"
	"github.com/iliyamo/livescore-api-links/internal/database"
	"github.com/iliyamo/livescore-api-links/internal/handler"
	"github.com/iliyamo/livescore-api-links/internal/middleware"
	"github.com/iliyamo/livescore-api-links/internal/queue"
	"github.com/iliyamo/livescore-api-links/internal/repository"
	"github.com/iliyamo/livescore-api-links/internal/router"
	queue_publisher "github.com/iliyamo/livescore-api-links/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	links := repository.NewLinkRepo(db)
	snapshots := repository.NewSnapshotRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	linkHandler := handler.NewLinkHandler(links)
	publicHandler := handler.NewPublicHandler(links, snapshots)
	publicHandler.Publish = queue_publisher.PublishLinkAccessed

	// Redis-backed rate limiting and response caching for the public
	// surface. Both degrade to pass-through when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterLinks(e, linkHandler, cfg.JWTSecret)
	router.RegisterPublic(e, publicHandler, limiter, cache)

	// Ingest snapshots from the external scoring feed in the background.
	// The consumer maintains its own reconnect loop.
	go func() {
		if err := queue.StartSnapshotConsumer(snapshots); err != nil {
			log.Printf("snapshot consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
