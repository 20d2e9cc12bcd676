package main

// @title Vendor Discovery API
// @version 1.0.0
// @description Сервис поиска продавцов рядом с пользователем. Экран поиска (критерии, результаты, карта, drill-down до отзывов) живёт на сервере; тонкий клиент отрисовывает состояние, которое возвращает API.
// @description
// @description Основные возможности:
// @description - Поиск продавцов в радиусе (1-100 км) с фильтром по категории
// @description - Карта с маркерами и всплывающими окнами, PNG-рендер
// @description - Продавец -> товары -> отзывы и рейтинг
// @description - Отзывы от залогиненной экранной сессии
// @description - Маршрут до продавца во внешнем сервисе

// @contact.name API Support
// @contact.email support@vendor-discovery.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8090
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/vendor-discovery/docs"
	"github.com/vendor-discovery/internal/config"
	httpDelivery "github.com/vendor-discovery/internal/delivery/http"
	"github.com/vendor-discovery/internal/delivery/http/handler"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/infrastructure/backend"
	"github.com/vendor-discovery/internal/infrastructure/geolocation"
	"github.com/vendor-discovery/internal/infrastructure/mapbox"
	"github.com/vendor-discovery/internal/mapsurface"
	"github.com/vendor-discovery/internal/pkg/logger"
	"github.com/vendor-discovery/internal/repository/cache"
	"github.com/vendor-discovery/internal/repository/postgres"
	redisrepo "github.com/vendor-discovery/internal/repository/redis"
	"github.com/vendor-discovery/internal/session"
	"github.com/vendor-discovery/internal/usecase"
	"github.com/vendor-discovery/internal/worker"
	"github.com/vendor-discovery/internal/worker/identity"
	"github.com/vendor-discovery/internal/worker/sweep"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	instanceID := uuid.NewString()
	log = log.With(zap.String("instance_id", instanceID))

	log.Info("Starting Vendor Discovery")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("backend", cfg.Backend.BaseURL),
		zap.Bool("map_enabled", cfg.MapEnabled()),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checks := make(map[string]httpDelivery.HealthCheck)

	// 3. Redis (кэш каталога и стрим identity) - опционально
	var redisClient *cache.Redis
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		if err := redisClient.Health(ctx); err != nil {
			log.Fatal("Redis health check failed", zap.Error(err))
		}
		checks["redis"] = redisClient.Health
		log.Info("Redis connected")
	}

	// 4. PostgreSQL (хранилище экранных сессий) - опционально
	var db *postgres.DB
	if cfg.Database.Enabled {
		db, err = postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		if err := db.Health(ctx); err != nil {
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}
		checks["postgres"] = db.Health
		log.Info("PostgreSQL connected")
	}

	// 5. Initialize Repositories
	directory := backend.NewDirectoryClient(&cfg.Backend, log)
	var streams repository.StreamRepository
	if redisClient != nil {
		directory = backend.NewCachedDirectory(directory, cache.NewCacheRepository(redisClient), &cfg.Cache, log)
		streams = redisrepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
	}

	var sessionStore repository.SessionRepository
	if db != nil {
		sessionStore = postgres.NewSessionRepository(db, log)
	}

	log.Info("Repositories initialized")

	// 6. Initialize Use Cases
	registry := usecase.NewScreenRegistry(usecase.ScreenDeps{
		Directory:   directory,
		Geolocation: geolocation.NewFromConfig(&cfg.Geolocation, log),
		MapLoader:   mapsurface.NewLoader(mapbox.NewMapboxClient(&cfg.Mapbox, log), log),
		Directions:  usecase.NewDirections(cfg.Directions.BaseURL),
		Logger:      log,
	}, cfg.Session.ScreenIdleTTL)

	broker := session.NewBroker()
	sessionUC := usecase.NewSessionUseCase(registry, sessionStore, streams, broker, instanceID, log)

	log.Info("Use cases initialized")

	// 7. Background: события identity и очистка простаивающих экранов
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	go sessionUC.Watch(appCtx)

	workers := worker.NewWorkerManager(log)
	workers.Register(sweep.NewScreenSweepWorker(registry, log))
	if streams != nil && cfg.Worker.Enabled {
		workers.Register(identity.NewIdentityWorker(streams, broker, cfg.Worker.ConsumerGroup, instanceID, log))
	}
	if err := workers.Start(appCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. Initialize HTTP Handlers
	screenHandler := handler.NewScreenHandler(registry, sessionUC, log)
	sessionHandler := handler.NewSessionHandler(screenHandler, sessionUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, screenHandler, sessionHandler, checks)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
		zap.Int("workers", workers.Len()),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopApp()
	if err := workers.Stop(); err != nil {
		log.Error("Workers shutdown error", zap.Error(err))
	}
	registry.Close()

	// Close PostgreSQL connection
	if db != nil {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL", zap.Error(err))
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
