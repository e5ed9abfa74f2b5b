// Package main is the entry point for the Mongo Viewer gateway.
// @title Mongo Viewer API
// @version 1.0
// @description REST gateway over a single MongoDB session for browsing databases, collections and documents

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3001
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/unifiedui/mongo-viewer/docs"
	"github.com/unifiedui/mongo-viewer/internal/api/handlers"
	"github.com/unifiedui/mongo-viewer/internal/api/middleware"
	"github.com/unifiedui/mongo-viewer/internal/api/routes"
	"github.com/unifiedui/mongo-viewer/internal/config"
	"github.com/unifiedui/mongo-viewer/internal/core/cache"
	rediscache "github.com/unifiedui/mongo-viewer/internal/infrastructure/cache/redis"
	"github.com/unifiedui/mongo-viewer/internal/infrastructure/docdb/mongodb"
	"github.com/unifiedui/mongo-viewer/internal/pkg/docjson"
	"github.com/unifiedui/mongo-viewer/internal/pkg/encryption"
	"github.com/unifiedui/mongo-viewer/internal/pkg/logger"
	"github.com/unifiedui/mongo-viewer/internal/services/catalog"
	"github.com/unifiedui/mongo-viewer/internal/services/session"
)

func main() {
	generateKey := flag.Bool("generate-key", false, "print a random SESSION_ENCRYPTION_KEY and exit")
	flag.Parse()

	if *generateKey {
		key, err := encryption.GenerateKey()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	cacheClient, err := createCache(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache")
	}
	if cacheClient != nil {
		defer cacheClient.Close()
	}

	store, err := createSessionStore(cfg, cacheClient)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session store")
	}

	connector := mongodb.NewConnector(&mongodb.ConnectorConfig{
		ConnectTimeout: cfg.MongoDB.ConnectTimeout,
		PingTimeout:    cfg.MongoDB.PingTimeout,
	})

	managerCfg := &session.Config{
		Connector:         connector,
		DisconnectTimeout: cfg.MongoDB.DisconnectTimeout,
	}
	if store != nil {
		managerCfg.Store = store
	}
	manager, err := session.NewManager(managerCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session manager")
	}

	openInitialSession(ctx, cfg, manager)

	mode, err := docjson.ParseMode(cfg.Documents.JSONMode)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid document json mode")
	}

	encoder := docjson.NewEncoder(mode)
	log.Info().Str("json_mode", string(encoder.Mode())).Msg("document rendering configured")

	catalogService, err := catalog.NewService(&catalog.Config{
		Sessions:     manager,
		Encoder:      encoder,
		DefaultLimit: cfg.Documents.DefaultLimit,
		MaxLimit:     cfg.Documents.MaxLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize catalog service")
	}

	gin.SetMode(cfg.Server.GinMode)

	router := setupRouter(cfg, manager, catalogService, cacheClient)

	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	go func() {
		log.Info().
			Str("address", cfg.Server.Address()).
			Str("health", "/api/health").
			Msg("mongo viewer gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := manager.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close mongodb connection")
	} else {
		log.Info().Msg("mongodb connection closed")
	}

	log.Info().Msg("server exited")
}

// createCache creates the persistence cache, or nil when caching is disabled.
func createCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled() {
		log.Info().Msg("session persistence disabled")
		return nil, nil
	}

	switch cache.Type(cfg.Cache.Type) {
	case cache.TypeRedis:
		return rediscache.NewCache(ctx, rediscache.Config{
			Host:       cfg.Cache.Host,
			Port:       cfg.Cache.Port,
			Password:   cfg.Cache.Password,
			DB:         cfg.Cache.DB,
			DefaultTTL: cfg.Session.TTL,
		})
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.Cache.Type)
	}
}

// createSessionStore creates the descriptor store, or nil without a cache.
func createSessionStore(cfg *config.Config, c cache.Cache) (*session.CacheStore, error) {
	if c == nil {
		return nil, nil
	}

	if cfg.Session.EncryptionKey == "" {
		log.Warn().Msg("SESSION_ENCRYPTION_KEY not set, persisted descriptors are only base64 encoded")
	}
	encryptor, err := encryption.New(cfg.Session.EncryptionKey)
	if err != nil {
		return nil, err
	}

	return session.NewCacheStore(&session.StoreConfig{
		Cache:     c,
		Encryptor: encryptor,
		TTL:       cfg.Session.TTL,
	})
}

// openInitialSession restores a persisted session, falling back to MONGODB_URI.
// Failures are logged; the gateway still starts disconnected.
func openInitialSession(ctx context.Context, cfg *config.Config, manager *session.Manager) {
	restored, err := manager.Restore(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to restore persisted session")
	}
	if restored || cfg.MongoDB.StartupURI == "" {
		return
	}

	if err := manager.Connect(ctx, cfg.MongoDB.StartupURI); err != nil {
		log.Warn().Err(err).Msg("failed to open startup session")
	}
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, manager *session.Manager, catalogService *catalog.Service, c cache.Cache) *gin.Engine {
	router := gin.New()

	loggingMw := middleware.NewLoggingMiddleware().Quiet("/api/health", "/api/ready", "/api/live")
	errorMw := middleware.NewErrorMiddleware()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORS.AllowOrigins

	var cachePinger handlers.Pinger
	if c != nil {
		cachePinger = c
	}

	routesCfg := &routes.Config{
		HealthHandler:     handlers.NewHealthHandler(manager, cachePinger),
		ConnectionHandler: handlers.NewConnectionHandler(manager),
		CatalogHandler:    handlers.NewCatalogHandler(catalogService),
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsCfg)

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
