package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-backend/internal/assetstore"
	"catalog-backend/internal/auth"
	"catalog-backend/internal/cache"
	"catalog-backend/internal/catalog"
	"catalog-backend/internal/config"
	"catalog-backend/internal/logger"
	"catalog-backend/internal/routes"
)

func main() {
	cfg := config.LoadConfig()

	zlog := logger.New(cfg.LogFile)
	defer func() { _ = zlog.Sync() }()

	store, err := buildStore(cfg, zlog)
	if err != nil {
		log.Fatalln("failed to initialize asset store:", err)
	}

	listingCache := cache.New(cfg.CacheTTL)
	defer listingCache.Close()

	service := catalog.NewService(store, listingCache, cfg.BasePath, zlog)
	manager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL, cfg.AdminEmail, cfg.AdminPasswordHash)

	// The zap middleware registered by RegisterRoutes is the request
	// log; gin's own Logger would duplicate it.
	router := gin.New()
	router.Use(gin.Recovery())
	routes.RegisterRoutes(router, service, manager, zlog)

	zlog.Info("server starting", zap.String("port", cfg.Port), zap.String("backend", cfg.StorageBackend))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func buildStore(cfg *config.Config, zlog *zap.Logger) (assetstore.Store, error) {
	switch cfg.StorageBackend {
	case "s3":
		return assetstore.NewS3Store(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL, zlog)
	default:
		return assetstore.NewImageKitClient(cfg.ImageKitPrivateKey, zlog), nil
	}
}
