package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/timmy/gzblob/internal/config"
	"github.com/timmy/gzblob/internal/container"
	"github.com/timmy/gzblob/internal/logger"
	"github.com/timmy/gzblob/internal/storage"
)

func main() {
	// Initialize logger first (with defaults)
	logCfg := logger.LoadFromEnv()
	logCfg.ServiceName = "gzblob-provision"
	appLogger := logger.New(logCfg)
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	skipCORS := flag.Bool("skip-cors", false, "Do not apply CORS rules")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = appLogger.WithContext(ctx)
	ctx = logger.SetRunID(ctx, uuid.New().String())
	ctx = logger.SetComponent(ctx, "provision")

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.CtxInfo(ctx, "Received shutdown signal, canceling...")
		cancel()
	}()

	remote, err := storage.NewStorage(&storage.S3Config{
		Type:         storage.StorageType(cfg.Storage.Type),
		Endpoint:     cfg.Storage.Endpoint,
		AccessKey:    cfg.Storage.AccessKey,
		SecretKey:    cfg.Storage.SecretKey,
		UseSSL:       cfg.Storage.UseSSL,
		Bucket:       cfg.Storage.Bucket,
		Region:       cfg.Storage.Region,
		PublicURL:    cfg.Storage.PublicURL,
		PublicDomain: cfg.Storage.PublicDomain,
		PageSize:     cfg.Storage.PageSize,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}
	remote = storage.Instrument(remote)

	blobs := container.New(remote, container.WithCORSRules(corsRules(cfg.Container.CORS)))

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldContainer: blobs.Name(),
		logger.FieldBackend:   cfg.Storage.Type,
	})
	appLogger.WithFields(logger.Fields{
		"container":     blobs.Name(),
		"public_access": cfg.Container.PublicAccess,
		"cors":          !*skipCORS,
	}).Info("Provisioning container")

	if err := blobs.EnsureCreated(ctx, storage.ContainerOptions{PublicRead: cfg.Container.PublicAccess}); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure container")
	}
	if !*skipCORS {
		if err := blobs.SetCORSProperties(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to set CORS rules")
		}
	}

	appLogger.Info("Provisioning completed")
}

func corsRules(cfg config.CORSConfig) []storage.CORSRule {
	if len(cfg.AllowedOrigins) == 0 && len(cfg.AllowedMethods) == 0 {
		return container.DefaultCORSRules
	}
	return []storage.CORSRule{{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: []string{},
		ExposedHeaders: []string{},
		MaxAgeSeconds:  cfg.MaxAgeSeconds,
	}}
}
