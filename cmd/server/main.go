package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/orderdesk/pkg/catalog"
	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/discovery"
	"github.com/example/orderdesk/pkg/inventory"
	"github.com/example/orderdesk/pkg/logger"
	"github.com/example/orderdesk/pkg/notifier"
	"github.com/example/orderdesk/pkg/repository"
	"github.com/example/orderdesk/pkg/store"
	"github.com/example/orderdesk/server"
	"go.uber.org/zap"
)

func main() {
	configPath := "config/server.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting dashboard server",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port),
		zap.String("consistency_mode", cfg.Store.ConsistencyMode))

	// Document store
	mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongoRepo.Close(ctx)
	}()

	// Redis snapshot cache
	redisRepo := repository.NewRedisRepository(&cfg.Redis)
	defer redisRepo.Close()

	// Item catalog
	cat, err := catalog.New(&cfg.MySQL)
	if err != nil {
		log.Fatal("Failed to open catalog", zap.Error(err))
	}

	// Connect to etcd for service discovery
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		log.Fatal("Failed to connect to etcd", zap.Error(err))
	}
	defer sd.Close()

	ctx := context.Background()
	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if err := sd.Register(ctx, instance); err != nil {
		log.Fatal("Failed to register service", zap.Error(err))
	}

	log.Info("Service registered in etcd",
		zap.String("name", cfg.Server.Name),
		zap.String("address", instance.Addr()))

	// Ping dependencies
	if err := mongoRepo.Ping(ctx); err != nil {
		log.Warn("MongoDB ping failed", zap.Error(err))
	} else {
		log.Info("MongoDB connected successfully")
	}
	if err := redisRepo.Ping(ctx); err != nil {
		log.Warn("Redis connection failed", zap.Error(err))
	} else {
		log.Info("Redis connected successfully")
	}

	mode := store.ParseConsistencyMode(cfg.Store.ConsistencyMode)
	sessions := server.NewSessionManager(mongoRepo.Orders(), mongoRepo.Customers(), redisRepo, mode, log)
	inv := inventory.NewService(mongoRepo.Inventory(), log)
	notify := notifier.NewClient(sd, cfg.Notifier.Name, log)

	srv := server.New(cfg, log, sessions, inv, cat, notify)
	srv.SetupRoutes()

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		log.Fatal("Server error", zap.Error(err))
	}

	// Deregister service
	if err := sd.Deregister(ctx, instance); err != nil {
		log.Error("Failed to deregister service", zap.Error(err))
	}

	log.Info("Service stopped")
}
