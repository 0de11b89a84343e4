package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/orderdesk/pkg/config"
	"github.com/example/orderdesk/pkg/discovery"
	"github.com/example/orderdesk/pkg/logger"
	"github.com/example/orderdesk/pkg/notifier"
	"go.uber.org/zap"
)

func main() {
	configPath := "config/notifier.yaml"
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

	log.Info("Starting notifier",
		zap.String("name", cfg.Notifier.Name),
		zap.Int("port", cfg.Notifier.Port))

	sender := notifier.NewWhatsappSender(&cfg.Notifier, log)
	svc := notifier.NewService(&cfg.Notifier, log, sender)

	// Connect to etcd for service discovery
	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd)
	if err != nil {
		log.Fatal("Failed to connect to etcd", zap.Error(err))
	}
	defer sd.Close()

	ctx := context.Background()
	instance := &discovery.ServiceInstance{
		Name: cfg.Notifier.Name,
		Host: cfg.Notifier.Host,
		Port: cfg.Notifier.Port,
	}
	if err := sd.Register(ctx, instance); err != nil {
		log.Fatal("Failed to register service", zap.Error(err))
	}

	log.Info("Service registered in etcd",
		zap.String("name", cfg.Notifier.Name),
		zap.String("address", instance.Addr()))

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := svc.Start(); err != nil {
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
