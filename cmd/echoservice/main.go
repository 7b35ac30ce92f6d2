package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"myregistry/container"
	"myregistry/domain"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"registry_addr", config.RegistryAddr,
		"service_id", config.ServiceID,
		"heartbeat_interval", config.HeartbeatInterval,
	)

	executor := newEchoExecutor(domain.ServiceID(config.ServiceID), config.Meta, logger)
	c, err := container.New(container.Config{
		RegistryAddr:      config.RegistryAddr,
		HeartbeatInterval: config.HeartbeatInterval,
	}, executor, logger)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to create container", "err", err)
		os.Exit(1)
	}

	if err := c.Start(context.Background()); err != nil {
		level.Error(logger).Log("msg", "Failed to register", "err", err)
		c.Stop()
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	level.Info(logger).Log("msg", "Shutting down...")
	c.Stop()
}
