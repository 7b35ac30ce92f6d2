package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Env variable names.
const (
	envRegistryAddr        = "REGISTRY_ADDR"
	envServiceID           = "SERVICE_ID"
	envHeartbeatIntervalMs = "HEARTBEAT_INTERVAL_MS"
	envServiceMeta         = "SERVICE_META"
)

// Three probe intervals of a registry running with its default heartbeat_interval_ms.
const defaultHeartbeatIntervalMs = 3000

// Config of the echo service.
type Config struct {
	RegistryAddr      string
	ServiceID         uint64
	HeartbeatInterval time.Duration
	Meta              string
}

// LoadConfig reads REGISTRY_ADDR (required), SERVICE_ID (required, unsigned integer),
// HEARTBEAT_INTERVAL_MS (default 3000, the registry silence tolerated before resuming; keep it
// above the registry probe interval) and SERVICE_META (optional).
func LoadConfig() (*Config, error) {
	registryAddr := strings.TrimSpace(os.Getenv(envRegistryAddr))
	if registryAddr == "" {
		return nil, fmt.Errorf("%s is required", envRegistryAddr)
	}

	serviceIDStr := strings.TrimSpace(os.Getenv(envServiceID))
	if serviceIDStr == "" {
		return nil, fmt.Errorf("%s is required", envServiceID)
	}
	serviceID, err := strconv.ParseUint(serviceIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an unsigned integer, got %q", envServiceID, serviceIDStr)
	}

	intervalMs := defaultHeartbeatIntervalMs
	if s := strings.TrimSpace(os.Getenv(envHeartbeatIntervalMs)); s != "" {
		intervalMs, err = strconv.Atoi(s)
		if err != nil || intervalMs <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer (ms), got %q", envHeartbeatIntervalMs, s)
		}
	}

	return &Config{
		RegistryAddr:      registryAddr,
		ServiceID:         serviceID,
		HeartbeatInterval: time.Duration(intervalMs) * time.Millisecond,
		Meta:              strings.TrimSpace(os.Getenv(envServiceMeta)),
	}, nil
}
