package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Env variable names.
const (
	envGRPCPort            = "SERVICE_PORT_GRPC"
	envHTTPPort            = "SERVICE_PORT_HTTP"
	envRedisAddr           = "REDIS_ADDR"
	envConfigPath          = "CONFIG_PATH"
	envServicePortBase     = "SERVICE_PORT_BASE"
	envHeartbeatPortBase   = "HEARTBEAT_PORT_BASE"
	envHeartbeatIntervalMs = "HEARTBEAT_INTERVAL_MS"
	envHeartbeatTimeoutMs  = "HEARTBEAT_TIMEOUT_MS"
)

// Defaults applied when neither the YAML file nor the environment sets a value.
const (
	defaultHTTPPort            = 8080
	defaultServicePortBase     = 21000
	defaultHeartbeatPortBase   = 25000
	defaultHeartbeatIntervalMs = 1000
	defaultHeartbeatTimeoutMs  = 500
)

// Config holds the registry configuration loaded by LoadConfig.
// GRPCPort serves the registration API, HTTPPort the admin API; RedisAddr enables the export of
// live services when set.
type Config struct {
	GRPCPort          int
	HTTPPort          int
	RedisAddr         string
	ServicePortBase   uint16
	HeartbeatPortBase uint16
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
	ExportTTLMs       int
}

// yamlConfig is the root struct of the optional YAML file. Unset keys keep their defaults.
type yamlConfig struct {
	ServicePortBase     *int `yaml:"service_port_base"`
	HeartbeatPortBase   *int `yaml:"heartbeat_port_base"`
	HeartbeatIntervalMs *int `yaml:"heartbeat_interval_ms"`
	HeartbeatTimeoutMs  *int `yaml:"heartbeat_timeout_ms"`
	ExportTTLMs         *int `yaml:"export_ttl_ms"`
}

func loadYAMLConfig(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out yamlConfig
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadConfig builds the registry config from the YAML file at CONFIG_PATH (optional) and the
// environment, the environment taking precedence. Reads SERVICE_PORT_GRPC (required, 1-65535),
// SERVICE_PORT_HTTP (default 8080), REDIS_ADDR (optional), SERVICE_PORT_BASE, HEARTBEAT_PORT_BASE,
// HEARTBEAT_INTERVAL_MS and HEARTBEAT_TIMEOUT_MS.
//
// Returns: (*Config, nil) on success; (nil, error) on an invalid port, a non-positive duration or
// a YAML read/parse error.
//
// Called only from main at startup.
func LoadConfig() (*Config, error) {
	grpcPortStr := strings.TrimSpace(os.Getenv(envGRPCPort))
	grpcPort, err := strconv.Atoi(grpcPortStr)
	if err != nil || grpcPortStr == "" {
		return nil, fmt.Errorf("%s must be a valid port (1-65535)", envGRPCPort)
	}
	if grpcPort <= 0 || grpcPort > math.MaxUint16 {
		return nil, fmt.Errorf("%s must be 1-65535, got %d", envGRPCPort, grpcPort)
	}

	httpPort, err := envInt(envHTTPPort, defaultHTTPPort)
	if err != nil {
		return nil, err
	}
	if httpPort <= 0 || httpPort > math.MaxUint16 {
		return nil, fmt.Errorf("%s must be 1-65535, got %d", envHTTPPort, httpPort)
	}

	servicePortBase := defaultServicePortBase
	heartbeatPortBase := defaultHeartbeatPortBase
	intervalMs := defaultHeartbeatIntervalMs
	timeoutMs := defaultHeartbeatTimeoutMs
	exportTTLMs := 0

	if configPath := strings.TrimSpace(os.Getenv(envConfigPath)); configPath != "" {
		if !filepath.IsAbs(configPath) {
			abs, absErr := filepath.Abs(configPath)
			if absErr != nil {
				return nil, absErr
			}
			configPath = abs
		}
		raw, err := loadYAMLConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", configPath, err)
		}
		override(&servicePortBase, raw.ServicePortBase)
		override(&heartbeatPortBase, raw.HeartbeatPortBase)
		override(&intervalMs, raw.HeartbeatIntervalMs)
		override(&timeoutMs, raw.HeartbeatTimeoutMs)
		override(&exportTTLMs, raw.ExportTTLMs)
	}

	if servicePortBase, err = envInt(envServicePortBase, servicePortBase); err != nil {
		return nil, err
	}
	if heartbeatPortBase, err = envInt(envHeartbeatPortBase, heartbeatPortBase); err != nil {
		return nil, err
	}
	if intervalMs, err = envInt(envHeartbeatIntervalMs, intervalMs); err != nil {
		return nil, err
	}
	if timeoutMs, err = envInt(envHeartbeatTimeoutMs, timeoutMs); err != nil {
		return nil, err
	}

	if servicePortBase <= 0 || servicePortBase > math.MaxUint16 {
		return nil, fmt.Errorf("service_port_base must be 1-65535, got %d", servicePortBase)
	}
	if heartbeatPortBase <= 0 || heartbeatPortBase > math.MaxUint16 {
		return nil, fmt.Errorf("heartbeat_port_base must be 1-65535, got %d", heartbeatPortBase)
	}
	if intervalMs <= 0 {
		return nil, fmt.Errorf("heartbeat_interval_ms must be positive, got %d", intervalMs)
	}
	if timeoutMs <= 0 {
		return nil, fmt.Errorf("heartbeat_timeout_ms must be positive, got %d", timeoutMs)
	}
	if exportTTLMs < 0 {
		return nil, fmt.Errorf("export_ttl_ms must not be negative, got %d", exportTTLMs)
	}

	return &Config{
		GRPCPort:          grpcPort,
		HTTPPort:          httpPort,
		RedisAddr:         strings.TrimSpace(os.Getenv(envRedisAddr)),
		ServicePortBase:   uint16(servicePortBase),
		HeartbeatPortBase: uint16(heartbeatPortBase),
		HeartbeatInterval: time.Duration(intervalMs) * time.Millisecond,
		HeartbeatTimeout:  time.Duration(timeoutMs) * time.Millisecond,
		ExportTTLMs:       exportTTLMs,
	}, nil
}

// envInt returns the integer value of env variable name, or def when it is unset.
func envInt(name string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(name))
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", name, s)
	}
	return v, nil
}

func override(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
