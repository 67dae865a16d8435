package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional file-based configuration. The file covers
// tuning knobs; endpoints and credentials come from the environment.
type Config struct {
	Server struct {
		ShutdownGraceSecs int `yaml:"shutdown_grace_secs"`
	} `yaml:"server"`
	Outbox struct {
		PollIntervalSecs int `yaml:"poll_interval_secs"`
		BatchSize        int `yaml:"batch_size"`
		MaxRetries       int `yaml:"max_retries"`
	} `yaml:"outbox"`
}

func defaultConfig() *Config {
	var c Config
	c.Server.ShutdownGraceSecs = 10
	c.Outbox.PollIntervalSecs = 5
	c.Outbox.BatchSize = 100
	c.Outbox.MaxRetries = 3
	return &c
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func (c *Config) shutdownGrace() time.Duration {
	return time.Duration(c.Server.ShutdownGraceSecs) * time.Second
}

func (c *Config) outboxPollInterval() time.Duration {
	return time.Duration(c.Outbox.PollIntervalSecs) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
