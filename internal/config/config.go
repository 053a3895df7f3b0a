package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPorts     = "top"
	DefaultWorkers   = 50
	DefaultTimeoutMs = 500
	DefaultLogLevel  = "info"
)

type Config struct {
	// Ports is used when the caller gives no port list. Accepts a port list
	// or one of the keywords resolved by the scan package ("top", "all").
	Ports string `yaml:"ports"`

	// Workers bounds the number of probes in flight. Each in-flight probe
	// holds one socket and one ephemeral port.
	Workers int `yaml:"workers"`

	TimeoutMs      int `yaml:"timeout_ms"`
	ScanDeadlineMs int `yaml:"scan_deadline_ms"`

	ExcludeNetworkBroadcast bool     `yaml:"exclude_network_broadcast"`
	Exclude                 []string `yaml:"exclude"`

	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.ScanDeadlineMs < 0 {
		return nil, fmt.Errorf("scan_deadline_ms must not be negative")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Ports == "" {
		c.Ports = DefaultPorts
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// ScanDeadline is zero when the scan has no global deadline.
func (c *Config) ScanDeadline() time.Duration {
	return time.Duration(c.ScanDeadlineMs) * time.Millisecond
}
