package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	EnvWorkerCount        = "TALUS_WORKER_COUNT"
	EnvWorkerPollInterval = "TALUS_WORKER_POLL_INTERVAL"
	EnvWorkerLease        = "TALUS_WORKER_LEASE"
	EnvWorkerReapSchedule = "TALUS_WORKER_REAP_SCHEDULE"
	EnvWorkerReapTimeout  = "TALUS_WORKER_REAP_TIMEOUT"
)

// WorkerConfig holds the ingestion worker pool and lease reaper parameters.
type WorkerConfig struct {
	Count        int    `toml:"count"`
	PollInterval string `toml:"poll_interval"`
	Lease        string `toml:"lease"`
	ReapSchedule string `toml:"reap_schedule"`
	ReapTimeout  string `toml:"reap_timeout"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *WorkerConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// LeaseDuration returns Lease as a time.Duration.
func (c *WorkerConfig) LeaseDuration() time.Duration {
	d, _ := time.ParseDuration(c.Lease)
	return d
}

// ReapTimeoutDuration returns ReapTimeout as a time.Duration.
func (c *WorkerConfig) ReapTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReapTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkerConfig) Merge(overlay *WorkerConfig) {
	if overlay.Count != 0 {
		c.Count = overlay.Count
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Lease != "" {
		c.Lease = overlay.Lease
	}
	if overlay.ReapSchedule != "" {
		c.ReapSchedule = overlay.ReapSchedule
	}
	if overlay.ReapTimeout != "" {
		c.ReapTimeout = overlay.ReapTimeout
	}
}

func (c *WorkerConfig) loadDefaults() {
	if c.Count == 0 {
		c.Count = 4
	}
	if c.PollInterval == "" {
		c.PollInterval = "5s"
	}
	if c.Lease == "" {
		c.Lease = "5m"
	}
	if c.ReapSchedule == "" {
		c.ReapSchedule = "* * * * *"
	}
	if c.ReapTimeout == "" {
		c.ReapTimeout = "30s"
	}
}

func (c *WorkerConfig) loadEnv() {
	if v := os.Getenv(EnvWorkerCount); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Count = n
		}
	}
	if v := os.Getenv(EnvWorkerPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvWorkerLease); v != "" {
		c.Lease = v
	}
	if v := os.Getenv(EnvWorkerReapSchedule); v != "" {
		c.ReapSchedule = v
	}
	if v := os.Getenv(EnvWorkerReapTimeout); v != "" {
		c.ReapTimeout = v
	}
}

func (c *WorkerConfig) validate() error {
	if c.Count < 1 {
		return fmt.Errorf("invalid worker count: %d", c.Count)
	}
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Lease); err != nil {
		return fmt.Errorf("invalid lease: %w", err)
	}
	if _, err := cron.ParseStandard(c.ReapSchedule); err != nil {
		return fmt.Errorf("invalid reap_schedule: %w", err)
	}
	if _, err := time.ParseDuration(c.ReapTimeout); err != nil {
		return fmt.Errorf("invalid reap_timeout: %w", err)
	}
	return nil
}
