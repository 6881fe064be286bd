package worker

import (
	"fmt"
	"runtime"
	"time"

	"github.com/jzx17/qops/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// DefaultIdlePollInterval is the sleep between IsIdle observations
	DefaultIdlePollInterval = 100 * time.Microsecond

	// DefaultShutdownPollInterval is the sleep between Destroy observations
	DefaultShutdownPollInterval = time.Millisecond

	// DefaultStartupTimeout bounds how long a failed construction waits for
	// already started workers to exit
	DefaultStartupTimeout = time.Second
)

// PoolConfig defines configuration for a worker pool
type PoolConfig struct {
	// Workers is the number of worker goroutines, clamped to MaxWorkers
	Workers int

	// Policy is the OS scheduling class of every worker
	Policy SchedPolicy

	// Priority is the real-time priority, clamped to [0, MaxPriority]
	Priority int

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger receives lifecycle and task panic events (optional, defaults to
	// a disabled logger)
	Logger *zerolog.Logger

	// IdlePollInterval is the IsIdle polling granularity
	IdlePollInterval time.Duration

	// ShutdownPollInterval is the Destroy polling granularity
	ShutdownPollInterval time.Duration

	// StartupTimeout bounds the rollback wait after a spawn failure
	StartupTimeout time.Duration
}

// DefaultPoolConfig returns default configuration
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		Workers:              runtime.NumCPU(),
		Policy:               SchedTimeSharing,
		Clock:                types.NewRealClock(),
		IdlePollInterval:     DefaultIdlePollInterval,
		ShutdownPollInterval: DefaultShutdownPollInterval,
		StartupTimeout:       DefaultStartupTimeout,
	}
}

// normalize validates the configuration and returns a copy with defaults
// filled in and limits applied
func (c *PoolConfig) normalize() (PoolConfig, error) {
	if c == nil {
		c = DefaultPoolConfig()
	}
	cfg := *c

	if cfg.Workers <= 0 {
		return cfg, fmt.Errorf("%w: worker count must be positive, got %d", types.ErrInvalidArgument, cfg.Workers)
	}
	if !cfg.Policy.valid() {
		return cfg, fmt.Errorf("%w: unknown scheduling policy %d", types.ErrInvalidArgument, int(cfg.Policy))
	}

	cfg.Workers = clampWorkers(cfg.Workers)
	cfg.Priority = clampPriority(cfg.Priority)

	if cfg.Clock == nil {
		cfg.Clock = types.NewRealClock()
	}
	if cfg.Logger == nil {
		nop := zerolog.Nop()
		cfg.Logger = &nop
	}
	if cfg.IdlePollInterval <= 0 {
		cfg.IdlePollInterval = DefaultIdlePollInterval
	}
	if cfg.ShutdownPollInterval <= 0 {
		cfg.ShutdownPollInterval = DefaultShutdownPollInterval
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
	return cfg, nil
}
