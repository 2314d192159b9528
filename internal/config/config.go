package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"
)

// Workload names understood by the runner.
const (
	WorkloadSum     = "sum"
	WorkloadSerial  = "serial"
	WorkloadSync    = "sync"
	WorkloadOnce    = "once"
	WorkloadFutures = "futures"
)

var KnownWorkloads = []string{WorkloadSum, WorkloadSerial, WorkloadSync, WorkloadOnce, WorkloadFutures}

type Configuration struct {
	Pool      Pool
	Workload  Workload
	Metrics   Metrics
	LogFormat string `default:"console" debugmap:"visible"`
	LogLevel  string `default:"info" debugmap:"visible"`
}

type Pool struct {
	Workers              int           `default:"8" debugmap:"visible"`
	DrainInitialInterval time.Duration `default:"50us" debugmap:"visible"`
	DrainMaxInterval     time.Duration `default:"5ms" debugmap:"visible"`
}

type Workload struct {
	Names       []string      `default:"[\"sum\",\"serial\",\"sync\",\"once\",\"futures\"]" debugmap:"visible"`
	Tasks       int           `default:"4000" debugmap:"visible"`
	Producers   int           `default:"4" debugmap:"visible"`
	BatchSize   int           `default:"1000" debugmap:"visible"`
	OnceCallers int           `default:"16" debugmap:"visible"`
	Timeout     time.Duration `default:"30s" debugmap:"visible"`
}

type Metrics struct {
	Enabled bool          `default:"false" debugmap:"visible"`
	Port    int           `default:"9090" debugmap:"visible"`
	Linger  time.Duration `default:"0s" debugmap:"visible"`
}

// NewConfigurationWithDefaults returns a configuration populated from the
// default struct tags.
func NewConfigurationWithDefaults() *Configuration {
	c := &Configuration{}
	defaults.MustSet(c)
	return c
}

func (c *Configuration) Validate() error {
	var errs []error

	if c.Pool.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Pool.Workers))
	}
	if c.Pool.DrainInitialInterval <= 0 || c.Pool.DrainMaxInterval < c.Pool.DrainInitialInterval {
		errs = append(errs, fmt.Errorf("invalid drain backoff [%s, %s]", c.Pool.DrainInitialInterval, c.Pool.DrainMaxInterval))
	}
	if len(c.Workload.Names) == 0 {
		errs = append(errs, errors.New("no workload selected"))
	}
	for _, n := range c.Workload.Names {
		if !slices.Contains(KnownWorkloads, n) {
			errs = append(errs, fmt.Errorf("unknown workload %q", n))
		}
	}
	if c.Workload.Tasks <= 0 || c.Workload.Producers <= 0 || c.Workload.BatchSize <= 0 || c.Workload.OnceCallers <= 0 {
		errs = append(errs, errors.New("workload sizes must be positive"))
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		errs = append(errs, fmt.Errorf("invalid metrics port %d", c.Metrics.Port))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q: must be 'console' or 'json'", c.LogFormat))
	}

	return errors.Join(errs...)
}

// DebugMap returns the configuration as a flat map suitable for logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"workers":                c.Pool.Workers,
		"drain_initial_interval": c.Pool.DrainInitialInterval.String(),
		"drain_max_interval":     c.Pool.DrainMaxInterval.String(),
		"workloads":              c.Workload.Names,
		"tasks":                  c.Workload.Tasks,
		"producers":              c.Workload.Producers,
		"batch_size":             c.Workload.BatchSize,
		"once_callers":           c.Workload.OnceCallers,
		"timeout":                c.Workload.Timeout.String(),
		"metrics_enabled":        c.Metrics.Enabled,
		"metrics_port":           c.Metrics.Port,
		"metrics_linger":         c.Metrics.Linger.String(),
		"log_format":             c.LogFormat,
		"log_level":              c.LogLevel,
	}
}
