package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "TASKPOOL"

// RegisterFlags binds the configuration fields to fs. The current field
// values are used as flag defaults.
func RegisterFlags(fs *pflag.FlagSet, c *Configuration) {
	fs.IntVar(&c.Pool.Workers, "workers", c.Pool.Workers, "Number of pool workers")
	fs.DurationVar(&c.Pool.DrainInitialInterval, "drain-initial-interval", c.Pool.DrainInitialInterval, "First pause between empty polls while draining")
	fs.DurationVar(&c.Pool.DrainMaxInterval, "drain-max-interval", c.Pool.DrainMaxInterval, "Longest pause between empty polls while draining")

	fs.StringSliceVar(&c.Workload.Names, "workloads", c.Workload.Names, "Workloads to run: sum, serial, sync, once, futures")
	fs.IntVar(&c.Workload.Tasks, "tasks", c.Workload.Tasks, "Number of tasks of the sum, sync and futures workloads")
	fs.IntVar(&c.Workload.Producers, "producers", c.Workload.Producers, "Number of concurrent producers")
	fs.IntVar(&c.Workload.BatchSize, "batch-size", c.Workload.BatchSize, "Size of each serial batch")
	fs.IntVar(&c.Workload.OnceCallers, "once-callers", c.Workload.OnceCallers, "Number of goroutines sharing one once gate")
	fs.DurationVar(&c.Workload.Timeout, "timeout", c.Workload.Timeout, "Maximum time to wait for a continuation")

	fs.BoolVar(&c.Metrics.Enabled, "metrics", c.Metrics.Enabled, "Serve prometheus metrics while running")
	fs.IntVar(&c.Metrics.Port, "metrics-port", c.Metrics.Port, "Metrics listen port")
	fs.DurationVar(&c.Metrics.Linger, "metrics-linger", c.Metrics.Linger, "Keep serving metrics this long after the run")

	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: console or json")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level")
}

// NewViper returns a viper instance reading TASKPOOL_* environment
// variables for the flags of fs.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

// ApplyEnv copies values found by v into the flags the user did not set on
// the command line. Flags always win over the environment.
func ApplyEnv(fs *pflag.FlagSet, v *viper.Viper) error {
	var firstErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if firstErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, v.GetString(f.Name)); err != nil {
			firstErr = err
		}
	})
	return firstErr
}
