// Package config defines the configuration of the taskpool workload runner.
//
// Values come from three layers. Struct tag defaults are applied first, then
// TASKPOOL_* environment variables, then command line flags.
//
// # Configuration Structure
//
//	Configuration
//	├── Pool           - Worker count and drain backoff
//	├── Workload       - Which workloads run and how large they are
//	├── Metrics        - Prometheus endpoint settings
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Pool Configuration
//
//	┌──────────────────────┬─────────┬──────────────────────────────────────┐
//	│ Field                │ Default │ Description                          │
//	├──────────────────────┼─────────┼──────────────────────────────────────┤
//	│ Workers              │ 8       │ Fixed number of pool workers         │
//	│ DrainInitialInterval │ 50us    │ First pause between empty polls      │
//	│ DrainMaxInterval     │ 5ms     │ Pause ceiling while draining         │
//	└──────────────────────┴─────────┴──────────────────────────────────────┘
//
// # Workload Configuration
//
//	┌─────────────┬──────────────┬──────────────────────────────────────────┐
//	│ Field       │ Default      │ Description                              │
//	├─────────────┼──────────────┼──────────────────────────────────────────┤
//	│ Names       │ all five     │ sum, serial, sync, once, futures         │
//	│ Tasks       │ 4000         │ Tasks per sum, sync and futures run      │
//	│ Producers   │ 4            │ Concurrent dispatching goroutines        │
//	│ BatchSize   │ 1000         │ Size of each serial batch                │
//	│ OnceCallers │ 16           │ Goroutines racing on one once gate       │
//	│ Timeout     │ 30s          │ Wait limit for continuations             │
//	└─────────────┴──────────────┴──────────────────────────────────────────┘
//
// # Metrics Configuration
//
//	┌─────────┬─────────┬────────────────────────────────────────────────────┐
//	│ Field   │ Default │ Description                                        │
//	├─────────┼─────────┼────────────────────────────────────────────────────┤
//	│ Enabled │ false   │ Serve /metrics while the workloads run             │
//	│ Port    │ 9090    │ Listen port                                        │
//	│ Linger  │ 0s      │ Keep serving after the run so it can be scraped    │
//	└─────────┴─────────┴────────────────────────────────────────────────────┘
//
// # Logging Configuration
//
//	┌───────────┬───────────┬───────────────────────────────────────────────┐
//	│ Field     │ Default   │ Description                                   │
//	├───────────┼───────────┼───────────────────────────────────────────────┤
//	│ LogFormat │ "console" │ "console" or "json"                           │
//	│ LogLevel  │ "info"    │ debug, info, warn, error                      │
//	└───────────┴───────────┴───────────────────────────────────────────────┘
//
// # Environment
//
// Every flag has an environment counterpart: the flag name upper-cased,
// dashes replaced by underscores and prefixed with TASKPOOL_. For example
// --batch-size maps to TASKPOOL_BATCH_SIZE. A flag given on the command line
// overrides the environment.
//
// # Usage
//
//	cfg := config.NewConfigurationWithDefaults()
//	config.RegisterFlags(cmd.Flags(), cfg)
//	v, _ := config.NewViper(cmd.Flags())
//	_ = config.ApplyEnv(cmd.Flags(), v)
//	if err := cfg.Validate(); err != nil { ... }
package config
