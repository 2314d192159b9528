// Package server exposes the pool metrics over HTTP while the workload runner
// is active.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                      Metrics Server (gin)                     │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  ginzap.Ginzap (request logging, "http" logger)         │  │
//	│  │  ginzap.RecoveryWithZap (panic recovery with stack)     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│                            Routes                             │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  GET /metrics  promhttp.HandlerFor(gatherer)            │  │
//	│  │  GET /health   {"status":"ok"}                          │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Lifecycle
//
//	srv := server.NewServer(cfg.Metrics.Port, registry)
//
//	go func() {
//	    if err := srv.Start(ctx); err != nil {
//	        zap.S().Errorw("metrics server failed", "error", err)
//	    }
//	}()
//
//	// later
//	srv.Stop(ctx)
//
// Start returns nil once Stop has been called. Stop waits for in-flight
// scrapes to complete.
package server
