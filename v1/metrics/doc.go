// Package metrics exposes Prometheus metrics for the redisbridge backends.
//
// The Metrics type owns an isolated Prometheus registry and an HTTP server
// serving the /metrics endpoint. It implements observability.Observer, so
// attaching it to a backend factory records every direct command and batch
// flush into three built-in instruments:
//
//   - redisbridge_commands_total{backend, command, status}
//   - redisbridge_command_duration_seconds{backend, command}
//   - redisbridge_batch_size{backend, operation}
//
// All metrics additionally carry a constant service label.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:     ":9090",
//		ServiceName: "checkout",
//	})
//	go m.Server.ListenAndServe()
//
//	factory, err := goredis.NewFactory(cfg)
//	if err != nil {
//		return err
//	}
//	factory.WithObserver(m)
//
// # FX Module Integration
//
// The FXModule provides the instance both as *Metrics and as
// observability.Observer; the backend modules consume the observer
// automatically when both modules are in the graph:
//
//	app := fx.New(
//		metrics.FXModule,
//		goredis.FXModule,
//		fx.Provide(func() metrics.Config { return metrics.Config{ServiceName: "checkout"} }),
//		fx.Provide(func() goredis.Config { return loadRedisConfig() }),
//	)
//
// # Custom Metrics
//
// The dynamic factories register application metrics in the same registry
// so one endpoint serves everything:
//
//	hits := m.CreateCounter("cache_hits_total", "Cache hits", []string{"tier"})
//	hits.WithLabelValues("session").Inc()
package metrics
