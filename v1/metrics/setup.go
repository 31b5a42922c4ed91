package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing command metrics.
//
// Beyond the built-in command instruments, the dynamic factories allow
// applications to register their own metrics in the same registry so a
// single /metrics endpoint serves everything.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric
	// name collisions.
	Registry *prometheus.Registry

	// Built-in command instruments, fed by the observer.
	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	batchSize       *prometheus.HistogramVec
}

// NewMetrics initializes and returns a new instance of the Metrics struct.
// It sets up a dedicated Prometheus registry, registers the command
// instruments and (optionally) the default system collectors, wraps all
// metrics with a constant `service` label, and creates an HTTP server
// exposing the /metrics endpoint.
//
// The built-in instruments:
//   - redisbridge_commands_total{backend, command, status}
//   - redisbridge_command_duration_seconds{backend, command}
//   - redisbridge_batch_size{backend, operation}
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    ServiceName:             "checkout",
//	    EnableDefaultCollectors: true,
//	})
//	go m.Server.ListenAndServe()
//
// Access metrics at: http://localhost:9090/metrics
func NewMetrics(cfg Config) *Metrics {
	if cfg.Address == "" {
		cfg.Address = DefaultMetricsAddress
	}

	// A new isolated registry per service avoids metric collisions when
	// multiple services run in the same process.
	registry := prometheus.NewRegistry()

	// All metrics emitted by this service automatically include the label
	// service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.commandsTotal = createCounterVec(
		"redisbridge_commands_total",
		"Total number of executed commands by backend, command, and status",
		[]string{"backend", "command", "status"},
	)
	m.commandDuration = createHistogramVec(
		"redisbridge_command_duration_seconds",
		"Duration of command round trips in seconds",
		[]string{"backend", "command"},
		prometheus.DefBuckets,
	)
	m.batchSize = createHistogramVec(
		"redisbridge_batch_size",
		"Number of commands per flushed pipeline or transaction",
		[]string{"backend", "operation"},
		[]float64{1, 2, 5, 10, 25, 50, 100, 250},
	)

	wrappedRegistry.MustRegister(
		m.commandsTotal,
		m.commandDuration,
		m.batchSize,
	)

	// Standard collectors provide essential runtime metrics for Go
	// processes: memory usage, goroutines, GC stats, CPU, file
	// descriptors, and binary build info.
	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}
	return m
}
