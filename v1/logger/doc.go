// Package logger provides structured logging for the redisbridge packages.
//
// The package wraps Uber's Zap logger behind a small method set (Debug,
// Info, Warn, Error, Fatal) that every other package in this module
// accepts as its optional Logger dependency. It integrates with the fx
// dependency injection framework and, when tracing is enabled, stamps log
// entries with the active OpenTelemetry trace and span IDs.
//
// # Direct Usage (Without FX)
//
// For simple applications or tests, create a logger directly:
//
//	import "github.com/bridgekit-io/redisbridge/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       "info",
//		ServiceName: "checkout",
//	})
//
//	log.Info("User logged in", nil, map[string]interface{}{
//		"user_id": "12345",
//		"ip":      "192.168.1.1",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{
//				Level:         "info",
//				EnableTracing: true,
//				ServiceName:   "checkout",
//			}
//		}),
//		// ... other modules
//	)
//	app.Run()
//
// # Tracing Integration
//
// When EnableTracing is set, the *WithContext logging methods extract the
// trace and span IDs from the context and add them as trace_id / span_id
// fields, correlating log entries with distributed traces:
//
//	log.InfoWithContext(ctx, "Processing request", nil, map[string]interface{}{
//		"request_id": "abc-123",
//	})
//
// # Configuration
//
// The logger can be configured via environment variables:
//
//	ZAP_LOGGER_LEVEL=debug               # Log level (debug, info, warning, error)
//	ZAP_LOGGER_ENABLE_TRACING=true       # Enable distributed tracing integration
//
// # Thread Safety
//
// All logging methods are safe for concurrent use by multiple goroutines.
package logger
