package logger

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides the logger to an fx application and flushes it on
// shutdown. A logger.Config must be available in the graph.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config { return loadLoggerConfig() }),
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle syncs the underlying Zap logger on application
// stop so buffered entries reach their destination. Invoked by FXModule,
// not called directly.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Zap.Sync()
		},
	})
}
