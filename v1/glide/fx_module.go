package glide

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// FXModule provides a GLIDE-backed factory. The application supplies the
// constructed GLIDE client (as Commands) through the graph, keeping
// GLIDE's own configuration in the application's hands.
//
// Usage:
//
//	app := fx.New(
//	    glide.FXModule,
//	    fx.Provide(func() (glide.Commands, error) {
//	        return glidelib.NewClient(cfg)
//	    }),
//	)
var FXModule = fx.Module("glide",
	fx.Provide(
		NewFactoryWithDI,
		asDriverFactory,
	),
	fx.Invoke(RegisterFactoryLifecycle),
)

// FactoryParams groups the dependencies needed to create a factory.
type FactoryParams struct {
	fx.In

	Client   Commands
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewFactoryWithDI creates a factory from injected dependencies. The
// optional logger and observer are attached when present in the graph.
func NewFactoryWithDI(params FactoryParams) *Factory {
	factory := NewFactory(params.Client)
	if params.Logger != nil {
		factory.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		factory.WithObserver(params.Observer)
	}
	return factory
}

func asDriverFactory(f *Factory) driver.Factory {
	return f
}

// FactoryLifecycleParams groups the lifecycle dependencies.
type FactoryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Factory   *Factory
}

// RegisterFactoryLifecycle wires the factory into the fx lifecycle: ping
// on start so a dead deployment fails the boot, close on stop.
func RegisterFactoryLifecycle(params FactoryLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			conn, err := params.Factory.Conn(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Ping(ctx); err != nil {
				log.Printf("WARN: failed to ping server on startup: %v", err)
				return err
			}
			log.Println("INFO: glide factory started and healthy")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down glide factory")
			return params.Factory.Close()
		},
	})
}
