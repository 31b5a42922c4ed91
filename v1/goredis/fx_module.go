package goredis

import (
	"context"
	"log"

	"go.uber.org/fx"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// FXModule provides and manages a standalone-Redis factory.
//
// The module:
//  1. Provides the factory through NewFactoryWithDI
//  2. Also provides the factory as driver.Factory for components that only
//     need the vendor-neutral contract
//  3. Invokes the lifecycle registration: ping on start, close on stop
//
// Usage:
//
//	app := fx.New(
//	    goredis.FXModule,
//	    fx.Provide(func() goredis.Config { return loadConfig() }),
//	)
var FXModule = fx.Module("goredis",
	fx.Provide(
		NewFactoryWithDI,
		asDriverFactory,
	),
	fx.Invoke(RegisterFactoryLifecycle),
)

// FactoryParams groups the dependencies needed to create a factory.
type FactoryParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewFactoryWithDI creates a factory from injected dependencies. The
// optional logger and observer are attached when present in the graph.
func NewFactoryWithDI(params FactoryParams) (*Factory, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	factory, err := NewFactory(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		factory.WithObserver(params.Observer)
	}
	return factory, nil
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

// RegisterFactoryLifecycle wires the factory into the fx lifecycle:
// the start hook pings the server so a dead deployment fails the boot, the
// stop hook closes the underlying client.
func RegisterFactoryLifecycle(params FactoryLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			conn, err := params.Factory.Conn(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Ping(ctx); err != nil {
				log.Printf("WARN: failed to ping Redis on startup: %v", err)
				return err
			}
			log.Println("INFO: goredis factory started and healthy")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("INFO: shutting down goredis factory")
			return params.Factory.Close()
		},
	})
}

// ClusterFXModule provides and manages a Redis Cluster factory.
var ClusterFXModule = fx.Module("goredis-cluster",
	fx.Provide(
		NewClusterFactoryWithDI,
		asDriverFactory,
	),
	fx.Invoke(RegisterFactoryLifecycle),
)

// ClusterFactoryParams groups the dependencies for a cluster factory.
type ClusterFactoryParams struct {
	fx.In

	Config   ClusterConfig
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClusterFactoryWithDI creates a cluster factory from injected
// dependencies.
func NewClusterFactoryWithDI(params ClusterFactoryParams) (*Factory, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	factory, err := NewClusterFactory(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		factory.WithObserver(params.Observer)
	}
	return factory, nil
}

// FailoverFXModule provides and manages a Redis Sentinel factory.
var FailoverFXModule = fx.Module("goredis-failover",
	fx.Provide(
		NewFailoverFactoryWithDI,
		asDriverFactory,
	),
	fx.Invoke(RegisterFactoryLifecycle),
)

// FailoverFactoryParams groups the dependencies for a sentinel factory.
type FailoverFactoryParams struct {
	fx.In

	Config   FailoverConfig
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewFailoverFactoryWithDI creates a sentinel factory from injected
// dependencies.
func NewFailoverFactoryWithDI(params FailoverFactoryParams) (*Factory, error) {
	if params.Logger != nil {
		params.Config.Logger = params.Logger
	}
	factory, err := NewFailoverFactory(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		factory.WithObserver(params.Observer)
	}
	return factory, nil
}
