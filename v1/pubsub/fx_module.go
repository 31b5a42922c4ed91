package pubsub

import (
	"context"

	"go.uber.org/fx"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// FXModule provides a Container over whichever driver.Factory is in the
// graph and binds it to the application lifecycle. Handlers are
// registered through an fx.Invoke before the application starts:
//
//	app := fx.New(
//	    goredis.FXModule,
//	    pubsub.FXModule,
//	    fx.Provide(func() goredis.Config { return loadConfig() }),
//	    fx.Invoke(func(c *pubsub.Container) {
//	        c.Handle(handleOrder, "orders")
//	    }),
//	)
var FXModule = fx.Module("pubsub",
	fx.Provide(NewContainerWithDI),
	fx.Invoke(RegisterContainerLifecycle),
)

// ContainerParams groups the dependencies needed to create a container.
type ContainerParams struct {
	fx.In

	Factory driver.Factory
	Logger  Logger `optional:"true"`
}

// NewContainerWithDI creates a container from injected dependencies.
func NewContainerWithDI(params ContainerParams) *Container {
	container := NewContainer(params.Factory)
	if params.Logger != nil {
		container.WithLogger(params.Logger)
	}
	return container
}

// RegisterContainerLifecycle starts the container with the application and
// stops it on shutdown.
func RegisterContainerLifecycle(lc fx.Lifecycle, container *Container) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return container.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return container.Stop()
		},
	})
}
