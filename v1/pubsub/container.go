package pubsub

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// Handler processes one delivered message.
type Handler func(ctx context.Context, msg driver.Message)

// Logger receives structured diagnostics from the container. Satisfied by
// the redisbridge zap logger.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// registration binds a handler to its channels or patterns.
type registration struct {
	handler  Handler
	targets  []string
	patterns bool
}

// Container manages pub/sub listeners over a subscribing factory.
type Container struct {
	factory driver.Factory
	logger  Logger

	mu            sync.Mutex
	registrations []registration
	subscriptions []driver.Subscription
	group         *errgroup.Group
	cancel        context.CancelFunc
	running       bool
}

// NewContainer creates a stopped container over factory.
func NewContainer(factory driver.Factory) *Container {
	return &Container{factory: factory}
}

// WithLogger attaches a structured logger. Returns the container for
// chaining.
func (c *Container) WithLogger(logger Logger) *Container {
	c.logger = logger
	return c
}

// Handle registers handler for the given channels. Must be called before
// Start.
func (c *Container) Handle(handler Handler, channels ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, registration{handler: handler, targets: channels})
}

// HandlePattern registers handler for the given patterns. Must be called
// before Start.
func (c *Container) HandlePattern(handler Handler, patterns ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registrations = append(c.registrations, registration{handler: handler, targets: patterns, patterns: true})
}

// Start opens one subscription per registration and begins dispatching.
// It returns driver.ErrNotSupported when the factory cannot subscribe,
// and an error when the container is already running.
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return errors.New("pubsub: container already running")
	}

	subscriber, ok := c.factory.(driver.Subscriber)
	if !ok {
		return driver.ErrNotSupported
	}

	runCtx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(runCtx)

	var opened []driver.Subscription
	for _, reg := range c.registrations {
		var sub driver.Subscription
		var err error
		if reg.patterns {
			sub, err = subscriber.PSubscribe(ctx, reg.targets...)
		} else {
			sub, err = subscriber.Subscribe(ctx, reg.targets...)
		}
		if err != nil {
			cancel()
			for _, s := range opened {
				s.Close()
			}
			return err
		}
		opened = append(opened, sub)

		reg := reg
		group.Go(func() error {
			c.dispatch(groupCtx, sub, reg.handler)
			return nil
		})
	}

	c.subscriptions = opened
	c.group = group
	c.cancel = cancel
	c.running = true

	c.logInfo("pubsub container started", map[string]interface{}{
		"listener_count": len(opened),
	})
	return nil
}

// dispatch feeds messages of one subscription to its handler until the
// subscription closes or the container stops.
func (c *Container) dispatch(ctx context.Context, sub driver.Subscription, handler Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Messages():
			if !ok {
				return
			}
			handler(ctx, msg)
		}
	}
}

// Stop closes all subscriptions and waits for the dispatchers to drain.
// Stopping a container that is not running is a no-op.
func (c *Container) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil
	}

	var firstErr error
	for _, sub := range c.subscriptions {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.cancel()
	_ = c.group.Wait()

	c.subscriptions = nil
	c.group = nil
	c.cancel = nil
	c.running = false

	c.logInfo("pubsub container stopped", nil)
	return firstErr
}

func (c *Container) logInfo(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		if fields != nil {
			c.logger.Info(msg, nil, fields)
		} else {
			c.logger.Info(msg, nil)
		}
		return
	}
	log.Printf("INFO: %s", msg)
}
