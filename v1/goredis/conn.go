package goredis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// conn implements driver.Conn over a shared go-redis client.
//
// Direct-mode commands go straight to the pooled client. OpenPipeline and
// Multi swap in a redis.Pipeliner: command methods then target the
// pipeliner, whose Cmder values execute lazily, and register a deferred
// result that harvests and converts the Cmder once the batch is flushed.
type conn struct {
	factory *Factory
	client  pipelineClient

	// pipe and queue are non-nil while the conn is batching.
	pipe  redis.Pipeliner
	queue *driver.ResultQueue

	closed bool
}

var _ driver.Conn = (*conn)(nil)

func (c *conn) batching() bool {
	return c.queue != nil
}

// rawResult adapts a typed Cmder accessor into a deferred-result resolver.
func rawResult[T any](fn func() (T, error)) func() (any, error) {
	return func() (any, error) {
		v, err := fn()
		if err != nil {
			return nil, translate(err)
		}
		return v, nil
	}
}

// Mode reports the current execution mode.
func (c *conn) Mode() driver.Mode {
	if c.queue == nil {
		return driver.ModeDirect
	}
	return c.queue.Mode()
}

// OpenPipeline switches the connection into pipelined mode.
func (c *conn) OpenPipeline() error {
	if c.closed {
		return driver.ErrClosed
	}
	if c.queue != nil {
		if c.queue.Mode() == driver.ModePipeline {
			return nil
		}
		return driver.ErrAlreadyBatching
	}
	c.queue = driver.NewResultQueue(driver.ModePipeline)
	c.pipe = c.client.Pipeline()
	return nil
}

// IsPipelined reports whether the connection is in pipelined mode.
func (c *conn) IsPipelined() bool {
	return c.queue != nil && c.queue.Mode() == driver.ModePipeline
}

// ClosePipeline flushes the pipeline and resolves the deferred results.
func (c *conn) ClosePipeline(ctx context.Context) ([]any, error) {
	if !c.IsPipelined() {
		return nil, driver.ErrNotBatching
	}
	return c.flush(ctx, "pipeline_flush")
}

// Multi switches the connection into queued (MULTI/EXEC) mode.
func (c *conn) Multi() error {
	if c.closed {
		return driver.ErrClosed
	}
	if c.queue != nil {
		return driver.ErrAlreadyBatching
	}
	c.queue = driver.NewResultQueue(driver.ModeQueue)
	c.pipe = c.client.TxPipeline()
	return nil
}

// IsQueueing reports whether the connection is in queued mode.
func (c *conn) IsQueueing() bool {
	return c.queue != nil && c.queue.Mode() == driver.ModeQueue
}

// Exec executes the queued transaction and resolves the deferred results.
func (c *conn) Exec(ctx context.Context) ([]any, error) {
	if !c.IsQueueing() {
		return nil, driver.ErrNotBatching
	}
	return c.flush(ctx, "exec")
}

// Discard drops the queued transaction.
func (c *conn) Discard() error {
	if !c.IsQueueing() {
		return driver.ErrNotBatching
	}
	c.pipe.Discard()
	c.pipe = nil
	c.queue = nil
	return nil
}

// flush executes the active batch and materializes its results. The batch
// state is cleared first so the resolvers see the connection back in
// direct mode.
func (c *conn) flush(ctx context.Context, operation string) ([]any, error) {
	queue, pipe := c.queue, c.pipe
	c.queue, c.pipe = nil, nil

	start := time.Now()
	_, execErr := pipe.Exec(ctx)

	results, err := queue.Resolve()
	if err == nil && execErr != nil && !errors.Is(execErr, redis.Nil) {
		// Transport-level failures may not be attached to any single Cmder.
		err = translate(execErr)
	}

	c.observe(operation, "", "", time.Since(start), err, int64(queue.Len()), map[string]interface{}{
		"command_count": queue.Len(),
	})
	return results, err
}

// Close releases the connection. The pooled client is shared and stays
// open; an unflushed batch is dropped.
func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if c.pipe != nil {
		c.pipe.Discard()
		c.pipe = nil
		c.queue = nil
	}
	return nil
}

// observe forwards an operation event to the factory's observer, if any.
func (c *conn) observe(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if c.factory == nil || c.factory.observer == nil {
		return
	}
	if driver.IsNil(err) {
		err = nil
	}
	c.factory.observer.ObserveOperation(observability.OperationContext{
		Component:   "goredis",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}
