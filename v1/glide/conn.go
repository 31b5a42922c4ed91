package glide

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-glide/go/v2/options"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// pendingCommand is a buffered command together with the conversion applied
// when its slot of the batch reply materializes.
type pendingCommand struct {
	command
	convert driver.ConvertFunc
	def     any
}

// conn implements driver.Conn over the script transport. A conn is
// single-goroutine state, matching the Conn contract.
type conn struct {
	factory *Factory
	client  Commands

	mode    driver.Mode
	pending []pendingCommand
	closed  bool
}

var _ driver.Conn = (*conn)(nil)

// Mode reports the current execution mode.
func (c *conn) Mode() driver.Mode {
	return c.mode
}

func (c *conn) batching() bool {
	return c.mode != driver.ModeDirect
}

// invoke runs a single command through its generated redis.call script.
func (c *conn) invoke(ctx context.Context, name string, keys, args []string) (any, error) {
	script := *options.NewScript(callScript(name, len(keys), len(args)))
	return c.client.InvokeScriptWithOptions(ctx, script, options.ScriptOptions{
		Keys: keys,
		Args: args,
	})
}

// do is the shared execution path. While batching it buffers the command
// and reports deferred=true, so the caller returns its zero value. In
// direct mode it invokes the script, translates failures and applies the
// converter; a nil reply surfaces through the converter (usually as
// driver.ErrNil).
func (c *conn) do(ctx context.Context, name string, keys, args []string, convert driver.ConvertFunc, def any) (raw any, deferred bool, err error) {
	if c.closed {
		return nil, false, driver.ErrClosed
	}
	if c.batching() {
		c.pending = append(c.pending, pendingCommand{
			command: command{name: name, keys: keys, args: args},
			convert: convert,
			def:     def,
		})
		return nil, true, nil
	}

	start := time.Now()
	reply, err := c.invoke(ctx, name, keys, args)
	if err != nil {
		err = driver.WrapCommand(name, translate(err))
		c.observe(name, keys, start, err)
		return nil, false, err
	}

	value, err := convert(reply)
	if err != nil {
		err = driver.WrapCommand(name, err)
	}
	c.observe(name, keys, start, err)
	return value, false, err
}

// OpenPipeline switches the connection into pipelined mode. Calling it on
// an already pipelined connection is a no-op; a queueing connection
// reports driver.ErrAlreadyBatching.
func (c *conn) OpenPipeline() error {
	if c.closed {
		return driver.ErrClosed
	}
	switch c.mode {
	case driver.ModePipeline:
		return nil
	case driver.ModeQueue:
		return driver.ErrAlreadyBatching
	}
	c.mode = driver.ModePipeline
	return nil
}

// IsPipelined reports whether the connection buffers into a pipeline.
func (c *conn) IsPipelined() bool {
	return c.mode == driver.ModePipeline
}

// ClosePipeline flushes the pipeline and returns the results in issue
// order.
func (c *conn) ClosePipeline(ctx context.Context) ([]any, error) {
	if c.mode != driver.ModePipeline {
		return nil, driver.ErrNotBatching
	}
	return c.flush(ctx, "pipeline_flush", driver.ModePipeline)
}

// Multi switches the connection into queued (transactional) mode.
func (c *conn) Multi() error {
	if c.closed {
		return driver.ErrClosed
	}
	if c.batching() {
		return driver.ErrAlreadyBatching
	}
	c.mode = driver.ModeQueue
	return nil
}

// IsQueueing reports whether the connection buffers into a transaction.
func (c *conn) IsQueueing() bool {
	return c.mode == driver.ModeQueue
}

// Exec runs the queued commands. The batch script executes atomically on
// the server, giving the queue MULTI/EXEC semantics.
func (c *conn) Exec(ctx context.Context) ([]any, error) {
	if c.mode != driver.ModeQueue {
		return nil, driver.ErrNotBatching
	}
	return c.flush(ctx, "exec", driver.ModeQueue)
}

// Discard drops the queued commands without running them.
func (c *conn) Discard() error {
	if c.mode != driver.ModeQueue {
		return driver.ErrNotBatching
	}
	c.pending = nil
	c.mode = driver.ModeDirect
	return nil
}

// Close releases the connection. An unflushed batch is dropped.
func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	if c.batching() && len(c.pending) > 0 {
		c.factory.logError("closing connection with unflushed batch", nil, map[string]interface{}{
			"mode":          c.mode.String(),
			"command_count": len(c.pending),
		})
	}
	c.pending = nil
	c.mode = driver.ModeDirect
	c.closed = true
	return nil
}

// flush sends the buffered commands as one batch script and resolves them
// through the shared result queue, so defaults and error wrapping behave
// identically across backends.
func (c *conn) flush(ctx context.Context, op string, mode driver.Mode) ([]any, error) {
	pending := c.pending
	c.pending = nil
	c.mode = driver.ModeDirect

	if len(pending) == 0 {
		return []any{}, nil
	}

	cmds := make([]command, len(pending))
	for i, p := range pending {
		cmds[i] = p.command
	}
	keys, args := encodeBatch(cmds)

	start := time.Now()
	raw, err := c.client.InvokeScriptWithOptions(ctx, *options.NewScript(batchScript), options.ScriptOptions{
		Keys: keys,
		Args: args,
	})
	if err != nil {
		err = translate(err)
		c.observeBatch(op, len(pending), start, err)
		return nil, err
	}

	values, errs, err := decodeBatch(raw, len(pending))
	if err != nil {
		c.observeBatch(op, len(pending), start, err)
		return nil, err
	}

	queue := driver.NewResultQueue(mode)
	for i, p := range pending {
		i := i
		queue.Defer(p.name, func() (any, error) {
			if errs[i] != nil {
				return nil, errs[i]
			}
			return values[i], nil
		}, p.convert, p.def)
	}

	results, resolveErr := queue.Resolve()
	c.observeBatch(op, len(pending), start, resolveErr)
	return results, resolveErr
}

func (c *conn) observe(op string, keys []string, start time.Time, err error) {
	if c.factory.observer == nil {
		return
	}
	if err != nil && driver.IsNil(err) {
		err = nil
	}
	resource := ""
	if len(keys) > 0 {
		resource = keys[0]
	}
	c.factory.observer.ObserveOperation(observability.OperationContext{
		Component: "glide",
		Operation: op,
		Resource:  resource,
		Duration:  time.Since(start),
		Error:     err,
	})
}

func (c *conn) observeBatch(op string, count int, start time.Time, err error) {
	if c.factory.observer == nil {
		return
	}
	c.factory.observer.ObserveOperation(observability.OperationContext{
		Component: "glide",
		Operation: op,
		Duration:  time.Since(start),
		Error:     err,
		Metadata:  map[string]interface{}{"command_count": count},
	})
}
