package template

import (
	"context"
	"errors"
	"log"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/serializer"
)

// DefaultWatchRetries bounds how often Watch restarts an aborted
// optimistic transaction before giving up.
const DefaultWatchRetries = 3

// Logger receives structured diagnostics from the template. Satisfied by
// the redisbridge zap logger.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Template executes commands against a backend factory, mediating values
// through a serializer. The zero value is not usable; construct with New.
//
// A Template is safe for concurrent use; every call acquires its own
// connection.
type Template struct {
	factory      driver.Factory
	serializer   serializer.Serializer
	logger       Logger
	watchRetries int
}

// Option configures a Template.
type Option func(*Template)

// WithSerializer selects the value serializer. Default is JSON.
func WithSerializer(s serializer.Serializer) Option {
	return func(t *Template) { t.serializer = s }
}

// WithLogger attaches a structured logger.
func WithLogger(l Logger) Option {
	return func(t *Template) { t.logger = l }
}

// WithWatchRetries overrides how often Watch restarts aborted
// transactions.
func WithWatchRetries(n int) Option {
	return func(t *Template) { t.watchRetries = n }
}

// New creates a Template over the given factory.
func New(factory driver.Factory, opts ...Option) *Template {
	t := &Template{
		factory:      factory,
		serializer:   serializer.NewJSON(),
		watchRetries: DefaultWatchRetries,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Serializer returns the serializer values travel through.
func (t *Template) Serializer() serializer.Serializer {
	return t.serializer
}

// Execute acquires a connection, runs fn with it, and releases it.
func (t *Template) Execute(ctx context.Context, fn func(driver.Conn) error) error {
	conn, err := t.factory.Conn(ctx)
	if err != nil {
		return err
	}
	defer t.closeConn(conn)

	return fn(conn)
}

// Pipelined runs fn on a pipelined connection and returns the converted
// results in issue order. When fn fails the buffered commands are dropped
// unsent.
func (t *Template) Pipelined(ctx context.Context, fn func(driver.Conn) error) ([]any, error) {
	conn, err := t.factory.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer t.closeConn(conn)

	if err := conn.OpenPipeline(); err != nil {
		return nil, err
	}
	if err := fn(conn); err != nil {
		return nil, err
	}
	return conn.ClosePipeline(ctx)
}

// Transactional runs fn on a queueing connection and executes the queued
// commands as one MULTI/EXEC transaction. When fn fails the transaction
// is discarded.
func (t *Template) Transactional(ctx context.Context, fn func(driver.Conn) error) ([]any, error) {
	conn, err := t.factory.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer t.closeConn(conn)

	if err := conn.Multi(); err != nil {
		return nil, err
	}
	if err := fn(conn); err != nil {
		if discardErr := conn.Discard(); discardErr != nil && t.logger != nil {
			t.logger.Warn("failed to discard transaction", discardErr, nil)
		}
		return nil, err
	}
	return conn.Exec(ctx)
}

// Watch runs fn under WATCH on the given keys, retrying when a concurrent
// writer aborts the transaction. Requires a factory implementing
// driver.WatchSupport; other backends report driver.ErrNotSupported.
func (t *Template) Watch(ctx context.Context, fn func(driver.Conn) error, keys ...string) error {
	ws, ok := t.factory.(driver.WatchSupport)
	if !ok {
		return driver.ErrNotSupported
	}

	var err error
	for attempt := 0; attempt <= t.watchRetries; attempt++ {
		err = ws.Watch(ctx, fn, keys...)
		if !errors.Is(err, driver.ErrTxAborted) {
			return err
		}
		if t.logger != nil {
			t.logger.Info("optimistic transaction aborted, retrying", nil, map[string]interface{}{
				"attempt": attempt + 1,
				"keys":    keys,
			})
		}
	}
	return err
}

func (t *Template) closeConn(conn driver.Conn) {
	if err := conn.Close(); err != nil {
		if t.logger != nil {
			t.logger.Error("failed to release connection", err, nil)
			return
		}
		log.Printf("ERROR: failed to release connection: %v", err)
	}
}
