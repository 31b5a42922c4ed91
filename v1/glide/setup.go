package glide

import (
	"context"
	"log"
	"sync"

	"github.com/valkey-io/valkey-glide/go/v2/models"
	"github.com/valkey-io/valkey-glide/go/v2/options"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// Commands is the slice of the GLIDE client surface this backend relies on.
// Both *glide.Client and *glide.ClusterClient satisfy it. Keeping the
// surface this small shields the backend from typed-API churn between
// GLIDE releases; every other command travels through
// InvokeScriptWithOptions.
type Commands interface {
	Get(ctx context.Context, key string) (models.Result[string], error)
	SetWithOptions(ctx context.Context, key string, value string, opts options.SetOptions) (models.Result[string], error)
	InvokeScriptWithOptions(ctx context.Context, script options.Script, opts options.ScriptOptions) (any, error)
}

// Closer is implemented by GLIDE clients that own network resources.
// Factory.Close invokes it when the wrapped client provides it.
type Closer interface {
	Close()
}

// Logger receives structured diagnostics from the factory. Satisfied by
// the redisbridge zap logger.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Factory creates driver connections backed by a GLIDE client. The client
// is caller-provided so the application keeps control over GLIDE's own
// configuration surface (addresses, TLS, read strategy).
type Factory struct {
	client   Commands
	logger   Logger
	observer observability.Observer

	mu     sync.RWMutex
	closed bool
}

// NewFactory wraps an already-constructed GLIDE client.
func NewFactory(client Commands) *Factory {
	log.Println("INFO: creating GLIDE-backed connection factory")
	return &Factory{client: client}
}

// WithLogger attaches a structured logger. Returns the factory for chaining.
func (f *Factory) WithLogger(logger Logger) *Factory {
	f.logger = logger
	return f
}

// WithObserver attaches an operation observer. Returns the factory for
// chaining.
func (f *Factory) WithObserver(observer observability.Observer) *Factory {
	f.observer = observer
	return f
}

// Conn returns a connection in direct mode.
func (f *Factory) Conn(ctx context.Context) (driver.Conn, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, driver.ErrClosed
	}
	return &conn{factory: f, client: f.client}, nil
}

// Close marks the factory closed and releases the wrapped client when it
// exposes a Close method.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	if closer, ok := f.client.(Closer); ok {
		closer.Close()
	}
	log.Println("INFO: GLIDE-backed connection factory closed")
	return nil
}

func (f *Factory) logError(msg string, err error, fields ...map[string]interface{}) {
	if f.logger != nil {
		f.logger.Error(msg, err, fields...)
		return
	}
	log.Printf("ERROR: %s: %v", msg, err)
}

var _ driver.Factory = (*Factory)(nil)
