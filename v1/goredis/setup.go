package goredis

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-io/redisbridge/v1/driver"
	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// pipelineClient is the slice of the go-redis API a conn needs. It is
// satisfied by redis.UniversalClient and by *redis.Tx, which lets the same
// conn type serve both pooled connections and WATCH transactions.
type pipelineClient interface {
	redis.Cmdable
	Pipeline() redis.Pipeliner
	TxPipeline() redis.Pipeliner
}

// Factory hands out vendor-neutral connections backed by go-redis.
//
// Factory implements driver.Factory, driver.WatchSupport, and
// driver.Subscriber.
type Factory struct {
	// client is the underlying go-redis client.
	client redis.UniversalClient

	// logger is used for structured logging.
	logger Logger

	// observer receives per-command and per-flush events.
	observer observability.Observer

	// mu protects closed.
	mu     sync.RWMutex
	closed bool
}

// NewFactory creates a factory for a standalone Redis deployment.
//
// Parameters:
//   - cfg: Configuration for connecting to Redis. Zero fields are
//     defaulted, see the constants in configs.go.
//
// Example:
//
//	factory, err := goredis.NewFactory(goredis.Config{
//		Host:     "localhost",
//		Port:     6379,
//		Password: "",
//		DB:       0,
//	})
//	if err != nil {
//		return nil, err
//	}
//	defer factory.Close()
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	applyCommonDefaults(&cfg.MaxRetries, &cfg.MinRetryBackoff, &cfg.MaxRetryBackoff,
		&cfg.DialTimeout, &cfg.ReadTimeout, &cfg.IdleTimeout)

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS, cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	opts := &redis.Options{
		Addr:            fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:        cfg.Username,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxLifetime: cfg.MaxConnAge,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		TLSConfig:       tlsConfig,
	}

	log.Println("INFO: goredis factory initialized")
	return &Factory{client: redis.NewClient(opts), logger: cfg.Logger}, nil
}

// NewClusterFactory creates a factory for a Redis Cluster deployment.
//
// Example:
//
//	factory, err := goredis.NewClusterFactory(goredis.ClusterConfig{
//		Addrs: []string{"localhost:7000", "localhost:7001", "localhost:7002"},
//	})
func NewClusterFactory(cfg ClusterConfig) (*Factory, error) {
	if cfg.MaxRedirects == 0 {
		cfg.MaxRedirects = DefaultClusterMaxRedirects
	}
	applyCommonDefaults(&cfg.MaxRetries, &cfg.MinRetryBackoff, &cfg.MaxRetryBackoff,
		&cfg.DialTimeout, &cfg.ReadTimeout, &cfg.IdleTimeout)

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	opts := &redis.ClusterOptions{
		Addrs:           cfg.Addrs,
		Username:        cfg.Username,
		Password:        cfg.Password,
		MaxRedirects:    cfg.MaxRedirects,
		ReadOnly:        cfg.ReadOnly,
		RouteByLatency:  cfg.RouteByLatency,
		RouteRandomly:   cfg.RouteRandomly,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		ConnMaxLifetime: cfg.MaxConnAge,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
		DialTimeout:     cfg.DialTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		TLSConfig:       tlsConfig,
	}

	log.Println("INFO: goredis cluster factory initialized")
	return &Factory{client: redis.NewClusterClient(opts), logger: cfg.Logger}, nil
}

// NewFailoverFactory creates a factory for a Redis Sentinel deployment.
//
// Example:
//
//	factory, err := goredis.NewFailoverFactory(goredis.FailoverConfig{
//		MasterName:    "mymaster",
//		SentinelAddrs: []string{"localhost:26379"},
//	})
func NewFailoverFactory(cfg FailoverConfig) (*Factory, error) {
	applyCommonDefaults(&cfg.MaxRetries, &cfg.MinRetryBackoff, &cfg.MaxRetryBackoff,
		&cfg.DialTimeout, &cfg.ReadTimeout, &cfg.IdleTimeout)

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	opts := &redis.FailoverOptions{
		MasterName:       cfg.MasterName,
		SentinelAddrs:    cfg.SentinelAddrs,
		SentinelUsername: cfg.SentinelUsername,
		SentinelPassword: cfg.SentinelPassword,
		Username:         cfg.Username,
		Password:         cfg.Password,
		DB:               cfg.DB,
		ReplicaOnly:      cfg.ReplicaOnly,
		PoolSize:         cfg.PoolSize,
		MinIdleConns:     cfg.MinIdleConns,
		ConnMaxLifetime:  cfg.MaxConnAge,
		PoolTimeout:      cfg.PoolTimeout,
		ConnMaxIdleTime:  cfg.IdleTimeout,
		MaxRetries:       cfg.MaxRetries,
		MinRetryBackoff:  cfg.MinRetryBackoff,
		MaxRetryBackoff:  cfg.MaxRetryBackoff,
		DialTimeout:      cfg.DialTimeout,
		ReadTimeout:      cfg.ReadTimeout,
		WriteTimeout:     cfg.WriteTimeout,
		TLSConfig:        tlsConfig,
	}

	log.Println("INFO: goredis failover factory initialized")
	return &Factory{client: redis.NewFailoverClient(opts), logger: cfg.Logger}, nil
}

// applyCommonDefaults fills the timeout and retry fields shared by all
// three config shapes.
func applyCommonDefaults(maxRetries *int, minBackoff, maxBackoff, dial, read, idle *time.Duration) {
	if *maxRetries == 0 {
		*maxRetries = DefaultMaxRetries
	}
	if *minBackoff == 0 {
		*minBackoff = DefaultMinRetryBackoff
	}
	if *maxBackoff == 0 {
		*maxBackoff = DefaultMaxRetryBackoff
	}
	if *dial == 0 {
		*dial = DefaultDialTimeout
	}
	if *read == 0 {
		*read = DefaultReadTimeout
	}
	if *idle == 0 {
		*idle = DefaultIdleTimeout
	}
}

// createTLSConfig builds a *tls.Config from the TLS section.
func createTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	} else if defaultServerName != "" {
		tlsConfig.ServerName = defaultServerName
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Client returns the underlying go-redis client for operations outside the
// vendor-neutral surface.
func (f *Factory) Client() redis.UniversalClient {
	return f.client
}

// Conn returns a connection in direct mode. Connections share the pooled
// client; Close on the conn is cheap and does not tear down sockets.
func (f *Factory) Conn(ctx context.Context) (driver.Conn, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, driver.ErrClosed
	}
	return &conn{factory: f, client: f.client}, nil
}

// Close closes the factory and the underlying client.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	log.Println("INFO: closing goredis factory")
	if err := f.client.Close(); err != nil {
		f.logError("failed to close goredis client", err)
		return translate(err)
	}
	return nil
}

// Watch implements driver.WatchSupport. The callback receives a connection
// bound to the transaction; batches it opens with Multi/Exec race against
// concurrent writers of the watched keys, and Exec reports ErrTxAborted
// when a watched key changed.
func (f *Factory) Watch(ctx context.Context, fn func(driver.Conn) error, keys ...string) error {
	f.mu.RLock()
	if f.closed {
		f.mu.RUnlock()
		return driver.ErrClosed
	}
	f.mu.RUnlock()

	err := f.client.Watch(ctx, func(tx *redis.Tx) error {
		return fn(&conn{factory: f, client: tx})
	}, keys...)
	return translate(err)
}

// WithObserver sets the observer for connections handed out by this factory
// and returns the factory for chaining.
func (f *Factory) WithObserver(observer observability.Observer) *Factory {
	f.observer = observer
	return f
}

// WithLogger sets the logger and returns the factory for chaining.
func (f *Factory) WithLogger(logger Logger) *Factory {
	f.logger = logger
	return f
}

func (f *Factory) logError(msg string, err error) {
	if f.logger != nil {
		f.logger.Error(msg, err)
		return
	}
	log.Printf("WARN: %s: %v", msg, err)
}
