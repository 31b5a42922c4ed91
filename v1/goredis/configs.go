package goredis

import "time"

// Config is the configuration for a standalone Redis deployment.
type Config struct {
	// Host is the Redis server hostname or IP address.
	// Default: "localhost"
	Host string

	// Port is the Redis server port.
	// Default: 6379
	Port int

	// Username is the ACL username (Redis 6.0+). Empty disables
	// username-based authentication.
	Username string

	// Password is the authentication password. Empty disables
	// authentication.
	Password string

	// DB is the database number to select.
	// Default: 0
	DB int

	// PoolSize is the maximum number of socket connections.
	// Default: 10 per CPU (go-redis default)
	PoolSize int

	// MinIdleConns is the minimum number of idle connections to maintain.
	// Default: 0
	MinIdleConns int

	// MaxConnAge is the maximum lifetime of a pooled connection.
	// Default: 0 (unbounded)
	MaxConnAge time.Duration

	// PoolTimeout is how long to wait for a connection from the pool.
	// Default: ReadTimeout + 1 second (go-redis default)
	PoolTimeout time.Duration

	// IdleTimeout closes connections idle for longer than this.
	// Default: 5 minutes
	IdleTimeout time.Duration

	// MaxRetries is the retry budget per command. -1 disables retries.
	// Default: 3
	MaxRetries int

	// MinRetryBackoff is the minimum backoff between retries.
	// Default: 8 milliseconds
	MinRetryBackoff time.Duration

	// MaxRetryBackoff is the maximum backoff between retries.
	// Default: 512 milliseconds
	MaxRetryBackoff time.Duration

	// DialTimeout bounds new connection establishment.
	// Default: 5 seconds
	DialTimeout time.Duration

	// ReadTimeout bounds socket reads.
	// Default: 3 seconds
	ReadTimeout time.Duration

	// WriteTimeout bounds socket writes.
	// Default: ReadTimeout
	WriteTimeout time.Duration

	// TLS holds TLS/SSL settings.
	TLS TLSConfig

	// Logger is an optional structured logger, see v1/logger.
	Logger Logger
}

// TLSConfig holds TLS/SSL settings for a factory.
type TLSConfig struct {
	// Enabled turns TLS on for the connection.
	Enabled bool

	// CACertPath is the CA certificate used to verify the server.
	CACertPath string

	// ClientCertPath and ClientKeyPath enable mutual TLS.
	ClientCertPath string
	ClientKeyPath  string

	// InsecureSkipVerify disables server certificate verification.
	// Testing only.
	InsecureSkipVerify bool

	// ServerName overrides the hostname used for certificate verification.
	// If empty, the Host from the main config is used.
	ServerName string
}

// ClusterConfig is the configuration for a Redis Cluster deployment.
type ClusterConfig struct {
	// Addrs is the seed list of cluster nodes,
	// e.g. []string{"localhost:7000", "localhost:7001"}.
	Addrs []string

	// Username is the ACL username (Redis 6.0+).
	Username string

	// Password is the authentication password.
	Password string

	// MaxRedirects caps retries on MOVED/ASK redirects.
	// Default: 3
	MaxRedirects int

	// ReadOnly routes read commands to replicas.
	ReadOnly bool

	// RouteByLatency routes read commands to the closest node.
	RouteByLatency bool

	// RouteRandomly routes read commands to a random node.
	RouteRandomly bool

	// PoolSize is the maximum number of socket connections per node.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections per node.
	MinIdleConns int

	// MaxConnAge is the maximum lifetime of a pooled connection.
	MaxConnAge time.Duration

	// PoolTimeout is how long to wait for a connection from the pool.
	PoolTimeout time.Duration

	// IdleTimeout closes connections idle for longer than this.
	IdleTimeout time.Duration

	// MaxRetries is the retry budget per command.
	MaxRetries int

	// MinRetryBackoff is the minimum backoff between retries.
	MinRetryBackoff time.Duration

	// MaxRetryBackoff is the maximum backoff between retries.
	MaxRetryBackoff time.Duration

	// DialTimeout bounds new connection establishment.
	DialTimeout time.Duration

	// ReadTimeout bounds socket reads.
	ReadTimeout time.Duration

	// WriteTimeout bounds socket writes.
	WriteTimeout time.Duration

	// TLS holds TLS/SSL settings.
	TLS TLSConfig

	// Logger is an optional structured logger, see v1/logger.
	Logger Logger
}

// FailoverConfig is the configuration for a Redis Sentinel deployment.
type FailoverConfig struct {
	// MasterName is the master name as configured in Sentinel.
	MasterName string

	// SentinelAddrs lists the Sentinel nodes,
	// e.g. []string{"localhost:26379", "localhost:26380"}.
	SentinelAddrs []string

	// SentinelUsername and SentinelPassword authenticate against Sentinel.
	SentinelUsername string
	SentinelPassword string

	// Username is the ACL username for the data nodes.
	Username string

	// Password is the password for the data nodes.
	Password string

	// DB is the database number to select.
	DB int

	// ReplicaOnly routes all commands to replicas.
	ReplicaOnly bool

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// MaxConnAge is the maximum lifetime of a pooled connection.
	MaxConnAge time.Duration

	// PoolTimeout is how long to wait for a connection from the pool.
	PoolTimeout time.Duration

	// IdleTimeout closes connections idle for longer than this.
	IdleTimeout time.Duration

	// MaxRetries is the retry budget per command.
	MaxRetries int

	// MinRetryBackoff is the minimum backoff between retries.
	MinRetryBackoff time.Duration

	// MaxRetryBackoff is the maximum backoff between retries.
	MaxRetryBackoff time.Duration

	// DialTimeout bounds new connection establishment.
	DialTimeout time.Duration

	// ReadTimeout bounds socket reads.
	ReadTimeout time.Duration

	// WriteTimeout bounds socket writes.
	WriteTimeout time.Duration

	// TLS holds TLS/SSL settings.
	TLS TLSConfig

	// Logger is an optional structured logger, see v1/logger.
	Logger Logger
}

// Logger matches the v1/logger.Logger surface so configs do not import it.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Default configuration values.
const (
	DefaultHost                = "localhost"
	DefaultPort                = 6379
	DefaultIdleTimeout         = 5 * time.Minute
	DefaultMaxRetries          = 3
	DefaultMinRetryBackoff     = 8 * time.Millisecond
	DefaultMaxRetryBackoff     = 512 * time.Millisecond
	DefaultDialTimeout         = 5 * time.Second
	DefaultReadTimeout         = 3 * time.Second
	DefaultClusterMaxRedirects = 3
)
