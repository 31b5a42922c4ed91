package driver

import (
	"context"
	"time"
)

// KeyCommands covers generic key-space operations.
type KeyCommands interface {
	// Del deletes the given keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Exists returns how many of the given keys exist.
	Exists(ctx context.Context, keys ...string) (int64, error)

	// Expire sets a timeout on key. Returns false if the key does not exist.
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// TTL returns the remaining time to live of key. Keys without an
	// expiration report TTLPersistent, missing keys report TTLMissing.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Persist removes the expiration from key.
	Persist(ctx context.Context, key string) (bool, error)

	// Type returns the Redis type name of the value stored at key.
	Type(ctx context.Context, key string) (string, error)

	// Rename renames key to newKey, overwriting any existing value.
	Rename(ctx context.Context, key, newKey string) error

	// Keys returns all keys matching pattern. Prefer Scan on large
	// key spaces.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Scan iterates the key space. Pass the returned cursor to the next
	// call; a zero cursor in the result ends the iteration.
	Scan(ctx context.Context, cursor uint64, match string, count int64) (ScanCursor, error)
}

// StringCommands covers the string (plain value) operations.
type StringCommands interface {
	// Get returns the value of key, or ErrNil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key. The options select NX/XX conditions and
	// expiration. Returns false when a condition prevented the write.
	Set(ctx context.Context, key string, value []byte, opts SetOptions) (bool, error)

	// GetSet atomically sets key to value and returns the old value, or
	// ErrNil if the key did not exist.
	GetSet(ctx context.Context, key string, value []byte) ([]byte, error)

	// MGet returns the values of keys in order; missing keys yield nil
	// entries.
	MGet(ctx context.Context, keys ...string) ([][]byte, error)

	// MSet writes all pairs in one round trip.
	MSet(ctx context.Context, pairs map[string][]byte) error

	// Incr increments the integer value of key by one.
	Incr(ctx context.Context, key string) (int64, error)

	// IncrBy increments the integer value of key by delta.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// Decr decrements the integer value of key by one.
	Decr(ctx context.Context, key string) (int64, error)

	// Append appends value to key and returns the new length.
	Append(ctx context.Context, key string, value []byte) (int64, error)

	// StrLen returns the length of the value stored at key.
	StrLen(ctx context.Context, key string) (int64, error)
}

// HashCommands covers hash operations.
type HashCommands interface {
	HSet(ctx context.Context, key string, fields map[string][]byte) (int64, error)
	HGet(ctx context.Context, key, field string) ([]byte, error)
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	HExists(ctx context.Context, key, field string) (bool, error)
	HLen(ctx context.Context, key string) (int64, error)
	HKeys(ctx context.Context, key string) ([]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
}

// ListCommands covers list operations.
type ListCommands interface {
	LPush(ctx context.Context, key string, values ...[]byte) (int64, error)
	RPush(ctx context.Context, key string, values ...[]byte) (int64, error)

	// LPop removes and returns the head of the list, or ErrNil when empty.
	LPop(ctx context.Context, key string) ([]byte, error)

	// RPop removes and returns the tail of the list, or ErrNil when empty.
	RPop(ctx context.Context, key string) ([]byte, error)

	LRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	LLen(ctx context.Context, key string) (int64, error)
	LRem(ctx context.Context, key string, count int64, value []byte) (int64, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
}

// SetCommands covers unordered-set operations.
type SetCommands interface {
	SAdd(ctx context.Context, key string, members ...[]byte) (int64, error)
	SRem(ctx context.Context, key string, members ...[]byte) (int64, error)
	SMembers(ctx context.Context, key string) ([][]byte, error)
	SIsMember(ctx context.Context, key string, member []byte) (bool, error)
	SCard(ctx context.Context, key string) (int64, error)
}

// ZSetCommands covers sorted-set operations.
type ZSetCommands interface {
	ZAdd(ctx context.Context, key string, members ...ZMember) (int64, error)
	ZRem(ctx context.Context, key string, members ...[]byte) (int64, error)
	ZRange(ctx context.Context, key string, start, stop int64) ([][]byte, error)
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error)
	ZRangeByScore(ctx context.Context, key string, by ZRangeBy) ([][]byte, error)

	// ZScore returns the score of member, or ErrNil if the member is not in
	// the set.
	ZScore(ctx context.Context, key string, member []byte) (float64, error)

	// ZRank returns the 0-based rank of member ordered by ascending score,
	// or ErrNil if the member is not in the set.
	ZRank(ctx context.Context, key string, member []byte) (int64, error)

	ZCard(ctx context.Context, key string) (int64, error)
	ZIncrBy(ctx context.Context, key string, increment float64, member []byte) (float64, error)
}

// ScriptingCommands covers server-side Lua execution.
type ScriptingCommands interface {
	// Eval runs a Lua script with the given keys and arguments and returns
	// the raw reply (int64, []byte/string, nil, or []any).
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
}

// ServerCommands covers connection-level and server-level operations.
type ServerCommands interface {
	Ping(ctx context.Context) error
	DBSize(ctx context.Context) (int64, error)
	FlushDB(ctx context.Context) error
}

// PubSubCommands covers the publishing side of pub/sub. Subscriptions are a
// Factory capability, see Subscriber.
type PubSubCommands interface {
	// Publish posts message to channel and returns the receiver count.
	Publish(ctx context.Context, channel string, message []byte) (int64, error)
}

// Conn is a vendor-neutral Redis connection.
//
// A Conn is not safe for concurrent use while pipelined or queueing; the
// deferred-result queue is per-connection state. Direct-mode commands may be
// issued concurrently when the backend's underlying client allows it.
type Conn interface {
	KeyCommands
	StringCommands
	HashCommands
	ListCommands
	SetCommands
	ZSetCommands
	ScriptingCommands
	ServerCommands
	PubSubCommands

	// Mode reports the current execution mode.
	Mode() Mode

	// OpenPipeline switches the connection into pipelined mode. Subsequent
	// commands return zero values and are resolved by ClosePipeline.
	// Calling it while already pipelined is a no-op; calling it while
	// queueing returns ErrAlreadyBatching.
	OpenPipeline() error

	// IsPipelined reports whether the connection is in pipelined mode.
	IsPipelined() bool

	// ClosePipeline flushes the buffered commands and returns their
	// converted results in issue order. Nil replies are replaced by each
	// command's default value. The first command failure is returned as the
	// error; results of failed commands are nil. Returns ErrNotBatching if
	// no pipeline is open.
	ClosePipeline(ctx context.Context) ([]any, error)

	// Multi switches the connection into queued mode; buffered commands run
	// as a MULTI/EXEC transaction on Exec. Calling it while pipelined or
	// already queueing returns ErrAlreadyBatching.
	Multi() error

	// IsQueueing reports whether the connection is in queued mode.
	IsQueueing() bool

	// Exec executes the queued transaction and returns the converted
	// results in issue order, with the same nil-defaulting as
	// ClosePipeline. Returns ErrTxAborted if the transaction was aborted.
	Exec(ctx context.Context) ([]any, error)

	// Discard drops the queued transaction and returns the connection to
	// direct mode. Returns ErrNotBatching if no transaction is open.
	Discard() error

	// Close releases the connection back to its factory.
	Close() error
}

// Factory hands out connections to a Redis deployment.
type Factory interface {
	// Conn returns a connection in direct mode.
	Conn(ctx context.Context) (Conn, error)

	// Close tears down the factory and its underlying client.
	Close() error
}

// WatchSupport is implemented by factories that can run optimistic
// MULTI/EXEC transactions guarded by WATCH. The callback receives a
// dedicated connection; command batches issued inside it race against
// concurrent writers of the watched keys, and fn is retried by the caller
// on ErrTxAborted.
type WatchSupport interface {
	Watch(ctx context.Context, fn func(Conn) error, keys ...string) error
}

// Subscriber is implemented by factories that can open pub/sub
// subscriptions.
type Subscriber interface {
	// Subscribe listens on the given channels.
	Subscribe(ctx context.Context, channels ...string) (Subscription, error)

	// PSubscribe listens on channels matching the given patterns.
	PSubscribe(ctx context.Context, patterns ...string) (Subscription, error)
}

// Subscription is an open pub/sub subscription.
type Subscription interface {
	// Messages returns the channel messages are delivered on. It is closed
	// when the subscription closes.
	Messages() <-chan Message

	// Close unsubscribes and releases the subscription.
	Close() error
}
