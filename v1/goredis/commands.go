package goredis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// --- Key Commands ---

// Del deletes the given keys and returns how many existed.
func (c *conn) Del(ctx context.Context, keys ...string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.Del(ctx, keys...)
		c.queue.Defer("del", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	start := time.Now()
	n, err := c.client.Del(ctx, keys...).Result()
	err = translate(err)
	resource := ""
	if len(keys) > 0 {
		resource = keys[0]
	}
	c.observe("del", resource, "", time.Since(start), err, n, map[string]interface{}{
		"key_count": len(keys),
	})
	return n, driver.WrapCommand("del", err)
}

// Exists returns how many of the given keys exist.
func (c *conn) Exists(ctx context.Context, keys ...string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.Exists(ctx, keys...)
		c.queue.Defer("exists", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.Exists(ctx, keys...).Result()
	return n, driver.WrapCommand("exists", translate(err))
}

// Expire sets a timeout on key.
func (c *conn) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if c.batching() {
		cmd := c.pipe.Expire(ctx, key, ttl)
		c.queue.Defer("expire", rawResult(cmd.Result), nil, false)
		return false, nil
	}
	ok, err := c.client.Expire(ctx, key, ttl).Result()
	return ok, driver.WrapCommand("expire", translate(err))
}

// normalizeTTL maps the raw -1/-2 reply sentinels onto the driver TTL
// sentinels. go-redis surfaces them as bare nanosecond durations.
func normalizeTTL(d time.Duration) time.Duration {
	switch d {
	case -1:
		return driver.TTLPersistent
	case -2:
		return driver.TTLMissing
	}
	return d
}

// TTL returns the remaining time to live of key.
func (c *conn) TTL(ctx context.Context, key string) (time.Duration, error) {
	if c.batching() {
		cmd := c.pipe.TTL(ctx, key)
		c.queue.Defer("ttl", func() (any, error) {
			d, err := cmd.Result()
			if err != nil {
				return nil, translate(err)
			}
			return normalizeTTL(d), nil
		}, nil, driver.TTLMissing)
		return 0, nil
	}
	d, err := c.client.TTL(ctx, key).Result()
	return normalizeTTL(d), driver.WrapCommand("ttl", translate(err))
}

// Persist removes the expiration from key.
func (c *conn) Persist(ctx context.Context, key string) (bool, error) {
	if c.batching() {
		cmd := c.pipe.Persist(ctx, key)
		c.queue.Defer("persist", rawResult(cmd.Result), nil, false)
		return false, nil
	}
	ok, err := c.client.Persist(ctx, key).Result()
	return ok, driver.WrapCommand("persist", translate(err))
}

// Type returns the Redis type name of the value stored at key.
func (c *conn) Type(ctx context.Context, key string) (string, error) {
	if c.batching() {
		cmd := c.pipe.Type(ctx, key)
		c.queue.Defer("type", rawResult(cmd.Result), nil, "")
		return "", nil
	}
	t, err := c.client.Type(ctx, key).Result()
	return t, driver.WrapCommand("type", translate(err))
}

// Rename renames key to newKey.
func (c *conn) Rename(ctx context.Context, key, newKey string) error {
	if c.batching() {
		cmd := c.pipe.Rename(ctx, key, newKey)
		c.queue.Defer("rename", rawResult(cmd.Result), nil, "")
		return nil
	}
	err := c.client.Rename(ctx, key, newKey).Err()
	return driver.WrapCommand("rename", translate(err))
}

// Keys returns all keys matching pattern. Prefer Scan on large key spaces.
func (c *conn) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.batching() {
		cmd := c.pipe.Keys(ctx, pattern)
		c.queue.Defer("keys", rawResult(cmd.Result), nil, []string(nil))
		return nil, nil
	}
	keys, err := c.client.Keys(ctx, pattern).Result()
	return keys, driver.WrapCommand("keys", translate(err))
}

// Scan iterates the key space.
func (c *conn) Scan(ctx context.Context, cursor uint64, match string, count int64) (driver.ScanCursor, error) {
	if c.batching() {
		cmd := c.pipe.Scan(ctx, cursor, match, count)
		c.queue.Defer("scan", func() (any, error) {
			keys, next, err := cmd.Result()
			if err != nil {
				return nil, translate(err)
			}
			return driver.ScanCursor{Cursor: next, Keys: keys}, nil
		}, nil, driver.ScanCursor{})
		return driver.ScanCursor{}, nil
	}
	keys, next, err := c.client.Scan(ctx, cursor, match, count).Result()
	if err != nil {
		return driver.ScanCursor{}, driver.WrapCommand("scan", translate(err))
	}
	return driver.ScanCursor{Cursor: next, Keys: keys}, nil
}

// --- String Commands ---

// Get returns the value of key, or ErrNil if the key does not exist.
func (c *conn) Get(ctx context.Context, key string) ([]byte, error) {
	if c.batching() {
		cmd := c.pipe.Get(ctx, key)
		c.queue.Defer("get", rawResult(cmd.Bytes), nil, []byte(nil))
		return nil, nil
	}
	start := time.Now()
	b, err := c.client.Get(ctx, key).Bytes()
	err = translate(err)
	c.observe("get", key, "", time.Since(start), err, int64(len(b)), nil)
	return b, driver.WrapCommand("get", err)
}

// Set writes value under key, honoring the NX/XX and TTL options.
func (c *conn) Set(ctx context.Context, key string, value []byte, opts driver.SetOptions) (bool, error) {
	args := redis.SetArgs{TTL: opts.TTL, KeepTTL: opts.KeepTTL}
	switch opts.Condition {
	case driver.SetIfAbsent:
		args.Mode = "NX"
	case driver.SetIfPresent:
		args.Mode = "XX"
	}

	if c.batching() {
		cmd := c.pipe.SetArgs(ctx, key, value, args)
		c.queue.Defer("set", func() (any, error) {
			if err := translate(cmd.Err()); err != nil {
				if driver.IsNil(err) {
					// Condition not met.
					return false, nil
				}
				return nil, err
			}
			return true, nil
		}, nil, false)
		return false, nil
	}

	start := time.Now()
	err := translate(c.client.SetArgs(ctx, key, value, args).Err())
	metadata := map[string]interface{}{}
	if opts.TTL > 0 {
		metadata["ttl"] = opts.TTL.String()
	}
	c.observe("set", key, "", time.Since(start), err, int64(len(value)), metadata)
	if driver.IsNil(err) {
		return false, nil
	}
	if err != nil {
		return false, driver.WrapCommand("set", err)
	}
	return true, nil
}

// GetSet atomically sets key to value and returns the old value.
func (c *conn) GetSet(ctx context.Context, key string, value []byte) ([]byte, error) {
	if c.batching() {
		cmd := c.pipe.GetSet(ctx, key, value)
		c.queue.Defer("getset", rawResult(cmd.Bytes), nil, []byte(nil))
		return nil, nil
	}
	b, err := c.client.GetSet(ctx, key, value).Bytes()
	return b, driver.WrapCommand("getset", translate(err))
}

// MGet returns the values of keys in order; missing keys yield nil entries.
func (c *conn) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	if c.batching() {
		cmd := c.pipe.MGet(ctx, keys...)
		c.queue.Defer("mget", rawResult(cmd.Result), func(raw any) (any, error) {
			return driver.ToBytesSlice(raw)
		}, [][]byte(nil))
		return nil, nil
	}
	start := time.Now()
	raw, err := c.client.MGet(ctx, keys...).Result()
	err = translate(err)
	resource := ""
	if len(keys) > 0 {
		resource = keys[0]
	}
	c.observe("mget", resource, "", time.Since(start), err, int64(len(raw)), map[string]interface{}{
		"key_count": len(keys),
	})
	if err != nil {
		return nil, driver.WrapCommand("mget", err)
	}
	out, err := driver.ToBytesSlice(raw)
	return out, driver.WrapCommand("mget", err)
}

// MSet writes all pairs in one round trip.
func (c *conn) MSet(ctx context.Context, pairs map[string][]byte) error {
	flat := make([]interface{}, 0, len(pairs)*2)
	for k, v := range pairs {
		flat = append(flat, k, v)
	}
	if c.batching() {
		cmd := c.pipe.MSet(ctx, flat...)
		c.queue.Defer("mset", rawResult(cmd.Result), nil, "")
		return nil
	}
	err := c.client.MSet(ctx, flat...).Err()
	return driver.WrapCommand("mset", translate(err))
}

// Incr increments the integer value of key by one.
func (c *conn) Incr(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.Incr(ctx, key)
		c.queue.Defer("incr", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.Incr(ctx, key).Result()
	return n, driver.WrapCommand("incr", translate(err))
}

// IncrBy increments the integer value of key by delta.
func (c *conn) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	if c.batching() {
		cmd := c.pipe.IncrBy(ctx, key, delta)
		c.queue.Defer("incrby", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.IncrBy(ctx, key, delta).Result()
	return n, driver.WrapCommand("incrby", translate(err))
}

// Decr decrements the integer value of key by one.
func (c *conn) Decr(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.Decr(ctx, key)
		c.queue.Defer("decr", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.Decr(ctx, key).Result()
	return n, driver.WrapCommand("decr", translate(err))
}

// Append appends value to key and returns the new length.
func (c *conn) Append(ctx context.Context, key string, value []byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.Append(ctx, key, string(value))
		c.queue.Defer("append", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.Append(ctx, key, string(value)).Result()
	return n, driver.WrapCommand("append", translate(err))
}

// StrLen returns the length of the value stored at key.
func (c *conn) StrLen(ctx context.Context, key string) (int64, error) {
	if c.batching() {
		cmd := c.pipe.StrLen(ctx, key)
		c.queue.Defer("strlen", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.StrLen(ctx, key).Result()
	return n, driver.WrapCommand("strlen", translate(err))
}

// --- Scripting Commands ---

// Eval runs a Lua script and returns the raw reply.
func (c *conn) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	if c.batching() {
		cmd := c.pipe.Eval(ctx, script, keys, args...)
		c.queue.Defer("eval", rawResult(cmd.Result), nil, nil)
		return nil, nil
	}
	raw, err := c.client.Eval(ctx, script, keys, args...).Result()
	return raw, driver.WrapCommand("eval", translate(err))
}

// --- Server Commands ---

// Ping checks that the server is reachable. Always direct, never deferred.
func (c *conn) Ping(ctx context.Context) error {
	err := c.client.Ping(ctx).Err()
	return driver.WrapCommand("ping", translate(err))
}

// DBSize returns the number of keys in the selected database.
func (c *conn) DBSize(ctx context.Context) (int64, error) {
	if c.batching() {
		cmd := c.pipe.DBSize(ctx)
		c.queue.Defer("dbsize", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	n, err := c.client.DBSize(ctx).Result()
	return n, driver.WrapCommand("dbsize", translate(err))
}

// FlushDB removes all keys from the selected database.
func (c *conn) FlushDB(ctx context.Context) error {
	if c.batching() {
		cmd := c.pipe.FlushDB(ctx)
		c.queue.Defer("flushdb", rawResult(cmd.Result), nil, "")
		return nil
	}
	err := c.client.FlushDB(ctx).Err()
	return driver.WrapCommand("flushdb", translate(err))
}

// --- Pub/Sub Commands ---

// Publish posts message to channel and returns the receiver count.
func (c *conn) Publish(ctx context.Context, channel string, message []byte) (int64, error) {
	if c.batching() {
		cmd := c.pipe.Publish(ctx, channel, message)
		c.queue.Defer("publish", rawResult(cmd.Result), nil, int64(0))
		return 0, nil
	}
	start := time.Now()
	n, err := c.client.Publish(ctx, channel, message).Result()
	err = translate(err)
	c.observe("publish", channel, "", time.Since(start), err, n, nil)
	return n, driver.WrapCommand("publish", err)
}
