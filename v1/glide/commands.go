package glide

import (
	"context"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-glide/go/v2/constants"
	"github.com/valkey-io/valkey-glide/go/v2/options"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// ConvertFunc adapters over the shared converters.
func asBytes(raw any) (any, error)       { return driver.ToBytes(raw) }
func asString(raw any) (any, error)      { return driver.ToString(raw) }
func asInt64(raw any) (any, error)       { return driver.ToInt64(raw) }
func asFloat64(raw any) (any, error)     { return driver.ToFloat64(raw) }
func asBool(raw any) (any, error)        { return driver.ToBool(raw) }
func asStringSlice(raw any) (any, error) { return driver.ToStringSlice(raw) }
func asBytesSlice(raw any) (any, error)  { return driver.ToBytesSlice(raw) }
func asBytesMap(raw any) (any, error)    { return driver.ToBytesMap(raw) }
func asZMembers(raw any) (any, error)    { return driver.ToZMembers(raw) }
func asTTL(raw any) (any, error)         { return driver.SecondsToTTL(raw) }
func asScanCursor(raw any) (any, error)  { return driver.ToScanCursor(raw) }

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// --- KeyCommands ---

func (c *conn) Del(ctx context.Context, keys ...string) (int64, error) {
	raw, deferred, err := c.do(ctx, "del", keys, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) Exists(ctx context.Context, keys ...string) (int64, error) {
	raw, deferred, err := c.do(ctx, "exists", keys, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	raw, deferred, err := c.do(ctx, "pexpire", []string{key}, []string{itoa(ttl.Milliseconds())}, asBool, false)
	if deferred || err != nil {
		return false, err
	}
	return raw.(bool), nil
}

func (c *conn) TTL(ctx context.Context, key string) (time.Duration, error) {
	raw, deferred, err := c.do(ctx, "ttl", []string{key}, nil, asTTL, time.Duration(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(time.Duration), nil
}

func (c *conn) Persist(ctx context.Context, key string) (bool, error) {
	raw, deferred, err := c.do(ctx, "persist", []string{key}, nil, asBool, false)
	if deferred || err != nil {
		return false, err
	}
	return raw.(bool), nil
}

func (c *conn) Type(ctx context.Context, key string) (string, error) {
	raw, deferred, err := c.do(ctx, "type", []string{key}, nil, asString, "")
	if deferred || err != nil {
		return "", err
	}
	return raw.(string), nil
}

func (c *conn) Rename(ctx context.Context, key, newKey string) error {
	_, _, err := c.do(ctx, "rename", []string{key, newKey}, nil, asString, "")
	return err
}

func (c *conn) Keys(ctx context.Context, pattern string) ([]string, error) {
	raw, deferred, err := c.do(ctx, "keys", nil, []string{pattern}, asStringSlice, []string(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]string), nil
}

func (c *conn) Scan(ctx context.Context, cursor uint64, match string, count int64) (driver.ScanCursor, error) {
	if match == "" {
		match = "*"
	}
	if count <= 0 {
		count = 10
	}
	args := []string{strconv.FormatUint(cursor, 10), "MATCH", match, "COUNT", itoa(count)}
	raw, deferred, err := c.do(ctx, "scan", nil, args, asScanCursor, driver.ScanCursor{})
	if deferred || err != nil {
		return driver.ScanCursor{}, err
	}
	return raw.(driver.ScanCursor), nil
}

// --- StringCommands ---

// Get uses the typed GLIDE surface in direct mode; batched reads travel
// with the rest of the batch script.
func (c *conn) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed {
		return nil, driver.ErrClosed
	}
	if c.batching() {
		_, _, err := c.do(ctx, "get", []string{key}, nil, asBytes, []byte(nil))
		return nil, err
	}

	start := time.Now()
	res, err := c.client.Get(ctx, key)
	if err != nil {
		err = driver.WrapCommand("get", translate(err))
		c.observe("get", []string{key}, start, err)
		return nil, err
	}
	if res.IsNil() {
		c.observe("get", []string{key}, start, nil)
		return nil, driver.ErrNil
	}
	c.observe("get", []string{key}, start, nil)
	return []byte(res.Value()), nil
}

// setArgs renders SET's optional arguments in command form, used on the
// script path.
func setArgs(value []byte, opts driver.SetOptions) []string {
	args := []string{string(value)}
	switch opts.Condition {
	case driver.SetIfAbsent:
		args = append(args, "NX")
	case driver.SetIfPresent:
		args = append(args, "XX")
	}
	switch {
	case opts.KeepTTL:
		args = append(args, "KEEPTTL")
	case opts.TTL > 0:
		args = append(args, "PX", itoa(opts.TTL.Milliseconds()))
	}
	return args
}

// Set uses the typed GLIDE surface where it can express the options; the
// KEEPTTL variant and all batched writes go through the script path.
func (c *conn) Set(ctx context.Context, key string, value []byte, opts driver.SetOptions) (bool, error) {
	if c.closed {
		return false, driver.ErrClosed
	}
	if c.batching() || opts.KeepTTL {
		raw, deferred, err := c.do(ctx, "set", []string{key}, setArgs(value, opts), asBool, false)
		if deferred || err != nil {
			return false, err
		}
		return raw.(bool), nil
	}

	setOpts := options.SetOptions{}
	switch opts.Condition {
	case driver.SetIfAbsent:
		setOpts.ConditionalSet = constants.OnlyIfDoesNotExist
	case driver.SetIfPresent:
		setOpts.ConditionalSet = constants.OnlyIfExists
	}
	if opts.TTL > 0 {
		setOpts.Expiry = &options.Expiry{
			Type:     constants.Milliseconds,
			Duration: uint64(opts.TTL.Milliseconds()),
		}
	}

	start := time.Now()
	res, err := c.client.SetWithOptions(ctx, key, string(value), setOpts)
	if err != nil {
		err = driver.WrapCommand("set", translate(err))
		c.observe("set", []string{key}, start, err)
		return false, err
	}
	c.observe("set", []string{key}, start, nil)
	return !res.IsNil(), nil
}

func (c *conn) GetSet(ctx context.Context, key string, value []byte) ([]byte, error) {
	raw, deferred, err := c.do(ctx, "getset", []string{key}, []string{string(value)}, asBytes, []byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([]byte), nil
}

func (c *conn) MGet(ctx context.Context, keys ...string) ([][]byte, error) {
	raw, deferred, err := c.do(ctx, "mget", keys, nil, asBytesSlice, [][]byte(nil))
	if deferred || err != nil {
		return nil, err
	}
	return raw.([][]byte), nil
}

func (c *conn) MSet(ctx context.Context, pairs map[string][]byte) error {
	keys := make([]string, 0, len(pairs))
	args := make([]string, 0, len(pairs)*2)
	for k, v := range pairs {
		keys = append(keys, k)
		args = append(args, k, string(v))
	}
	if c.closed {
		return driver.ErrClosed
	}
	// MSET interleaves keys and values, so the pairs travel in ARGV and the
	// keys ride along in KEYS for routing only.
	if c.batching() {
		c.pending = append(c.pending, pendingCommand{
			command: command{name: "mset", args: args, routing: keys},
			convert: asString,
			def:     "",
		})
		return nil
	}
	script := "return redis.call('MSET', unpack(ARGV))"
	start := time.Now()
	_, err := c.client.InvokeScriptWithOptions(ctx, *options.NewScript(script), options.ScriptOptions{
		Keys: keys,
		Args: args,
	})
	if err != nil {
		err = driver.WrapCommand("mset", translate(err))
	}
	c.observe("mset", keys, start, err)
	return err
}

func (c *conn) Incr(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "incr", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	raw, deferred, err := c.do(ctx, "incrby", []string{key}, []string{itoa(delta)}, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) Decr(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "decr", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) Append(ctx context.Context, key string, value []byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "append", []string{key}, []string{string(value)}, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) StrLen(ctx context.Context, key string) (int64, error) {
	raw, deferred, err := c.do(ctx, "strlen", []string{key}, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

// --- ScriptingCommands ---

// Eval runs a caller-provided script. Scripts cannot nest, so Eval is not
// available while the connection is batching.
func (c *conn) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	if c.closed {
		return nil, driver.ErrClosed
	}
	if c.batching() {
		return nil, driver.WrapCommand("eval", driver.ErrNotSupported)
	}

	formatted := make([]string, len(args))
	for i, arg := range args {
		formatted[i] = formatArg(arg)
	}

	start := time.Now()
	raw, err := c.client.InvokeScriptWithOptions(ctx, *options.NewScript(script), options.ScriptOptions{
		Keys: keys,
		Args: formatted,
	})
	if err != nil {
		err = driver.WrapCommand("eval", translate(err))
	}
	c.observe("eval", keys, start, err)
	return raw, err
}

// --- ServerCommands ---

// Ping always executes immediately, even while batching.
func (c *conn) Ping(ctx context.Context) error {
	if c.closed {
		return driver.ErrClosed
	}
	start := time.Now()
	_, err := c.invoke(ctx, "ping", nil, nil)
	if err != nil {
		err = driver.WrapCommand("ping", translate(err))
	}
	c.observe("ping", nil, start, err)
	return err
}

func (c *conn) DBSize(ctx context.Context) (int64, error) {
	raw, deferred, err := c.do(ctx, "dbsize", nil, nil, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}

func (c *conn) FlushDB(ctx context.Context) error {
	_, _, err := c.do(ctx, "flushdb", nil, nil, asString, "")
	return err
}

// --- PubSubCommands ---

func (c *conn) Publish(ctx context.Context, channel string, message []byte) (int64, error) {
	raw, deferred, err := c.do(ctx, "publish", nil, []string{channel, string(message)}, asInt64, int64(0))
	if deferred || err != nil {
		return 0, err
	}
	return raw.(int64), nil
}
